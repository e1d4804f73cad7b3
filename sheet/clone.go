package sheet

// Clone and deep copy functions for documents. Snapshots handed to history,
// layout and renderers must never alias the live document.

// Clone creates a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{
		Meta:   d.Meta,
		Blocks: cloneBlocks(d.Blocks),
		TOC:    cloneTOC(d.TOC),
	}
}

// Clone creates a deep copy of the block.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	result := *b
	result.Style = cloneStyle(b.Style)
	return &result
}

// Clone creates a copy of settings.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	result := *s
	return &result
}

func cloneBlocks(blocks []*Block) []*Block {
	if blocks == nil {
		return nil
	}
	result := make([]*Block, len(blocks))
	for i, b := range blocks {
		result[i] = b.Clone()
	}
	return result
}

func cloneStyle(s *Style) *Style {
	if s == nil {
		return nil
	}
	result := *s
	return &result
}

func cloneTOC(toc *TableOfContents) *TableOfContents {
	if toc == nil {
		return nil
	}
	result := &TableOfContents{}
	if toc.Entries != nil {
		result.Entries = make([]TOCEntry, len(toc.Entries))
		copy(result.Entries, toc.Entries)
	}
	return result
}
