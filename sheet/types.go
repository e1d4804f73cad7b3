// Package sheet defines the persisted document model: ordered semantic
// blocks with markup content plus document meta and settings.
package sheet

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sheetc/common"
)

// Meta holds document level header and footer information.
type Meta struct {
	Title      string  `json:"title"`
	Subtitle   string  `json:"subtitle"`
	FooterText string  `json:"footerText"`
	Zoom       float64 `json:"zoom,omitempty"`
}

type Style struct {
	TextAlign common.TextAlign `json:"textAlign,omitempty"`
}

// Block is a single relocatable content unit. Content is canonical markup
// text, the token tree is derived from it on demand and never persisted.
type Block struct {
	ID         string           `json:"id"`
	Type       common.BlockType `json:"type"`
	Content    string           `json:"content"`
	Label      string           `json:"label,omitempty"`
	Bordered   bool             `json:"bordered,omitempty"`
	BgGray     bool             `json:"bgGray,omitempty"`
	Style      *Style           `json:"style,omitempty"`
	FontFamily string           `json:"fontFamily,omitempty"`
	FontSizePt float64          `json:"fontSizePt,omitempty"`
	Height     float64          `json:"height,omitempty"`
	Variant    common.Variant   `json:"variant,omitempty"`
	Derived    string           `json:"derived,omitempty"`
}

// Derived block tags.
const (
	DerivedConceptAnswers = "concept-answers"
)

// NewBlockID returns fresh unique block identifier.
func NewBlockID() string {
	return "b-" + uuid.NewString()
}

// NewBlock creates block of requested type with fresh id.
func NewBlock(typ common.BlockType, content string) *Block {
	b := &Block{ID: NewBlockID(), Type: typ}
	if typ.Rich() {
		b.Content = content
	}
	return b
}

// Align returns block text alignment, empty when not set.
func (b *Block) Align() common.TextAlign {
	if b.Style == nil {
		return ""
	}
	return b.Style.TextAlign
}

// Counting reports whether block participates in automatic chunking.
func (b *Block) Counting() bool {
	return b.Type != common.BlockTypeAnswer && !b.BgGray
}

// TOCEntry points to a labelled block.
type TOCEntry struct {
	Title   string `json:"title"`
	BlockID string `json:"blockId"`
	Concept bool   `json:"concept,omitempty"`
}

type TableOfContents struct {
	Entries []TOCEntry `json:"entries"`
}

// Document is exclusively owned by editing session and replaced wholesale on
// load, undo and redo.
type Document struct {
	Meta   Meta             `json:"meta"`
	Blocks []*Block         `json:"blocks"`
	TOC    *TableOfContents `json:"toc,omitempty"`
}

// Settings is persisted next to the document and affects layout and import.
type Settings struct {
	FontFamily       string           `json:"fontFamily,omitempty"`
	FontSizePt       float64          `json:"fontSizePt,omitempty"`
	LineHeight       float64          `json:"lineHeight,omitempty"`
	ColumnBlockLimit int              `json:"columnBlockLimit,omitempty"`
	ChunkMode        common.ChunkMode `json:"chunkMode,omitempty"`
	SpacerHeight     float64          `json:"spacerHeight,omitempty"`
	Locale           string           `json:"locale,omitempty"`
}

// Index returns position of the block with given id or -1.
func (d *Document) Index(id string) int {
	for i, b := range d.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Block returns block with given id or nil.
func (d *Document) Block(id string) *Block {
	if i := d.Index(id); i >= 0 {
		return d.Blocks[i]
	}
	return nil
}

// Validate checks document invariants: ids are unique and non empty, types
// are known, break and spacer blocks carry no content.
func (d *Document) Validate() error {
	seen := make(map[string]struct{}, len(d.Blocks))
	for i, b := range d.Blocks {
		if b == nil {
			return fmt.Errorf("block %d is nil", i)
		}
		if b.ID == "" {
			return fmt.Errorf("block %d has no id", i)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("duplicate block id %q", b.ID)
		}
		seen[b.ID] = struct{}{}
		if !b.Type.IsValid() {
			return fmt.Errorf("block %q has unknown type %q", b.ID, b.Type)
		}
		if !b.Type.Rich() && strings.TrimSpace(b.Content) != "" {
			return fmt.Errorf("%s block %q must not have content", b.Type, b.ID)
		}
		if b.Variant != "" && !b.Variant.IsValid() {
			return fmt.Errorf("block %q has unknown variant %q", b.ID, b.Variant)
		}
	}
	return nil
}

// EnsureIDs assigns fresh ids to blocks without one or with an id seen
// earlier in the document.
func (d *Document) EnsureIDs() {
	seen := make(map[string]struct{}, len(d.Blocks))
	for _, b := range d.Blocks {
		if _, dup := seen[b.ID]; b.ID == "" || dup {
			b.ID = NewBlockID()
		}
		seen[b.ID] = struct{}{}
	}
}

// BuildTOC collects labelled rich blocks in document order.
func (d *Document) BuildTOC() *TableOfContents {
	toc := &TableOfContents{}
	for _, b := range d.Blocks {
		if b.Label == "" || !b.Type.Rich() || b.Derived != "" {
			continue
		}
		toc.Entries = append(toc.Entries, TOCEntry{
			Title:   b.Label,
			BlockID: b.ID,
			Concept: b.Type == common.BlockTypeConcept,
		})
	}
	if len(toc.Entries) == 0 {
		return nil
	}
	return toc
}
