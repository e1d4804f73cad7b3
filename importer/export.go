package importer

import (
	"strconv"
	"strings"

	"sheetc/common"
	"sheetc/sheet"
)

var (
	variantKeywords = map[common.Variant]string{}
	alignKeywords   = map[common.TextAlign]string{}
)

func init() {
	for k, v := range variantStyles {
		variantKeywords[v] = k
	}
	for k, v := range alignStyles {
		alignKeywords[v] = k
	}
}

// Export serializes document into block header dialect accepted by
// ImportText. Document meta goes first, derived blocks are skipped as they
// are regenerated from content.
func Export(doc *sheet.Document) string {
	var b strings.Builder
	if doc.Meta.Title != "" {
		b.WriteString(metaTitle + " : " + doc.Meta.Title + "\n")
	}
	if doc.Meta.Subtitle != "" {
		b.WriteString(metaSubtitle + " : " + doc.Meta.Subtitle + "\n")
	}
	if doc.Meta.FooterText != "" {
		b.WriteString(metaFooter + doc.Meta.FooterText + "]]\n")
	}
	for _, blk := range doc.Blocks {
		if blk.Derived != "" {
			continue
		}
		b.WriteString("[[")
		b.WriteString(blockHeader(blk))
		b.WriteString("]]")
		if blk.Type.Rich() {
			b.WriteString(" : ")
			b.WriteString(blk.Content)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func blockHeader(blk *sheet.Block) string {
	switch blk.Type {
	case common.BlockTypeBreak:
		return styleBreak
	case common.BlockTypeSpacer:
		h := blk.Height
		if h <= 0 {
			h = DefaultSpacerHeight
		}
		return styleSpacer + "_" + strconv.FormatFloat(h, 'f', -1, 64)
	}

	var styles []string
	switch blk.Type {
	case common.BlockTypeConcept:
		styles = append(styles, styleConcept)
	case common.BlockTypeAnswer:
		styles = append(styles, styleAnswer)
	default:
		styles = append(styles, styleBasic)
	}
	if blk.Bordered {
		styles = append(styles, styleBordered)
	}
	if blk.BgGray {
		styles = append(styles, styleBgGray)
	}
	if kw, ok := variantKeywords[blk.Variant]; ok {
		styles = append(styles, kw)
	}
	if kw, ok := alignKeywords[blk.Align()]; ok {
		styles = append(styles, kw)
	}
	return formatHeader(styles, blk.Label)
}
