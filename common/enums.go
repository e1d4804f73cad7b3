// Package common holds enumerations shared by the document model, markup,
// layout and history packages. Go code for them is produced by go-enum.
package common

// Semantic kind of a document block.
// ENUM(concept, example, answer, break, spacer)
type BlockType string

// Rich blocks carry markup content, break and spacer blocks do not.
func (t BlockType) Rich() bool {
	return t != BlockTypeBreak && t != BlockTypeSpacer
}

// Concept block layout variant.
// ENUM(left-concept, top-concept, two-col-concept)
type Variant string

// Horizontal alignment of block text.
// ENUM(left, center, right, justify)
type TextAlign string

// Why history snapshot was taken.
// ENUM(typing, manual)
type HistoryReason string

// Kind of inline markup token.
// ENUM(text, line-break, math, blank, concept-blank, image-placeholder, image, table, choice-grid, styled-span, box, rect-box)
type TokenKind int

// Row arrangement of five choice cells: one row of five, rows of three and
// two, or five single choice rows.
// ENUM(1, 2, 5)
type ChoiceLayout string

// Styled span flavor.
// ENUM(bold, underline)
type StyledKind string

// Column within two column page template.
// ENUM(left, right)
type ColumnSide int

// How automatic chunking separates groups of counting blocks.
// ENUM(none, break, spacer)
type ChunkMode string

// Specification of input source format.
// ENUM(auto, markup, json, html, bundle)
type SourceFmt int

// Specification of requested output type.
// ENUM(json, markup, xhtml, bundle)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtJson:
		return ".json"
	case OutputFmtMarkup:
		return ".txt"
	case OutputFmtXhtml:
		return ".xhtml"
	case OutputFmtBundle:
		return ".sheet.zip"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
