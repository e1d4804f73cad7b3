package markup

import (
	"sheetc/common"
)

// Node is single element of parsed block content. Nodes are host
// independent, renderers map them to their own primitives.
type Node interface {
	Kind() common.TokenKind
}

// Nodes is ordered content of a block, table cell or box body.
type Nodes []Node

type Text struct {
	Value string
}

type LineBreak struct{}

// Math is inline ($...$) or display ($$...$$) expression. Source is the
// text between delimiters as written, TeX has blank tokens replaced by
// math-safe boxed text and is what gets typeset.
type Math struct {
	Source   string
	TeX      string
	Display  bool
	Blanks   []*Blank
	Concepts []*ConceptBlank
}

type Blank struct {
	Delimiter rune
	Label     string
	InMath    bool
}

// ConceptBlank is auto numbered blank. Index is 1 based and assigned in
// document order by Tracker.
type ConceptBlank struct {
	Delimiter rune
	RawLabel  string
	Body      string
	HasBody   bool
	Answer    string
	IsMath    bool
	InMath    bool
	Index     int
}

// Underlined reports whether blank is displayed as underline rather than
// box.
func (c *ConceptBlank) Underlined() bool {
	return len(c.RawLabel) > 0 && c.RawLabel[0] == '_'
}

type ImagePlaceholder struct {
	Label string
}

// Image references external picture by source path or URL.
type Image struct {
	Src string
}

// Cell is independently editable table or choice cell.
type Cell struct {
	Source string
	Nodes  Nodes
}

// Empty reports whether cell has no content.
func (c *Cell) Empty() bool {
	return len(c.Nodes) == 0
}

type Table struct {
	Rows  int
	Cols  int
	Cells [][]*Cell
}

// ChoiceGrid holds exactly ChoiceCount choices arranged by Layout.
type ChoiceGrid struct {
	Layout  common.ChoiceLayout
	Choices []*Cell
}

type StyledSpan struct {
	Style    common.StyledKind
	Keyword  string
	Children Nodes
}

type Box struct {
	Label    string
	Children Nodes
}

type RectBox struct {
	Children Nodes
}

func (*Text) Kind() common.TokenKind             { return common.TokenKindText }
func (*LineBreak) Kind() common.TokenKind        { return common.TokenKindLineBreak }
func (*Math) Kind() common.TokenKind             { return common.TokenKindMath }
func (*Blank) Kind() common.TokenKind            { return common.TokenKindBlank }
func (*ConceptBlank) Kind() common.TokenKind     { return common.TokenKindConceptBlank }
func (*ImagePlaceholder) Kind() common.TokenKind { return common.TokenKindImagePlaceholder }
func (*Image) Kind() common.TokenKind            { return common.TokenKindImage }
func (*Table) Kind() common.TokenKind            { return common.TokenKindTable }
func (*ChoiceGrid) Kind() common.TokenKind       { return common.TokenKindChoiceGrid }
func (*StyledSpan) Kind() common.TokenKind       { return common.TokenKindStyledSpan }
func (*Box) Kind() common.TokenKind              { return common.TokenKindBox }
func (*RectBox) Kind() common.TokenKind          { return common.TokenKindRectBox }

// Walk calls fn for every node in depth first document order, including
// nodes nested in boxes, styled spans and grid cells. Returning false from
// fn skips children of that node.
func Walk(nodes Nodes, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		switch n := n.(type) {
		case *StyledSpan:
			Walk(n.Children, fn)
		case *Box:
			Walk(n.Children, fn)
		case *RectBox:
			Walk(n.Children, fn)
		case *Table:
			for _, row := range n.Cells {
				for _, c := range row {
					Walk(c.Nodes, fn)
				}
			}
		case *ChoiceGrid:
			for _, c := range n.Choices {
				Walk(c.Nodes, fn)
			}
		}
	}
}

// PlainText returns text content without markup, math is kept as TeX
// source and blanks as their labels.
func PlainText(nodes Nodes) string {
	var b []byte
	Walk(nodes, func(n Node) bool {
		switch n := n.(type) {
		case *Text:
			b = append(b, n.Value...)
		case *LineBreak:
			b = append(b, '\n')
		case *Math:
			b = append(b, n.Source...)
		case *Blank:
			b = append(b, n.Label...)
		case *ConceptBlank:
			b = append(b, n.Answer...)
		case *ImagePlaceholder:
			b = append(b, n.Label...)
		}
		return true
	})
	return string(b)
}
