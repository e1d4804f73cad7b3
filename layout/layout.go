// Package layout distributes document blocks over fixed two column page
// template. Pages and columns are derived containers, blocks are never
// modified.
package layout

import (
	"slices"

	"sheetc/common"
	"sheetc/sheet"
)

// Template describes page geometry in CSS pixels. First page columns are
// shorter as they share the page with document header.
type Template struct {
	ColumnWidth           float64
	ColumnHeight          float64
	FirstPageColumnHeight float64
	BlockGap              float64
}

// Capacity returns height available to a column on given 1 based page.
func (t Template) Capacity(page int) float64 {
	if page == 1 && t.FirstPageColumnHeight > 0 {
		return t.FirstPageColumnHeight
	}
	return t.ColumnHeight
}

type Column struct {
	Page   int
	Side   common.ColumnSide
	Blocks []*sheet.Block
}

func (c *Column) push(b *sheet.Block) {
	c.Blocks = append(c.Blocks, b)
}

func (c *Column) pop() *sheet.Block {
	b := c.Blocks[len(c.Blocks)-1]
	c.Blocks = c.Blocks[:len(c.Blocks)-1]
	return b
}

func (c *Column) unshift(b *sheet.Block) {
	c.Blocks = slices.Insert(c.Blocks, 0, b)
}

type Page struct {
	Number  int
	Columns [2]*Column
}

// Layout is result of pagination pass.
type Layout struct {
	Pages []*Page
}

func (l *Layout) addPage() *Page {
	n := len(l.Pages) + 1
	p := &Page{
		Number: n,
		Columns: [2]*Column{
			{Page: n, Side: common.ColumnSideLeft},
			{Page: n, Side: common.ColumnSideRight},
		},
	}
	l.Pages = append(l.Pages, p)
	return p
}

// next returns column following c, allocating new page when c is the last
// right column.
func (l *Layout) next(c *Column) *Column {
	if c.Side == common.ColumnSideLeft {
		return l.Pages[c.Page-1].Columns[1]
	}
	if c.Page < len(l.Pages) {
		return l.Pages[c.Page].Columns[0]
	}
	return l.addPage().Columns[0]
}

// Columns returns all columns in reading order.
func (l *Layout) Columns() []*Column {
	res := make([]*Column, 0, 2*len(l.Pages))
	for _, p := range l.Pages {
		res = append(res, p.Columns[0], p.Columns[1])
	}
	return res
}

// trim drops trailing pages without blocks, first page is always kept.
func (l *Layout) trim() {
	for len(l.Pages) > 1 {
		p := l.Pages[len(l.Pages)-1]
		if len(p.Columns[0].Blocks) > 0 || len(p.Columns[1].Blocks) > 0 {
			return
		}
		l.Pages = l.Pages[:len(l.Pages)-1]
	}
}

// Position is placement of a single block.
type Position struct {
	BlockID string            `json:"blockId"`
	Page    int               `json:"page"`
	Side    common.ColumnSide `json:"side"`
	Index   int               `json:"index"`
}

// Positions lists block placements in reading order.
func (l *Layout) Positions() []Position {
	var res []Position
	for _, c := range l.Columns() {
		for i, b := range c.Blocks {
			res = append(res, Position{BlockID: b.ID, Page: c.Page, Side: c.Side, Index: i})
		}
	}
	return res
}

// Equal reports whether both layouts assign the same blocks to the same
// pages and columns.
func (l *Layout) Equal(o *Layout) bool {
	if len(l.Pages) != len(o.Pages) {
		return false
	}
	return slices.Equal(l.Positions(), o.Positions())
}

// Find returns column holding block with given id.
func (l *Layout) Find(id string) (*Column, int) {
	for _, c := range l.Columns() {
		for i, b := range c.Blocks {
			if b.ID == id {
				return c, i
			}
		}
	}
	return nil, -1
}
