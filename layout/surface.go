package layout

import (
	"sheetc/common"
	"sheetc/sheet"
)

// Surface reports whether column content exceeds its container. Hosts with
// real rendering report what they observe, MeasuredSurface estimates.
type Surface interface {
	Overflows(c *Column) bool
}

// SurfaceFunc adapts function to Surface.
type SurfaceFunc func(c *Column) bool

func (f SurfaceFunc) Overflows(c *Column) bool { return f(c) }

// Measurer estimates rendered block height for given column width.
type Measurer interface {
	Measure(b *sheet.Block, width float64) float64
}

// MeasuredSurface decides overflow by summing estimated block heights.
type MeasuredSurface struct {
	tmpl     Template
	measurer Measurer
	heights  map[string]measured
}

// measureKey holds block properties which affect rendered height.
type measureKey struct {
	Type       common.BlockType
	Content    string
	Label      string
	Bordered   bool
	BgGray     bool
	Align      common.TextAlign
	FontFamily string
	FontSizePt float64
	Height     float64
	Variant    common.Variant
}

type measured struct {
	key    measureKey
	height float64
}

func keyOf(b *sheet.Block) measureKey {
	return measureKey{
		Type:       b.Type,
		Content:    b.Content,
		Label:      b.Label,
		Bordered:   b.Bordered,
		BgGray:     b.BgGray,
		Align:      b.Align(),
		FontFamily: b.FontFamily,
		FontSizePt: b.FontSizePt,
		Height:     b.Height,
		Variant:    b.Variant,
	}
}

func NewMeasuredSurface(tmpl Template, m Measurer) *MeasuredSurface {
	return &MeasuredSurface{tmpl: tmpl, measurer: m, heights: make(map[string]measured)}
}

func (s *MeasuredSurface) Template() Template {
	return s.tmpl
}

// Height returns cached block height. Single entry is kept per block id and
// it is measured again when any property affecting height changes, so
// edits are picked up without explicit invalidation and clones share it.
func (s *MeasuredSurface) Height(b *sheet.Block) float64 {
	if b.Type == common.BlockTypeBreak {
		return 0
	}
	key := keyOf(b)
	if m, ok := s.heights[b.ID]; ok && m.key == key {
		return m.height
	}
	h := s.measurer.Measure(b, s.tmpl.ColumnWidth)
	s.heights[b.ID] = measured{key: key, height: h}
	return h
}

// Used returns content height of column.
func (s *MeasuredSurface) Used(c *Column) float64 {
	var used float64
	for i, b := range c.Blocks {
		if i > 0 {
			used += s.tmpl.BlockGap
		}
		used += s.Height(b)
	}
	return used
}

func (s *MeasuredSurface) Overflows(c *Column) bool {
	return s.Used(c) > s.tmpl.Capacity(c.Page)
}

// Reset drops cached heights.
func (s *MeasuredSurface) Reset() {
	clear(s.heights)
}
