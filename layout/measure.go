package layout

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"sheetc/common"
	"sheetc/markup"
	"sheetc/sheet"
)

// Fixed decorations, CSS pixels. Must agree with default stylesheet.
const (
	borderPadding     = 8
	grayPadding       = 6
	boxPadding        = 8
	cellPadding       = 4
	placeholderHeight = 80
	imageHeight       = 160
	defaultSpacer     = 24
)

// Metrics are base typographic parameters.
type Metrics struct {
	FontSizePt float64
	LineHeight float64
	DPI        float64
}

func (m Metrics) withDefaults() Metrics {
	if m.FontSizePt <= 0 {
		m.FontSizePt = 10.5
	}
	if m.LineHeight < 1 {
		m.LineHeight = 1.6
	}
	if m.DPI <= 0 {
		m.DPI = 96
	}
	return m
}

// TextWidth returns advance of single line of text in pixels.
type TextWidth interface {
	Width(s string, sizePx float64) float64
}

// cellWidth counts terminal cells: wide East Asian characters occupy two
// cells, one em.
type cellWidth struct{}

func (cellWidth) Width(s string, sizePx float64) float64 {
	return float64(runewidth.StringWidth(s)) * sizePx / 2
}

// faceWidth measures glyph advances of an OpenType font.
type faceWidth struct {
	font  *opentype.Font
	faces map[float64]font.Face
}

func (f *faceWidth) Width(s string, sizePx float64) float64 {
	face, ok := f.faces[sizePx]
	if !ok {
		var err error
		face, err = opentype.NewFace(f.font, &opentype.FaceOptions{Size: sizePx, DPI: 72, Hinting: font.HintingNone})
		if err != nil {
			return cellWidth{}.Width(s, sizePx)
		}
		f.faces[sizePx] = face
	}
	return float64(font.MeasureString(face, s)) / 64
}

// Estimator is Measurer working from block markup.
type Estimator struct {
	text    TextWidth
	metrics Metrics
	log     *zap.Logger
}

func NewEstimator(text TextWidth, m Metrics, log *zap.Logger) *Estimator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Estimator{text: text, metrics: m.withDefaults(), log: log.Named("measure")}
}

// NewCellMeasurer estimates text width by character cells.
func NewCellMeasurer(m Metrics, log *zap.Logger) *Estimator {
	return NewEstimator(cellWidth{}, m, log)
}

// NewFontMeasurer estimates text width by glyph advances of font data.
func NewFontMeasurer(data []byte, m Metrics, log *zap.Logger) (*Estimator, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse font: %w", err)
	}
	return NewEstimator(&faceWidth{font: f, faces: make(map[float64]font.Face)}, m, log), nil
}

// LoadMeasurer returns font measurer when fontFile is set, cell measurer
// otherwise.
func LoadMeasurer(fontFile string, m Metrics, log *zap.Logger) (*Estimator, error) {
	if fontFile == "" {
		return NewCellMeasurer(m, log), nil
	}
	data, err := os.ReadFile(fontFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read font file: %w", err)
	}
	return NewFontMeasurer(data, m, log)
}

type textStyle struct {
	sizePx     float64
	lineHeight float64
}

func (e *Estimator) style(b *sheet.Block) textStyle {
	pt := e.metrics.FontSizePt
	if b.FontSizePt > 0 {
		pt = b.FontSizePt
	}
	px := pt * e.metrics.DPI / 72
	return textStyle{sizePx: px, lineHeight: px * e.metrics.LineHeight}
}

// Measure returns estimated block height for column width.
func (e *Estimator) Measure(b *sheet.Block, width float64) float64 {
	switch b.Type {
	case common.BlockTypeBreak:
		return 0
	case common.BlockTypeSpacer:
		if b.Height > 0 {
			return b.Height
		}
		return defaultSpacer
	}

	st := e.style(b)
	var h float64
	if b.Bordered {
		h += 2 * borderPadding
		width -= 2 * borderPadding
	}
	if b.BgGray {
		h += 2 * grayPadding
		width -= 2 * grayPadding
	}
	if b.Label != "" && b.Variant != common.VariantLeftConcept {
		h += st.lineHeight
	}
	switch b.Variant {
	case common.VariantLeftConcept:
		width *= 0.7
	case common.VariantTwoColConcept:
		width = (width - boxPadding) / 2
	}

	nodes := markup.Parse(b.Content, markup.Options{RectBoxes: b.Type == common.BlockTypeConcept})
	content := e.nodes(nodes, max(width, st.sizePx), st)
	if b.Variant == common.VariantTwoColConcept {
		content = math.Ceil(content/2/st.lineHeight) * st.lineHeight
	}
	return h + max(content, st.lineHeight)
}

func (e *Estimator) lines(s string, width float64, st textStyle) float64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	return max(1, math.Ceil(e.text.Width(s, st.sizePx)/width))
}

func (e *Estimator) nodes(nodes markup.Nodes, width float64, st textStyle) float64 {
	var (
		h    float64
		line strings.Builder
	)
	flush := func(force bool) {
		n := e.lines(line.String(), width, st)
		if force && n == 0 {
			n = 1
		}
		h += n * st.lineHeight
		line.Reset()
	}
	for _, n := range nodes {
		switch n := n.(type) {
		case *markup.Text:
			line.WriteString(n.Value)
		case *markup.LineBreak:
			flush(true)
		case *markup.Math:
			if n.Display {
				flush(false)
				h += 2 * st.lineHeight
				continue
			}
			line.WriteString(n.Source)
		case *markup.Blank:
			line.WriteString("  " + n.Label + "  ")
		case *markup.ConceptBlank:
			line.WriteString("  " + n.Answer + "  ")
		case *markup.StyledSpan:
			line.WriteString(markup.PlainText(n.Children))
		case *markup.ImagePlaceholder:
			flush(false)
			h += placeholderHeight
		case *markup.Image:
			flush(false)
			h += imageHeight
		case *markup.Table:
			flush(false)
			h += e.table(n, width, st)
		case *markup.ChoiceGrid:
			flush(false)
			h += e.choices(n, width, st)
		case *markup.Box:
			flush(false)
			h += 2 * boxPadding
			if n.Label != "" {
				h += st.lineHeight
			}
			h += e.nodes(n.Children, width-2*boxPadding, st)
		case *markup.RectBox:
			flush(false)
			h += 2*boxPadding + e.nodes(n.Children, width-2*boxPadding, st)
		}
	}
	flush(false)
	return h
}

func (e *Estimator) cell(c *markup.Cell, width float64, st textStyle) float64 {
	return max(st.lineHeight, e.nodes(c.Nodes, max(width-2*cellPadding, st.sizePx), st)) + 2*cellPadding
}

func (e *Estimator) table(t *markup.Table, width float64, st textStyle) float64 {
	var h float64
	cw := width / float64(max(t.Cols, 1))
	for _, row := range t.Cells {
		var rh float64
		for _, c := range row {
			rh = max(rh, e.cell(c, cw, st))
		}
		h += rh
	}
	return h
}

func (e *Estimator) choices(g *markup.ChoiceGrid, width float64, st textStyle) float64 {
	var h float64
	for _, row := range g.Rows() {
		cw := width / float64(len(row))
		var rh float64
		for _, n := range row {
			if n == 0 {
				continue
			}
			rh = max(rh, e.cell(g.Choices[n-1], cw-st.sizePx*2, st))
		}
		h += rh
	}
	return h
}
