// Package render turns paginated document into XHTML pages.
package render

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"sheetc/common"
	"sheetc/css"
	"sheetc/layout"
	"sheetc/markup"
	"sheetc/sheet"
	"sheetc/typeset"
)

//go:embed default.css
var defaultCSS []byte

// DefaultCSS returns embedded page stylesheet.
func DefaultCSS() []byte {
	return defaultCSS
}

// Options control rendering.
type Options struct {
	Locale string
	// Typeset converts math to MathML, literal source is kept when nil.
	Typeset *typeset.Service
	// FontFamily and FontFile add @font-face rule and make it the body font.
	FontFamily string
	FontFile   string
	// Stylesheet is appended to the default one.
	Stylesheet []byte
	Log        *zap.Logger
}

type Renderer struct {
	opts   Options
	labels [markup.ChoiceCount]string
	css    *css.Stylesheet
	log    *zap.Logger
}

func New(opts Options) *Renderer {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("render")

	parser := css.NewParser(log)
	styles := parser.Parse(defaultCSS, "default.css")
	if len(opts.Stylesheet) > 0 {
		styles.Append(parser.Parse(opts.Stylesheet, "user stylesheet"))
	}
	if opts.FontFamily != "" && opts.FontFile != "" {
		styles.AddFontFace(css.FontFace{Family: opts.FontFamily, Src: fmt.Sprintf("url(%q)", opts.FontFile)})
		styles.Append(parser.Parse(fmt.Appendf(nil, "body { font-family: %q; }", opts.FontFamily), "font"))
	}
	for _, w := range styles.Warnings {
		log.Debug("Stylesheet warning", zap.String("warning", w))
	}
	return &Renderer{
		opts:   opts,
		labels: markup.ChoiceLabels(opts.Locale),
		css:    styles,
		log:    log,
	}
}

// Stylesheet returns effective stylesheet.
func (r *Renderer) Stylesheet() *css.Stylesheet {
	return r.css
}

// Parsed holds block nodes produced by a single tracker pass.
type Parsed map[string]markup.Nodes

// Parse parses rich blocks in document order with shared tracker so that
// concept blanks are numbered across the whole document. Derived blocks use
// private tracker.
func Parse(doc *sheet.Document, tr *markup.Tracker, log *zap.Logger) Parsed {
	res := make(Parsed, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if !b.Type.Rich() {
			continue
		}
		opts := markup.Options{Tracker: tr, RectBoxes: b.Type == common.BlockTypeConcept, Log: log}
		if b.Derived != "" {
			opts.Tracker = nil
		}
		res[b.ID] = markup.Parse(b.Content, opts)
	}
	return res
}

// prefetch starts typesetting of every math expression so that conversions
// run while the tree is being built.
func (r *Renderer) prefetch(parsed Parsed) {
	if r.opts.Typeset == nil {
		return
	}
	for _, nodes := range parsed {
		markup.Walk(nodes, func(n markup.Node) bool {
			if m, ok := n.(*markup.Math); ok {
				r.opts.Typeset.Request(m.TeX, m.Display)
			}
			return true
		})
	}
}

// Pages builds XHTML document with one page element per layout page. Break
// blocks are not placed by layout, they are emitted into the column of the
// preceding block so that exported document keeps them.
func (r *Renderer) Pages(ctx context.Context, doc *sheet.Document, l *layout.Layout) *etree.Document {
	parsed := Parse(doc, markup.NewTracker(), r.log)
	r.prefetch(parsed)

	out, body := r.document(doc.Meta.Title)

	columns := make(map[string]*etree.Element)
	var cols []*etree.Element
	for _, p := range l.Pages {
		page := body.CreateElement("div")
		page.CreateAttr("class", ClassPage)
		page.CreateAttr(AttrPage, strconv.Itoa(p.Number))
		if p.Number == 1 {
			r.header(page, doc.Meta)
		}
		wrap := page.CreateElement("div")
		wrap.CreateAttr("class", ClassColumns)
		for _, c := range p.Columns {
			col := wrap.CreateElement("div")
			col.CreateAttr("class", ClassColumn)
			col.CreateAttr(AttrSide, c.Side.String())
			cols = append(cols, col)
			for _, b := range c.Blocks {
				columns[b.ID] = col
			}
		}
		r.footer(page, doc.Meta, p.Number)
	}

	if len(cols) == 0 {
		closeEmpty(out.Root())
		return out
	}
	cur := cols[0]
	for _, b := range doc.Blocks {
		if col, ok := columns[b.ID]; ok {
			cur = col
		}
		cur.AddChild(r.block(ctx, b, parsed[b.ID]))
	}

	closeEmpty(out.Root())
	return out
}

// Write renders pages and writes XHTML to w.
func (r *Renderer) Write(ctx context.Context, w io.Writer, doc *sheet.Document, l *layout.Layout) error {
	out := r.Pages(ctx, doc, l)
	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write XHTML: %w", err)
	}
	return nil
}

// Block renders single block fragment. Nodes are parsed from block content
// when nil.
func (r *Renderer) Block(ctx context.Context, b *sheet.Block, nodes markup.Nodes) *etree.Element {
	if nodes == nil && b.Type.Rich() {
		nodes = markup.Parse(b.Content, markup.Options{RectBoxes: b.Type == common.BlockTypeConcept, Log: r.log})
	}
	el := r.block(ctx, b, nodes)
	closeEmpty(el)
	return el
}

func (r *Renderer) document(title string) (*etree.Document, *etree.Element) {
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	out.CreateDirective("DOCTYPE html")

	html := out.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	if r.opts.Locale != "" {
		html.CreateAttr("lang", r.opts.Locale)
	}
	head := html.CreateElement("head")
	meta := head.CreateElement("meta")
	meta.CreateAttr("http-equiv", "Content-Type")
	meta.CreateAttr("content", "text/html; charset=utf-8")
	head.CreateElement("title").SetText(title)
	head.CreateElement("style").SetText("\n" + r.css.String())

	return out, html.CreateElement("body")
}

func (r *Renderer) header(page *etree.Element, meta sheet.Meta) {
	hdr := page.CreateElement("div")
	hdr.CreateAttr("class", ClassPageHeader)
	if meta.Title != "" {
		t := hdr.CreateElement("div")
		t.CreateAttr("class", ClassTitle)
		t.SetText(meta.Title)
	}
	if meta.Subtitle != "" {
		t := hdr.CreateElement("div")
		t.CreateAttr("class", ClassSubtitle)
		t.SetText(meta.Subtitle)
	}
}

func (r *Renderer) footer(page *etree.Element, meta sheet.Meta, number int) {
	ftr := page.CreateElement("div")
	ftr.CreateAttr("class", ClassPageFooter)
	text := ftr.CreateElement("span")
	text.CreateAttr("class", ClassFooterText)
	text.SetText(meta.FooterText)
	num := ftr.CreateElement("span")
	num.CreateAttr("class", ClassPageNumber)
	num.SetText(strconv.Itoa(number))
}

func blockStyle(b *sheet.Block) string {
	var decl []string
	if a := b.Align(); a != "" {
		decl = append(decl, "text-align: "+a.String())
	}
	if b.FontFamily != "" {
		decl = append(decl, fmt.Sprintf("font-family: %q", b.FontFamily))
	}
	if b.FontSizePt > 0 {
		decl = append(decl, "font-size: "+strconv.FormatFloat(b.FontSizePt, 'f', -1, 64)+"pt")
	}
	if b.Type == common.BlockTypeSpacer && b.Height > 0 {
		decl = append(decl, "height: "+strconv.FormatFloat(b.Height, 'f', -1, 64)+"px")
	}
	return strings.Join(decl, "; ")
}

func (r *Renderer) block(ctx context.Context, b *sheet.Block, nodes markup.Nodes) *etree.Element {
	el := etree.NewElement("div")
	classes := []string{ClassDataItem}
	if b.Bordered {
		classes = append(classes, ClassBordered)
	}
	if b.BgGray {
		classes = append(classes, ClassBgGray)
	}
	if b.Variant != "" {
		classes = append(classes, b.Variant.String())
	}
	el.CreateAttr("class", strings.Join(classes, " "))
	el.CreateAttr(AttrID, b.ID)
	el.CreateAttr(AttrType, b.Type.String())
	if b.Label != "" {
		el.CreateAttr(AttrLabel, b.Label)
	}
	if b.Variant != "" {
		el.CreateAttr(AttrVariant, b.Variant.String())
	}
	if b.Derived != "" {
		el.CreateAttr(AttrDerived, b.Derived)
	}
	if style := blockStyle(b); style != "" {
		el.CreateAttr("style", style)
	}
	if !b.Type.Rich() {
		return el
	}
	if b.Label != "" {
		lbl := el.CreateElement("div")
		lbl.CreateAttr("class", ClassBlockLabel)
		lbl.SetText(b.Label)
	}
	r.nodes(ctx, el, nodes)
	return el
}

func (r *Renderer) nodes(ctx context.Context, parent *etree.Element, nodes markup.Nodes) {
	for _, n := range nodes {
		r.node(ctx, parent, n)
	}
}

func (r *Renderer) node(ctx context.Context, parent *etree.Element, n markup.Node) {
	switch n := n.(type) {
	case *markup.Text:
		parent.CreateText(n.Value)
	case *markup.LineBreak:
		parent.CreateElement("br")
	case *markup.Math:
		r.math(ctx, parent, n)
	case *markup.Blank:
		el := parent.CreateElement("span")
		el.CreateAttr("class", ClassBlank)
		el.CreateAttr(AttrLabel, n.Label)
		el.CreateAttr(AttrDelim, string(delim(n.Delimiter)))
		el.SetText(n.Label)
	case *markup.ConceptBlank:
		el := parent.CreateElement("span")
		class := ClassConcept
		if n.Underlined() {
			class += " " + ClassUnderline
		}
		el.CreateAttr("class", class)
		el.CreateAttr(AttrIndex, strconv.Itoa(n.Index))
		el.CreateAttr(AttrRaw, n.RawLabel)
		el.CreateAttr(AttrDelim, string(delim(n.Delimiter)))
		if n.HasBody {
			el.CreateAttr(AttrBody, n.Body)
		}
		el.SetText("(" + strconv.Itoa(n.Index) + ")")
	case *markup.ImagePlaceholder:
		el := parent.CreateElement("span")
		el.CreateAttr("class", ClassPlaceholder)
		el.CreateAttr(AttrLabel, n.Label)
		el.SetText(n.Label)
	case *markup.Image:
		el := parent.CreateElement("img")
		el.CreateAttr("class", ClassImage)
		el.CreateAttr("src", n.Src)
		el.CreateAttr("alt", "")
	case *markup.Table:
		r.table(ctx, parent, n)
	case *markup.ChoiceGrid:
		r.choices(ctx, parent, n)
	case *markup.StyledSpan:
		tag := "b"
		if n.Style == common.StyledKindUnderline {
			tag = "u"
		}
		el := parent.CreateElement(tag)
		kw := n.Keyword
		if kw == "" {
			kw = markup.StyledKeyword(n.Style)
		}
		el.CreateAttr(AttrKeyword, kw)
		r.nodes(ctx, el, n.Children)
	case *markup.Box:
		el := parent.CreateElement("div")
		el.CreateAttr("class", ClassBox)
		if n.Label != "" {
			el.CreateAttr(AttrLabel, n.Label)
			lbl := el.CreateElement("div")
			lbl.CreateAttr("class", ClassBoxLabel)
			lbl.SetText(n.Label)
		}
		body := el.CreateElement("div")
		body.CreateAttr("class", ClassBoxBody)
		r.nodes(ctx, body, n.Children)
	case *markup.RectBox:
		el := parent.CreateElement("div")
		el.CreateAttr("class", ClassRectBox)
		r.nodes(ctx, el, n.Children)
	}
}

func delim(d rune) rune {
	if d == 0 {
		return ':'
	}
	return d
}

func (r *Renderer) math(ctx context.Context, parent *etree.Element, m *markup.Math) {
	el := parent.CreateElement("span")
	el.CreateAttr("class", ClassMath)
	el.CreateAttr(AttrTeX, m.Source)
	el.CreateAttr(AttrDisplay, strconv.FormatBool(m.Display))

	d := "$"
	if m.Display {
		d = "$$"
	}
	if r.opts.Typeset == nil {
		el.SetText(d + m.Source + d)
		return
	}
	mathml, ok := r.opts.Typeset.Lookup(m.TeX, m.Display)
	var err error
	if !ok {
		mathml, err = r.opts.Typeset.Typeset(ctx, m.TeX, m.Display)
	}
	if err == nil {
		frag := etree.NewDocument()
		if err = frag.ReadFromString(mathml); err == nil && frag.Root() != nil {
			el.AddChild(frag.Root())
			return
		}
	}
	r.log.Debug("Math kept as source", zap.String("tex", m.Source), zap.Error(err))
	el.SetText(d + m.Source + d)
}

func (r *Renderer) cell(ctx context.Context, td *etree.Element, c *markup.Cell) {
	if c != nil {
		r.nodes(ctx, td, c.Nodes)
	}
}

func (r *Renderer) table(ctx context.Context, parent *etree.Element, t *markup.Table) {
	el := parent.CreateElement("table")
	el.CreateAttr("class", ClassTable)
	el.CreateAttr(AttrRows, strconv.Itoa(t.Rows))
	el.CreateAttr(AttrCols, strconv.Itoa(t.Cols))
	tbody := el.CreateElement("tbody")
	for i, row := range t.Cells {
		tr := tbody.CreateElement("tr")
		for j, c := range row {
			td := tr.CreateElement("td")
			td.CreateAttr(AttrCell, markup.CellKey(i+1, j+1))
			r.cell(ctx, td, c)
		}
	}
}

func (r *Renderer) choices(ctx context.Context, parent *etree.Element, g *markup.ChoiceGrid) {
	el := parent.CreateElement("table")
	el.CreateAttr("class", ClassChoiceGrid)
	el.CreateAttr(AttrLayout, g.Layout.String())
	tbody := el.CreateElement("tbody")
	for _, row := range g.Rows() {
		tr := tbody.CreateElement("tr")
		for _, n := range row {
			td := tr.CreateElement("td")
			if n == 0 {
				continue
			}
			td.CreateAttr("class", ClassChoice)
			td.CreateAttr(AttrNumber, strconv.Itoa(n))
			lbl := td.CreateElement("span")
			lbl.CreateAttr("class", ClassChoiceLabel)
			lbl.SetText(r.labels[n-1])
			text := td.CreateElement("span")
			text.CreateAttr("class", ClassChoiceText)
			r.cell(ctx, text, g.Choices[n-1])
		}
	}
}

var voidElements = map[string]bool{
	"br": true, "img": true, "meta": true, "link": true, "hr": true, "col": true, "input": true,
}

// closeEmpty gives empty non-void elements explicit end tag, HTML parsers
// treat "<div/>" as an open tag.
func closeEmpty(el *etree.Element) {
	if el == nil {
		return
	}
	if len(el.Child) == 0 && !voidElements[el.Tag] && el.Space == "" && !isMathML(el) {
		el.CreateText("")
		return
	}
	for _, ch := range el.ChildElements() {
		closeEmpty(ch)
	}
}

func isMathML(el *etree.Element) bool {
	for p := el; p != nil; p = p.Parent() {
		if p.Tag == "math" {
			return true
		}
	}
	return false
}
