package importer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"sheetc/common"
	"sheetc/css"
	"sheetc/markup"
	"sheetc/render"
	"sheetc/sheet"
)

// ImportHTML converts exported XHTML back into document. Every element with
// "data-item" class becomes a block. When none is present the visible text
// is imported with ImportText.
func ImportHTML(data []byte, opts Options) (*sheet.Document, error) {
	log := opts.logger()

	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to parse HTML: %w", err)
	}

	conv := &htmlConverter{css: css.NewParser(log), log: log}
	doc := &sheet.Document{Meta: sheet.Meta{Zoom: 1}}
	var items []*html.Node
	walkElements(root, func(n *html.Node) bool {
		switch {
		case hasClass(n, render.ClassDataItem):
			items = append(items, n)
			return false
		case hasClass(n, render.ClassTitle) && doc.Meta.Title == "":
			doc.Meta.Title = strings.TrimSpace(textContent(n))
		case hasClass(n, render.ClassSubtitle) && doc.Meta.Subtitle == "":
			doc.Meta.Subtitle = strings.TrimSpace(textContent(n))
		case hasClass(n, render.ClassFooterText) && doc.Meta.FooterText == "":
			doc.Meta.FooterText = strings.TrimSpace(textContent(n))
		}
		return true
	})

	if len(items) == 0 {
		log.Debug("No data items found, importing text content")
		text := ImportText(visibleText(root), opts)
		if doc.Meta.Title != "" {
			text.Meta.Title = doc.Meta.Title
		}
		return text, nil
	}

	for _, n := range items {
		doc.Blocks = append(doc.Blocks, conv.block(n))
	}
	doc.EnsureIDs()
	doc.TOC = doc.BuildTOC()
	log.Debug("HTML imported", zap.Int("blocks", len(doc.Blocks)))
	return doc, nil
}

type htmlConverter struct {
	css *css.Parser
	log *zap.Logger
}

func (c *htmlConverter) block(n *html.Node) *sheet.Block {
	typ, err := common.ParseBlockType(attr(n, render.AttrType))
	if err != nil {
		typ = common.BlockTypeExample
	}
	b := sheet.NewBlock(typ, "")
	if id := attr(n, render.AttrID); id != "" {
		b.ID = id
	}
	props := c.css.ParseInline(attr(n, "style"))
	if typ == common.BlockTypeSpacer {
		b.Height = DefaultSpacerHeight
		if v, ok := props["height"]; ok && v.IsNumeric() {
			if v.Unit == "px" || v.Unit == "" {
				b.Height = v.Value
			} else if pt, ok := v.Points(12); ok {
				b.Height = pt / 0.75
			}
		}
	}
	if !typ.Rich() {
		return b
	}

	b.Label = attr(n, render.AttrLabel)
	b.Derived = attr(n, render.AttrDerived)
	b.Bordered = hasClass(n, render.ClassBordered)
	b.BgGray = hasClass(n, render.ClassBgGray)
	if v, err := common.ParseVariant(attr(n, render.AttrVariant)); err == nil {
		b.Variant = v
	}
	if v, ok := props["text-align"]; ok {
		if a, err := common.ParseTextAlign(v.Keyword); err == nil {
			b.Style = &sheet.Style{TextAlign: a}
		}
	}
	if v, ok := props["font-family"]; ok {
		family, _, _ := strings.Cut(v.Raw, ",")
		b.FontFamily = strings.Trim(strings.TrimSpace(family), `"'`)
	}
	if v, ok := props["font-size"]; ok {
		if pt, ok := v.Points(12); ok {
			b.FontSizePt = pt
		}
	}

	content := markup.Serialize(c.children(n))
	b.Content = markup.Canonical(strings.TrimSpace(content), typ == common.BlockTypeConcept)
	return b
}

func (c *htmlConverter) children(n *html.Node) markup.Nodes {
	var out markup.Nodes
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		out = c.node(ch, out)
	}
	return out
}

func (c *htmlConverter) node(n *html.Node, out markup.Nodes) markup.Nodes {
	switch n.Type {
	case html.TextNode:
		if v := strings.ReplaceAll(n.Data, "\n", " "); v != "" {
			out = append(out, &markup.Text{Value: v})
		}
		return out
	case html.ElementNode:
	default:
		return out
	}

	switch {
	case n.DataAtom == atom.Br:
		return append(out, &markup.LineBreak{})
	case n.DataAtom == atom.Script || n.DataAtom == atom.Style || hasClass(n, render.ClassBlockLabel):
		return out
	case n.DataAtom == atom.Img:
		if src := attr(n, "src"); src != "" {
			return append(out, &markup.Image{Src: src})
		}
		return out
	case hasClass(n, render.ClassMath):
		return append(out, &markup.Math{Source: attr(n, render.AttrTeX), Display: attr(n, render.AttrDisplay) == "true"})
	case hasClass(n, render.ClassBlank):
		label, ok := attrOK(n, render.AttrLabel)
		if !ok {
			label = textContent(n)
		}
		return append(out, &markup.Blank{Delimiter: delimOf(n), Label: label})
	case hasClass(n, render.ClassConcept):
		body, hasBody := attrOK(n, render.AttrBody)
		return append(out, &markup.ConceptBlank{
			Delimiter: delimOf(n),
			RawLabel:  attr(n, render.AttrRaw),
			Body:      body,
			HasBody:   hasBody,
		})
	case hasClass(n, render.ClassPlaceholder):
		label, ok := attrOK(n, render.AttrLabel)
		if !ok {
			label = textContent(n)
		}
		return append(out, &markup.ImagePlaceholder{Label: label})
	case hasClass(n, render.ClassTable):
		return append(out, c.table(n))
	case hasClass(n, render.ClassChoiceGrid):
		return append(out, c.choiceGrid(n))
	case hasClass(n, render.ClassBox):
		box := &markup.Box{Label: attr(n, render.AttrLabel)}
		if body := findClass(n, render.ClassBoxBody); body != nil {
			box.Children = c.children(body)
		} else {
			box.Children = c.children(n)
		}
		return append(out, box)
	case hasClass(n, render.ClassRectBox):
		return append(out, &markup.RectBox{Children: c.children(n)})
	case n.DataAtom == atom.B || n.DataAtom == atom.Strong:
		return append(out, &markup.StyledSpan{Style: common.StyledKindBold, Keyword: attr(n, render.AttrKeyword), Children: c.children(n)})
	case n.DataAtom == atom.U:
		return append(out, &markup.StyledSpan{Style: common.StyledKindUnderline, Keyword: attr(n, render.AttrKeyword), Children: c.children(n)})
	case n.DataAtom == atom.P || n.DataAtom == atom.Div:
		out = append(out, c.children(n)...)
		if n.NextSibling != nil {
			out = append(out, &markup.LineBreak{})
		}
		return out
	}
	return append(out, c.children(n)...)
}

func (c *htmlConverter) table(n *html.Node) *markup.Table {
	rows, _ := strconv.Atoi(attr(n, render.AttrRows))
	cols, _ := strconv.Atoi(attr(n, render.AttrCols))
	data := make(map[string]string)
	r := 0
	walkElements(n, func(e *html.Node) bool {
		if e.DataAtom == atom.Tr {
			r++
			col := 0
			for td := e.FirstChild; td != nil; td = td.NextSibling {
				if td.Type != html.ElementNode || (td.DataAtom != atom.Td && td.DataAtom != atom.Th) {
					continue
				}
				col++
				key := attr(td, render.AttrCell)
				if key == "" {
					key = markup.CellKey(r, col)
				}
				if v := strings.TrimSpace(markup.Serialize(c.children(td))); v != "" {
					data[key] = v
				}
				cols = max(cols, col)
			}
			return false
		}
		return true
	})
	rows = max(rows, r)
	rows, cols = min(max(rows, 1), markup.MaxTableDim), min(max(cols, 1), markup.MaxTableDim)
	return markup.BuildTable(rows, cols, data, nil)
}

func (c *htmlConverter) choiceGrid(n *html.Node) *markup.ChoiceGrid {
	layout, err := common.ParseChoiceLayout(attr(n, render.AttrLayout))
	if err != nil {
		layout = common.ChoiceLayout1
	}
	data := make(map[string]string)
	walkElements(n, func(e *html.Node) bool {
		num := attr(e, render.AttrNumber)
		if num == "" {
			return true
		}
		src := e
		if text := findClass(e, render.ClassChoiceText); text != nil {
			src = text
		}
		if v := strings.TrimSpace(markup.Serialize(c.children(src))); v != "" {
			data[num] = v
		}
		return false
	})
	return markup.BuildChoiceGrid(layout, data, nil)
}

func delimOf(n *html.Node) rune {
	if d := attr(n, render.AttrDelim); d != "" {
		return []rune(d)[0]
	}
	return ':'
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for c := range strings.FieldsSeq(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// walkElements visits element nodes depth first, fn returning false skips
// children.
func walkElements(n *html.Node, fn func(*html.Node) bool) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && !fn(ch) {
			continue
		}
		walkElements(ch, fn)
	}
}

func findClass(n *html.Node, class string) *html.Node {
	var found *html.Node
	walkElements(n, func(e *html.Node) bool {
		if found != nil {
			return false
		}
		if hasClass(e, class) {
			found = e
			return false
		}
		return true
	})
	return found
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return b.String()
}

// visibleText extracts text of body with line breaks for block elements.
func visibleText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Head:
				return
			case atom.Br:
				b.WriteByte('\n')
				return
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
		if n.Type == html.ElementNode && (n.DataAtom == atom.P || n.DataAtom == atom.Div) {
			b.WriteByte('\n')
		}
	}
	walk(n)
	return b.String()
}
