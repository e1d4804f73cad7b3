package markup

import (
	"strings"
)

// Serialize converts nodes back to markup text. For content produced by
// Parse the result parses into equivalent nodes.
func Serialize(nodes Nodes) string {
	var b strings.Builder
	writeNodes(&b, nodes)
	return b.String()
}

func writeNodes(b *strings.Builder, nodes Nodes) {
	for _, n := range nodes {
		writeNode(b, n)
	}
}

func writeNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Text:
		b.WriteString(strings.ReplaceAll(n.Value, "$", `\$`))
	case *LineBreak:
		b.WriteByte('\n')
	case *Math:
		d := "$"
		if n.Display {
			d = "$$"
		}
		b.WriteString(d)
		b.WriteString(n.Source)
		b.WriteString(d)
	case *Blank:
		b.WriteString("[" + kwBlank)
		b.WriteRune(delimiter(n.Delimiter))
		b.WriteString(n.Label)
		b.WriteByte(']')
	case *ConceptBlank:
		b.WriteString("[" + kwConceptBlank)
		b.WriteRune(delimiter(n.Delimiter))
		b.WriteString(n.RawLabel)
		b.WriteByte(']')
		if n.HasBody {
			b.WriteString(n.Body)
			b.WriteString(kwConceptClose)
		}
	case *ImagePlaceholder:
		b.WriteString("[" + kwImage + ":" + n.Label + "]")
	case *Image:
		b.WriteString("[" + kwPicture + ":" + n.Src + "]")
	case *Table:
		b.WriteString(SerializeTable(n))
	case *ChoiceGrid:
		b.WriteString(SerializeChoiceGrid(n))
	case *StyledSpan:
		kw := n.Keyword
		if kw == "" {
			kw = StyledKeyword(n.Style)
		}
		b.WriteString("[" + kw + ":")
		writeNodes(b, n.Children)
		b.WriteByte(']')
	case *Box:
		b.WriteString("[" + kwBox)
		if n.Label != "" {
			b.WriteString("_" + n.Label)
		}
		b.WriteString("]\n")
		writeNodes(b, n.Children)
		b.WriteString("\n" + kwBoxClose)
	case *RectBox:
		b.WriteString("[" + kwRectBox + "]\n")
		writeNodes(b, n.Children)
		b.WriteString("\n" + kwRectBoxClose)
	}
}

func delimiter(r rune) rune {
	if r == 0 {
		return ':'
	}
	return r
}
