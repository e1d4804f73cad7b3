package markup

import (
	"strconv"

	"sheetc/utils/debug"
)

// Dump returns indented human readable representation of nodes.
func Dump(nodes Nodes) string {
	tw := debug.NewTreeWriter()
	dumpNodes(tw, 0, nodes)
	return tw.String()
}

func dumpNodes(tw *debug.TreeWriter, depth int, nodes Nodes) {
	for _, n := range nodes {
		dumpNode(tw, depth, n)
	}
}

func dumpNode(tw *debug.TreeWriter, depth int, n Node) {
	switch n := n.(type) {
	case *Text:
		tw.Text(depth, "text", n.Value)
	case *LineBreak:
		tw.Line(depth, "br")
	case *Math:
		tw.Attrs(depth, "math", map[string]string{
			"display": strconv.FormatBool(n.Display),
			"source":  n.Source,
			"tex":     n.TeX,
		})
	case *Blank:
		tw.Attrs(depth, "blank", map[string]string{"label": n.Label})
	case *ConceptBlank:
		tw.Attrs(depth, "concept-blank", map[string]string{
			"index":  strconv.Itoa(n.Index),
			"answer": n.Answer,
			"math":   strconv.FormatBool(n.IsMath),
		})
	case *ImagePlaceholder:
		tw.Attrs(depth, "image-placeholder", map[string]string{"label": n.Label})
	case *Image:
		tw.Attrs(depth, "image", map[string]string{"src": n.Src})
	case *Table:
		tw.Line(depth, "table %dx%d", n.Rows, n.Cols)
		tw.Attrs(depth+1, "cells", n.Data())
	case *ChoiceGrid:
		tw.Line(depth, "choice-grid %s", n.Layout)
		data := make(map[string]string)
		for i, c := range n.Choices {
			if v := cellMarkup(c); v != "" {
				data[strconv.Itoa(i+1)] = v
			}
		}
		tw.Attrs(depth+1, "choices", data)
	case *StyledSpan:
		tw.Line(depth, "styled %s", n.Style)
		dumpNodes(tw, depth+1, n.Children)
	case *Box:
		tw.Attrs(depth, "box", map[string]string{"label": n.Label})
		dumpNodes(tw, depth+1, n.Children)
	case *RectBox:
		tw.Line(depth, "rect-box")
		dumpNodes(tw, depth+1, n.Children)
	}
}
