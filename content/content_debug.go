package content

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"sheetc/utils/debug"
)

// String returns a readable tree of the whole Content. It exists solely for
// manual inspection during debugging.
func (c *Content) String() string {
	if c == nil || c.Doc == nil {
		return "<nil Content>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Source %q format %s", c.SrcName, c.SrcFormat)
	tw.Text(1, "title", c.Doc.Meta.Title)
	tw.Text(1, "subtitle", c.Doc.Meta.Subtitle)
	tw.Text(1, "footer", c.Doc.Meta.FooterText)

	if s := c.Settings; s != nil {
		tw.Attrs(0, "Settings", map[string]string{
			"font":   s.FontFamily,
			"size":   fmt.Sprint(s.FontSizePt),
			"line":   fmt.Sprint(s.LineHeight),
			"limit":  fmt.Sprint(s.ColumnBlockLimit),
			"chunk":  s.ChunkMode.String(),
			"spacer": fmt.Sprint(s.SpacerHeight),
			"locale": s.Locale,
		})
	}

	tw.Line(0, "Blocks: %d", len(c.Doc.Blocks))
	labels := make(map[string][]string)
	for i, b := range c.Doc.Blocks {
		tw.Line(1, "[%d] %s %s", i, b.Type, b.ID)
		if b.Label != "" {
			tw.Text(2, "label", b.Label)
			labels[b.Label] = append(labels[b.Label], b.ID)
		}
		if b.Type.Rich() {
			tw.Text(2, "content", b.Content)
		}
	}

	if len(labels) > 0 {
		tw.Line(0, "Labels index: %d", len(labels))
		keys := slices.Collect(maps.Keys(labels))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			tw.Line(1, "Label[%q] blocks%v", k, labels[k])
		}
	}
	return tw.String()
}
