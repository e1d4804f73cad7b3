package layout

import (
	"fmt"

	"sheetc/utils/debug"
)

// Dump returns human readable page/column assignment. When surface is not
// nil used and available column heights are included.
func Dump(l *Layout, s *MeasuredSurface) string {
	tw := debug.NewTreeWriter()
	for _, p := range l.Pages {
		tw.Line(0, "page %d", p.Number)
		for _, c := range p.Columns {
			attrs := map[string]string{"blocks": fmt.Sprint(len(c.Blocks))}
			if s != nil {
				attrs["used"] = fmt.Sprintf("%.1f", s.Used(c))
				attrs["capacity"] = fmt.Sprintf("%.1f", s.Template().Capacity(c.Page))
			}
			tw.Attrs(1, "column "+c.Side.String(), attrs)
			for _, b := range c.Blocks {
				if b.Label != "" {
					tw.Line(2, "%s %s %q", b.Type, b.ID, b.Label)
				} else {
					tw.Line(2, "%s %s", b.Type, b.ID)
				}
			}
		}
	}
	return tw.String()
}
