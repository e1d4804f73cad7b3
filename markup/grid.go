package markup

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"sheetc/common"
)

// CellParser turns cell markup into nodes. Cells are parsed in row-major
// (tables) or ascending choice order so concept blank indices stay
// deterministic.
type CellParser func(src string) Nodes

func newCell(src string, parse CellParser) *Cell {
	c := &Cell{Source: src}
	if strings.TrimSpace(src) != "" && parse != nil {
		c.Nodes = parse(src)
	}
	return c
}

// BuildTable creates rows x cols grid seeded from sparse "RxC" -> markup map.
func BuildTable(rows, cols int, data map[string]string, parse CellParser) *Table {
	t := &Table{Rows: rows, Cols: cols, Cells: make([][]*Cell, rows)}
	for r := range rows {
		t.Cells[r] = make([]*Cell, cols)
		for c := range cols {
			t.Cells[r][c] = newCell(data[CellKey(r+1, c+1)], parse)
		}
	}
	return t
}

// Cell returns cell at 1 based position or nil.
func (t *Table) Cell(row, col int) *Cell {
	if row < 1 || col < 1 || row > t.Rows || col > t.Cols {
		return nil
	}
	return t.Cells[row-1][col-1]
}

// Data returns sparse map of non-empty cells in canonical form.
func (t *Table) Data() map[string]string {
	data := make(map[string]string)
	for r, row := range t.Cells {
		for c, cell := range row {
			if v := cellMarkup(cell); v != "" {
				data[CellKey(r+1, c+1)] = v
			}
		}
	}
	return data
}

// BuildChoiceGrid creates grid of ChoiceCount choices seeded from
// "n" -> markup map.
func BuildChoiceGrid(layout common.ChoiceLayout, data map[string]string, parse CellParser) *ChoiceGrid {
	g := &ChoiceGrid{Layout: layout, Choices: make([]*Cell, ChoiceCount)}
	for i := range ChoiceCount {
		g.Choices[i] = newCell(data[strconv.Itoa(i+1)], parse)
	}
	return g
}

// Rows returns 1 based choice numbers arranged per layout, 0 marks empty
// cell.
func (g *ChoiceGrid) Rows() [][]int {
	switch g.Layout {
	case common.ChoiceLayout2:
		return [][]int{{1, 2, 3}, {4, 5, 0}}
	case common.ChoiceLayout5:
		return [][]int{{1}, {2}, {3}, {4}, {5}}
	default:
		return [][]int{{1, 2, 3, 4, 5}}
	}
}

// cellMarkup returns normalized cell content.
func cellMarkup(c *Cell) string {
	if c == nil {
		return ""
	}
	if c.Nodes == nil {
		return strings.TrimSpace(c.Source)
	}
	return strings.TrimSpace(Serialize(c.Nodes))
}

func writeItem(b *strings.Builder, first bool, key, value string) {
	if first {
		b.WriteString(" : ")
	} else {
		b.WriteString(", ")
	}
	b.WriteString("(")
	b.WriteString(key)
	b.WriteString(`_"`)
	b.WriteString(escapeValue(value))
	b.WriteString(`")`)
}

// SerializeTable emits "[표_RxC] : (1x1_"..."), ..." walking cells in
// row-major order and skipping empty ones.
func SerializeTable(t *Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s_%s]", kwTable, CellKey(t.Rows, t.Cols))
	first := true
	for r, row := range t.Cells {
		for c, cell := range row {
			v := cellMarkup(cell)
			if v == "" {
				continue
			}
			writeItem(&b, first, CellKey(r+1, c+1), v)
			first = false
		}
	}
	return b.String()
}

// SerializeChoiceGrid emits "[선지_N행] : (1_"..."), ..." in ascending
// choice order skipping empty choices.
func SerializeChoiceGrid(g *ChoiceGrid) string {
	var b strings.Builder
	layout := g.Layout
	if !layout.IsValid() {
		layout = common.ChoiceLayout1
	}
	fmt.Fprintf(&b, "[%s_%s%s]", kwChoice, layout, kwChoiceRows)
	first := true
	for i, cell := range g.Choices {
		v := cellMarkup(cell)
		if v == "" {
			continue
		}
		writeItem(&b, first, strconv.Itoa(i+1), v)
		first = false
	}
	return b.String()
}

var choiceMatcher = language.NewMatcher([]language.Tag{language.English, language.Korean})

var (
	circledLabels = [ChoiceCount]string{"①", "②", "③", "④", "⑤"}
	numberLabels  = [ChoiceCount]string{"1.", "2.", "3.", "4.", "5."}
)

// ChoiceLabels returns fixed choice labels for locale.
func ChoiceLabels(locale string) [ChoiceCount]string {
	tag, err := language.Parse(locale)
	if err != nil {
		return numberLabels
	}
	if _, idx, conf := choiceMatcher.Match(tag); idx == 1 && conf != language.No {
		return circledLabels
	}
	return numberLabels
}
