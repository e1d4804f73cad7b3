package markup

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"sheetc/common"
)

func parseTest(t *testing.T, content string, opts Options) Nodes {
	t.Helper()
	opts.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller()))
	return Parse(content, opts)
}

func TestParseMathSafety(t *testing.T) {
	t.Run("blank inside math is boxed text", func(t *testing.T) {
		nodes := parseTest(t, "$[빈칸:x]$", Options{})
		if len(nodes) != 1 {
			t.Fatalf("expected single node, got:\n%s", Dump(nodes))
		}
		m, ok := nodes[0].(*Math)
		if !ok {
			t.Fatalf("expected math node, got %T", nodes[0])
		}
		if m.TeX != `\boxed{\text{x}}` {
			t.Fatalf("unexpected TeX %q", m.TeX)
		}
		if len(m.Blanks) != 1 || !m.Blanks[0].InMath {
			t.Fatalf("blank not recorded in math: %+v", m.Blanks)
		}
		if Serialize(nodes) != "$[빈칸:x]$" {
			t.Fatalf("math source not preserved: %q", Serialize(nodes))
		}
	})

	t.Run("no blank node produced from math", func(t *testing.T) {
		nodes := parseTest(t, "a $[빈칸:x] + [빈칸_y]$ [빈칸:z]", Options{})
		var blanks []string
		Walk(nodes, func(n Node) bool {
			if b, ok := n.(*Blank); ok {
				blanks = append(blanks, b.Label)
			}
			return true
		})
		if len(blanks) != 1 || blanks[0] != "z" {
			t.Fatalf("unexpected blank nodes %q", blanks)
		}
	})

	t.Run("concept blank inside math is indexed", func(t *testing.T) {
		tr := NewTracker()
		nodes := parseTest(t, "[개념빈칸:a] $y=[개념빈칸:b_1]$", Options{Tracker: tr})
		if tr.Count() != 2 {
			t.Fatalf("expected 2 concept blanks, got %d", tr.Count())
		}
		m := nodes[len(nodes)-1].(*Math)
		if m.TeX != `y=\boxed{\text{(2)}}` {
			t.Fatalf("unexpected TeX %q", m.TeX)
		}
		answers := tr.Answers()
		if answers[1].Text != "b_1" || !answers[1].IsMath {
			t.Fatalf("unexpected answer %+v", answers[1])
		}
	})

	t.Run("token label may not cross math boundary", func(t *testing.T) {
		nodes := parseTest(t, "[빈칸:a$b]$", Options{})
		Walk(nodes, func(n Node) bool {
			if _, ok := n.(*Blank); ok {
				t.Fatalf("blank must not be produced:\n%s", Dump(nodes))
			}
			return true
		})
	})
}

func TestParseConceptBlank(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		answer     string
		isMath     bool
		underlined bool
		hasBody    bool
	}{
		{"self contained", "[개념빈칸:정의역]", "정의역", false, false, false},
		{"with body", "[개념빈칸:_답]본문[/개념빈칸]", "답본문", false, true, true},
		{"math answer", "[개념빈칸:]$x^2$[/개념빈칸]", "$x^2$", true, false, true},
		{"whitespace collapsed", "[개념빈칸: a ]  b\n c[/개념빈칸]", "a b c", false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker()
			nodes := parseTest(t, tt.input, Options{Tracker: tr})
			cb, ok := nodes[0].(*ConceptBlank)
			if !ok {
				t.Fatalf("expected concept blank, got:\n%s", Dump(nodes))
			}
			if cb.Answer != tt.answer || cb.IsMath != tt.isMath || cb.Underlined() != tt.underlined || cb.HasBody != tt.hasBody {
				t.Fatalf("unexpected concept blank %+v", cb)
			}
			if cb.Index != 1 {
				t.Fatalf("index = %d, want 1", cb.Index)
			}
		})
	}

	t.Run("closer after another opener belongs to second", func(t *testing.T) {
		nodes := parseTest(t, "[개념빈칸:a][개념빈칸:b]c[/개념빈칸]", Options{})
		first := nodes[0].(*ConceptBlank)
		second := nodes[1].(*ConceptBlank)
		if first.HasBody || second.Answer != "bc" || second.Index != 2 {
			t.Fatalf("unexpected blanks %+v %+v", first, second)
		}
	})
}

func TestParseTableScenario(t *testing.T) {
	input := `[표_2x2](1x1_"A"),(2x2_"B")`
	nodes := parseTest(t, input, Options{})
	if len(nodes) != 1 {
		t.Fatalf("expected single node, got:\n%s", Dump(nodes))
	}
	table, ok := nodes[0].(*Table)
	if !ok {
		t.Fatalf("expected table, got %T", nodes[0])
	}
	if table.Rows != 2 || table.Cols != 2 {
		t.Fatalf("unexpected dims %dx%d", table.Rows, table.Cols)
	}
	if PlainText(table.Cell(1, 1).Nodes) != "A" || PlainText(table.Cell(2, 2).Nodes) != "B" {
		t.Fatalf("unexpected cells:\n%s", Dump(nodes))
	}
	if !table.Cell(1, 2).Empty() || !table.Cell(2, 1).Empty() {
		t.Fatalf("other cells must be empty")
	}
	strip := func(s string) string {
		return strings.Replace(strings.Join(strings.Fields(s), ""), "]:(", "](", 1)
	}
	if got := SerializeTable(table); strip(got) != strip(input) {
		t.Fatalf("SerializeTable() = %q, want %q", got, input)
	}
}

func TestParseTable(t *testing.T) {
	t.Run("colon and escapes", func(t *testing.T) {
		nodes := parseTest(t, `[표_1x2] : (1x1_"say \"hi\""), (1x2_"$\\frac12$ \x")`, Options{})
		table := nodes[0].(*Table)
		if table.Cell(1, 1).Source != `say "hi"` {
			t.Fatalf("unexpected cell %q", table.Cell(1, 1).Source)
		}
		if table.Cell(1, 2).Source != `$\frac12$ \x` {
			t.Fatalf("unexpected cell %q", table.Cell(1, 2).Source)
		}
		if _, ok := table.Cell(1, 2).Nodes[0].(*Math); !ok {
			t.Fatalf("cell math not parsed")
		}
	})

	t.Run("keys outside of table dropped", func(t *testing.T) {
		nodes := parseTest(t, `[표_1x1](1x1_"a"),(3x3_"b")`, Options{})
		if len(nodes) != 1 {
			t.Fatalf("suffix not consumed:\n%s", Dump(nodes))
		}
		if data := nodes[0].(*Table).Data(); len(data) != 1 || data["1x1"] != "a" {
			t.Fatalf("unexpected data %v", data)
		}
	})

	t.Run("dollar in value does not open math", func(t *testing.T) {
		nodes := parseTest(t, `a [표_1x1] (1x1_"$") then $q$ [빈칸:z]`, Options{})
		if table := nodes[1].(*Table); table.Cell(1, 1).Source != "$" {
			t.Fatalf("unexpected cell %q", table.Cell(1, 1).Source)
		}
		var math *Math
		var blank *Blank
		for _, n := range nodes {
			switch n := n.(type) {
			case *Math:
				math = n
			case *Blank:
				blank = n
			}
		}
		if math == nil || math.Source != "q" || blank == nil || blank.Label != "z" {
			t.Fatalf("unexpected nodes:\n%s", Dump(nodes))
		}
	})

	t.Run("no suffix", func(t *testing.T) {
		nodes := parseTest(t, "[표_3x4]: 설명", Options{})
		if len(nodes) != 2 {
			t.Fatalf("unexpected nodes:\n%s", Dump(nodes))
		}
		if txt := nodes[1].(*Text).Value; txt != ": 설명" {
			t.Fatalf("unexpected text %q", txt)
		}
	})

	t.Run("dimension limits", func(t *testing.T) {
		for _, in := range []string{"[표_0x2]", "[표_21x1]", "[표_2]", "[표_axb]"} {
			nodes := parseTest(t, in, Options{})
			if _, ok := nodes[0].(*Text); !ok {
				t.Fatalf("%s must stay literal", in)
			}
		}
	})

	t.Run("cells indexed in row-major order", func(t *testing.T) {
		tr := NewTracker()
		parseTest(t, `[표_2x2](2x1_"[개념빈칸:c]"),(1x2_"[개념빈칸:b]"),(1x1_"[개념빈칸:a]")`, Options{Tracker: tr})
		answers := tr.Answers()
		if len(answers) != 3 || answers[0].Text != "a" || answers[1].Text != "b" || answers[2].Text != "c" {
			t.Fatalf("unexpected answers %+v", answers)
		}
	})
}

func TestParseChoiceGrid(t *testing.T) {
	input := `[선지_2행] : (1_"하나"), (3_"$x$"), (5_"다섯")`
	nodes := parseTest(t, input, Options{})
	g, ok := nodes[0].(*ChoiceGrid)
	if !ok {
		t.Fatalf("expected choice grid, got:\n%s", Dump(nodes))
	}
	if g.Layout != common.ChoiceLayout2 {
		t.Fatalf("unexpected layout %s", g.Layout)
	}
	if !g.Choices[1].Empty() || g.Choices[2].Source != "$x$" {
		t.Fatalf("unexpected choices:\n%s", Dump(nodes))
	}
	if got := SerializeChoiceGrid(g); got != input {
		t.Fatalf("SerializeChoiceGrid() = %q, want %q", got, input)
	}
	rows := g.Rows()
	if len(rows) != 2 || len(rows[0]) != 3 || rows[1][2] != 0 {
		t.Fatalf("unexpected rows %v", rows)
	}

	for _, in := range []string{"[선지_3행]", "[선지_행]", "[선지_1]"} {
		nodes := parseTest(t, in, Options{})
		if _, ok := nodes[0].(*Text); !ok {
			t.Fatalf("%s must stay literal", in)
		}
	}
}

func TestGridRoundTrip(t *testing.T) {
	inputs := []string{
		`[표_3x2] : (1x1_"a"), (2x2_"\\ and \""), (3x1_"$x^2$")`,
		`[선지_5행] : (1_"a"), (2_"[굵게:b]"), (4_"[빈칸:c]")`,
		`[선지_1행] : (5_"끝")`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first := Serialize(parseTest(t, in, Options{}))
			second := Serialize(parseTest(t, first, Options{}))
			if first != second {
				t.Fatalf("round trip mismatch:\n%q\n%q", first, second)
			}
			if first != in {
				t.Fatalf("canonical form changed:\n%q\n%q", in, first)
			}
		})
	}
}

func TestParseBoxes(t *testing.T) {
	t.Run("multi-line labelled", func(t *testing.T) {
		nodes := parseTest(t, "[블록박스_제목]\n본문\n[/블록박스]", Options{})
		box, ok := nodes[0].(*Box)
		if !ok || box.Label != "제목" || PlainText(box.Children) != "본문" || len(nodes) != 1 {
			t.Fatalf("unexpected nodes:\n%s", Dump(nodes))
		}
	})

	t.Run("single line", func(t *testing.T) {
		nodes := parseTest(t, "[블록박스_제목] 한줄 \n다음", Options{})
		if len(nodes) != 3 {
			t.Fatalf("unexpected nodes:\n%s", Dump(nodes))
		}
		if box := nodes[0].(*Box); PlainText(box.Children) != "한줄" {
			t.Fatalf("unexpected box body %q", PlainText(box.Children))
		}
		if _, ok := nodes[1].(*LineBreak); !ok {
			t.Fatalf("expected line break, got %T", nodes[1])
		}
	})

	t.Run("single line before another box", func(t *testing.T) {
		nodes := parseTest(t, "[블록박스] a\n[블록박스]\nb\n[/블록박스]", Options{})
		if len(nodes) != 3 {
			t.Fatalf("unexpected nodes:\n%s", Dump(nodes))
		}
		if PlainText(nodes[0].(*Box).Children) != "a" || PlainText(nodes[2].(*Box).Children) != "b" {
			t.Fatalf("unexpected nodes:\n%s", Dump(nodes))
		}
	})

	t.Run("inner opener is text", func(t *testing.T) {
		for _, in := range []string{
			"[블록박스]\nx [블록박스] y\n[/블록박스]",
			"[블록사각형]\nx [블록사각형] y\n[/블록사각형]",
		} {
			nodes := parseTest(t, in, Options{})
			if len(nodes) != 1 {
				t.Fatalf("unexpected nodes for %q:\n%s", in, Dump(nodes))
			}
			var children Nodes
			switch n := nodes[0].(type) {
			case *Box:
				children = n.Children
			case *RectBox:
				children = n.Children
			}
			if len(children) != 1 || !strings.HasPrefix(PlainText(children), "x [블록") {
				t.Fatalf("unexpected nodes for %q:\n%s", in, Dump(nodes))
			}
		}
	})

	t.Run("unterminated stays literal", func(t *testing.T) {
		nodes := parseTest(t, "[블록사각형]\n다음", Options{})
		if txt, ok := nodes[0].(*Text); !ok || txt.Value != "[블록사각형]" {
			t.Fatalf("unexpected nodes:\n%s", Dump(nodes))
		}
	})

	t.Run("rect boxes in concept blocks", func(t *testing.T) {
		nodes := parseTest(t, "[블록박스_라벨]\nA $[블록박스]$\n[/블록박스]", Options{RectBoxes: true})
		rb, ok := nodes[0].(*RectBox)
		if !ok {
			t.Fatalf("expected rect box:\n%s", Dump(nodes))
		}
		m := rb.Children[1].(*Math)
		if m.Source != "[블록박스]" {
			t.Fatalf("math must not be rewritten: %q", m.Source)
		}
	})

	t.Run("box body with math containing closer", func(t *testing.T) {
		nodes := parseTest(t, "[블록사각형]\n$[/블록사각형]$\n[/블록사각형]", Options{})
		rb, ok := nodes[0].(*RectBox)
		if !ok || len(rb.Children) != 1 {
			t.Fatalf("unexpected nodes:\n%s", Dump(nodes))
		}
	})
}

func TestParseStyledAndImages(t *testing.T) {
	nodes := parseTest(t, "[볼드:a $x]$ [밑줄:b]][이미지:그래프][그림:images/a.png]", Options{})
	if len(nodes) != 3 {
		t.Fatalf("unexpected nodes:\n%s", Dump(nodes))
	}
	span := nodes[0].(*StyledSpan)
	if span.Style != common.StyledKindBold || span.Keyword != "볼드" || len(span.Children) != 4 {
		t.Fatalf("unexpected span:\n%s", Dump(nodes))
	}
	inner := span.Children[3].(*StyledSpan)
	if inner.Style != common.StyledKindUnderline {
		t.Fatalf("nested span not parsed")
	}
	if ph := nodes[1].(*ImagePlaceholder); ph.Label != "그래프" {
		t.Fatalf("unexpected placeholder %+v", ph)
	}
	if img := nodes[2].(*Image); img.Src != "images/a.png" {
		t.Fatalf("unexpected image %+v", img)
	}
}

func TestParseEscapes(t *testing.T) {
	nodes := parseTest(t, `price \$5 and \\ back`, Options{})
	if len(nodes) != 1 || nodes[0].(*Text).Value != `price $5 and \\ back` {
		t.Fatalf("unexpected nodes:\n%s", Dump(nodes))
	}
	if got := Serialize(nodes); got != `price \$5 and \\ back` {
		t.Fatalf("Serialize() = %q", got)
	}
}

func TestTrackerDeterminism(t *testing.T) {
	blocks := []string{
		"[개념빈칸:하나] 그리고 $[개념빈칸:둘]$",
		"[표_1x2](1x1_\"[개념빈칸:셋]\")",
		"[블록사각형]\n[개념빈칸:넷]\n[/블록사각형]",
	}
	pass := func(blocks []string) []Answer {
		tr := NewTracker()
		for _, b := range blocks {
			Parse(b, Options{Tracker: tr})
		}
		return tr.Answers()
	}
	first := pass(blocks)
	edited := append([]string{}, blocks...)
	edited[1] = "설명 추가 " + edited[1]
	edited = append(edited, "관련 없는 블록")
	second := pass(edited)

	if len(first) != 4 || len(second) != 4 {
		t.Fatalf("unexpected answer count %d %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("answer %d differs: %+v vs %+v", i, first[i], second[i])
		}
		if first[i].Index != i+1 {
			t.Fatalf("answer %d has index %d", i, first[i].Index)
		}
	}

	tr := NewTracker()
	tr.Next("x", false)
	tr.Reset()
	if tr.Count() != 0 || len(tr.Answers()) != 0 {
		t.Fatalf("reset did not clear tracker")
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"본문 $x^2$ 그리고 $$\\int f$$",
		"[빈칸:라벨] [빈칸_x] [이미지:그림1]",
		"[개념빈칸:_답]본문[/개념빈칸] 뒤",
		"[블록박스_제목] 한줄\n다음 줄",
		"[블록사각형]\n\n[/블록사각형]",
		"[굵게:a [밑줄:b]] [BOLD:c]",
		`[표_2x2](1x1_"A"),(2x2_"B") 끝`,
		"[선지_5행] : (1_\"$a$\")\n문제",
		"\\begin{cases} a & $b$ \\end{cases}",
		"남은 [빈칸:미완성 그리고 $[빈칸:x]$",
		"달러 \\$ 기호",
		"[블록박스]\nx [블록박스] y\n[/블록박스]",
		"[블록사각형] x [블록사각형] y",
		`[표_1x1] (1x1_"$") then $q$`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first := Parse(in, Options{})
			serialized := Serialize(first)
			second := Parse(serialized, Options{})
			if Dump(first) != Dump(second) {
				t.Fatalf("round trip mismatch for %q\nserialized: %q\nfirst:\n%s\nsecond:\n%s", in, serialized, Dump(first), Dump(second))
			}
			if Canonical(serialized, false) != serialized {
				t.Fatalf("canonical form is not stable: %q", serialized)
			}
		})
	}
}

func TestChoiceLabels(t *testing.T) {
	if got := ChoiceLabels("ko-KR"); got[0] != "①" {
		t.Fatalf("unexpected korean labels %v", got)
	}
	if got := ChoiceLabels("en"); got[4] != "5." {
		t.Fatalf("unexpected english labels %v", got)
	}
	if got := ChoiceLabels("not a tag!"); got[0] != "1." {
		t.Fatalf("unexpected fallback labels %v", got)
	}
}

func TestPlainText(t *testing.T) {
	nodes := Parse("a [굵게:b] $c$\n[개념빈칸:d]", Options{})
	if got := PlainText(nodes); got != "a b c\nd" {
		t.Fatalf("PlainText() = %q", got)
	}
}
