package importer

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"sheetc/common"
	"sheetc/markup"
	"sheetc/sheet"
)

func concepts(content string) []*markup.ConceptBlank {
	var res []*markup.ConceptBlank
	markup.Walk(markup.Parse(content, markup.Options{}), func(n markup.Node) bool {
		if cb, ok := n.(*markup.ConceptBlank); ok {
			res = append(res, cb)
		}
		return true
	})
	return res
}

func TestImportText_TwoBlocks(t *testing.T) {
	text := "[[박스_라벨1]] : 본문1[[박스_개념_개념1]] : $x^2$[개념빈칸:_답]본문[/개념빈칸]"
	doc := ImportText(text, Options{Log: zaptest.NewLogger(t)})

	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}
	b1, b2 := doc.Blocks[0], doc.Blocks[1]
	if b1.Type != common.BlockTypeExample || !b1.Bordered || b1.Label != "라벨1" || b1.Content != "본문1" {
		t.Fatalf("unexpected first block: %+v", b1)
	}
	if b2.Type != common.BlockTypeConcept || !b2.Bordered || b2.Label != "개념1" {
		t.Fatalf("unexpected second block: %+v", b2)
	}
	cbs := concepts(b2.Content)
	if len(cbs) != 1 {
		t.Fatalf("expected one concept blank in %q", b2.Content)
	}
	if cbs[0].Index != 1 || cbs[0].Answer != "답본문" {
		t.Fatalf("unexpected concept blank: %+v", cbs[0])
	}
	if !strings.HasPrefix(b2.Content, "$x^2$") {
		t.Fatalf("math not preserved: %q", b2.Content)
	}
	if doc.TOC == nil || len(doc.TOC.Entries) != 2 || !doc.TOC.Entries[1].Concept {
		t.Fatalf("unexpected toc: %+v", doc.TOC)
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		in     string
		typ    common.BlockType
		label  string
		styles []string
	}{
		{"박스_라벨1", common.BlockTypeExample, "라벨1", []string{"박스"}},
		{"박스_개념_개념1", common.BlockTypeConcept, "개념1", []string{"박스", "개념"}},
		{"개념,음영_정의", common.BlockTypeConcept, "정의", []string{"개념", "음영"}},
		{"기본_개념 정리", common.BlockTypeConcept, "개념 정리", []string{"기본"}},
		{"기본_개념어", common.BlockTypeExample, "개념어", []string{"기본"}},
		{"정답", common.BlockTypeAnswer, "", []string{"정답"}},
		{"나누기", common.BlockTypeBreak, "", []string{"나누기"}},
		{"여백_40", common.BlockTypeSpacer, "40", []string{"여백"}},
		{"예제 1", common.BlockTypeExample, "예제 1", []string{"기본"}},
		{"기본_a_b", common.BlockTypeExample, "a_b", []string{"기본"}},
		{"_라벨", common.BlockTypeExample, "라벨", []string{"기본"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h := parseHeader(tt.in)
			if h.blockType() != tt.typ {
				t.Fatalf("type: expected %s, got %s", tt.typ, h.blockType())
			}
			if h.label != tt.label {
				t.Fatalf("label: expected %q, got %q", tt.label, h.label)
			}
			if strings.Join(h.styles, ",") != strings.Join(tt.styles, ",") {
				t.Fatalf("styles: expected %v, got %v", tt.styles, h.styles)
			}
		})
	}
}

func TestImportText_StylesAndSpecialBlocks(t *testing.T) {
	text := "[[개념,좌컨셉,가운데_정의]] : 내용\n[[나누기]] : 무시\n[[여백_40]]\n[[음영_참고]] : 회색"
	doc := ImportText(text, Options{})
	if len(doc.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(doc.Blocks))
	}
	c := doc.Blocks[0]
	if c.Variant != common.VariantLeftConcept || c.Align() != common.TextAlignCenter {
		t.Fatalf("unexpected concept block: %+v", c)
	}
	if doc.Blocks[1].Type != common.BlockTypeBreak || doc.Blocks[1].Content != "" {
		t.Fatalf("unexpected break block: %+v", doc.Blocks[1])
	}
	if doc.Blocks[2].Type != common.BlockTypeSpacer || doc.Blocks[2].Height != 40 {
		t.Fatalf("unexpected spacer block: %+v", doc.Blocks[2])
	}
	if !doc.Blocks[3].BgGray || doc.Blocks[3].Content != "회색" {
		t.Fatalf("unexpected gray block: %+v", doc.Blocks[3])
	}
}

func TestImportText_Literal(t *testing.T) {
	t.Run("lead text", func(t *testing.T) {
		doc := ImportText("머리 글\n[[기본_a]] : b", Options{})
		if len(doc.Blocks) != 2 || doc.Blocks[0].Content != "머리 글" || doc.Blocks[0].Label != "" {
			t.Fatalf("unexpected blocks: %+v", doc.Blocks)
		}
	})
	t.Run("unterminated header", func(t *testing.T) {
		doc := ImportText("[[기본_a]] : b [[oops", Options{})
		if len(doc.Blocks) != 1 || doc.Blocks[0].Content != "b [[oops" {
			t.Fatalf("unexpected blocks: %+v", doc.Blocks[0])
		}
	})
	t.Run("header inside math", func(t *testing.T) {
		doc := ImportText("[[기본_a]] : $[[x]]$ 끝", Options{})
		if len(doc.Blocks) != 1 || doc.Blocks[0].Content != "$[[x]]$ 끝" {
			t.Fatalf("unexpected blocks: %+v", doc.Blocks)
		}
	})
	t.Run("empty", func(t *testing.T) {
		doc := ImportText("  \n", Options{})
		if len(doc.Blocks) != 1 || doc.Blocks[0].Type != common.BlockTypeExample {
			t.Fatalf("unexpected blocks: %+v", doc.Blocks)
		}
	})
	t.Run("crlf", func(t *testing.T) {
		doc := ImportText("[[기본_a]] : x\r\ny", Options{})
		if doc.Blocks[0].Content != "x\ny" {
			t.Fatalf("unexpected content: %q", doc.Blocks[0].Content)
		}
	})
}

func TestExtractMeta(t *testing.T) {
	tests := []struct {
		name string
		in   string
		meta sheet.Meta
		rest string
	}{
		{
			name: "inline values",
			in:   "[[머릿말_과정]] : 수학 I\n[[머릿말_단원]] : 함수\n[[꼬릿말:쪽지 시험]]\n[[기본_a]] : b",
			meta: sheet.Meta{Title: "수학 I", Subtitle: "함수", FooterText: "쪽지 시험"},
			rest: "\n[[기본_a]] : b",
		},
		{
			name: "value on next line",
			in:   "[[머릿말_과정]]\n수학 II\n[[기본_a]] : b",
			meta: sheet.Meta{Title: "수학 II"},
			rest: "[[기본_a]] : b",
		},
		{
			name: "value runs to next header",
			in:   "[[머릿말_과정]] : 제목[[기본_a]] : b",
			meta: sheet.Meta{Title: "제목"},
			rest: "[[기본_a]] : b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, meta := extractMeta(tt.in)
			if meta != tt.meta {
				t.Fatalf("expected %+v, got %+v", tt.meta, meta)
			}
			if rest != tt.rest {
				t.Fatalf("expected rest %q, got %q", tt.rest, rest)
			}
		})
	}
}

func TestChunk(t *testing.T) {
	mk := func(types ...common.BlockType) []*sheet.Block {
		var res []*sheet.Block
		for _, typ := range types {
			res = append(res, sheet.NewBlock(typ, "x"))
		}
		return res
	}
	kinds := func(blocks []*sheet.Block) string {
		var b strings.Builder
		for _, blk := range blocks {
			switch blk.Type {
			case common.BlockTypeBreak:
				b.WriteByte('|')
			case common.BlockTypeSpacer:
				b.WriteByte('_')
			case common.BlockTypeAnswer:
				b.WriteByte('a')
			default:
				b.WriteByte('e')
			}
		}
		return b.String()
	}
	e, a, br := common.BlockTypeExample, common.BlockTypeAnswer, common.BlockTypeBreak

	tests := []struct {
		name   string
		blocks []*sheet.Block
		limit  int
		mode   common.ChunkMode
		expect string
	}{
		{"disabled", mk(e, e, e), 0, common.ChunkModeBreak, "eee"},
		{"every two", mk(e, e, e, e, e), 2, "", "ee|ee|e"},
		{"nothing after last", mk(e, e, e, e), 2, common.ChunkModeBreak, "ee|ee"},
		{"answers do not count", mk(e, a, e, e), 2, common.ChunkModeBreak, "eae|e"},
		{"explicit break resets", mk(e, br, e, e, e), 2, common.ChunkModeBreak, "e|ee|e"},
		{"no double separator", mk(e, e, br, e), 2, common.ChunkModeBreak, "ee|e"},
		{"spacer mode", mk(e, e, e), 2, common.ChunkModeSpacer, "ee_e"},
		{"none mode", mk(e, e, e), 1, common.ChunkModeNone, "eee"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Chunk(tt.blocks, tt.limit, tt.mode, 0)
			if got := kinds(res); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
			for _, b := range res {
				if b.Type == common.BlockTypeSpacer && b.Height != DefaultSpacerHeight {
					t.Fatalf("unexpected spacer height %v", b.Height)
				}
			}
		})
	}
}

func TestExport_RoundTrip(t *testing.T) {
	text := strings.Join([]string{
		"[[머릿말_과정]] : 수학",
		"[[꼬릿말:1학기]]",
		"[[개념,박스,2단컨셉,오른쪽_개념 A]] : $a+b$ [개념빈칸:답] 그리고 [블록박스_참고]\n안쪽\n[/블록박스]",
		"[[나누기]]",
		"[[여백_12.5]]",
		"[[정답]] : 정답은 [빈칸:x]",
		"[[기본,음영_예제]] : [표_1x2] : (1x1_\"a\"), (1x2_\"b\")",
	}, "\n")
	first := ImportText(text, Options{})
	exported := Export(first)
	second := ImportText(exported, Options{})

	if first.Meta != second.Meta {
		t.Fatalf("meta changed: %+v vs %+v", first.Meta, second.Meta)
	}
	if len(first.Blocks) != len(second.Blocks) {
		t.Fatalf("block count changed: %d vs %d\n%s", len(first.Blocks), len(second.Blocks), exported)
	}
	for i := range first.Blocks {
		a, b := first.Blocks[i].Clone(), second.Blocks[i].Clone()
		a.ID, b.ID = "", ""
		if a.Type != b.Type || a.Label != b.Label || a.Content != b.Content || a.Bordered != b.Bordered ||
			a.BgGray != b.BgGray || a.Variant != b.Variant || a.Align() != b.Align() || a.Height != b.Height {
			t.Fatalf("block %d changed:\n%+v\n%+v\nexported:\n%s", i, a, b, exported)
		}
	}
	if !strings.Contains(first.Blocks[0].Content, "[블록사각형]") {
		t.Fatalf("concept box not rewritten: %q", first.Blocks[0].Content)
	}
}

func TestExport_SkipsDerived(t *testing.T) {
	doc := &sheet.Document{Blocks: []*sheet.Block{
		{ID: "a", Type: common.BlockTypeExample, Content: "x"},
		{ID: "b", Type: common.BlockTypeAnswer, Content: "1. y", Derived: sheet.DerivedConceptAnswers},
	}}
	if got := Export(doc); got != "[[기본_]] : x\n" {
		t.Fatalf("unexpected export %q", got)
	}
}

func TestImportJSON(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		data := `[
			{"type": "concept", "content": "정의 [블록박스_a]\nb\n[/블록박스]", "label": "개념1", "variant": "top-concept"},
			{"type": "bogus", "content": "$x$", "style": {"textAlign": "center"}},
			{"type": "spacer"},
			{"type": "example", "variant": "nope"}
		]`
		doc, settings, err := ImportJSON([]byte(data), Options{Log: zaptest.NewLogger(t)})
		if err != nil {
			t.Fatalf("ImportJSON: %v", err)
		}
		if settings != nil {
			t.Fatalf("unexpected settings %+v", settings)
		}
		if len(doc.Blocks) != 4 {
			t.Fatalf("expected 4 blocks, got %d", len(doc.Blocks))
		}
		if c := doc.Blocks[0]; c.Variant != common.VariantTopConcept || !strings.Contains(c.Content, "[블록사각형]") {
			t.Fatalf("unexpected concept block %+v", c)
		}
		if b := doc.Blocks[1]; b.Type != common.BlockTypeExample || b.Align() != common.TextAlignCenter {
			t.Fatalf("unexpected fallback block %+v", b)
		}
		if s := doc.Blocks[2]; s.Height != DefaultSpacerHeight {
			t.Fatalf("unexpected spacer %+v", s)
		}
		if b := doc.Blocks[3]; b.Variant != "" {
			t.Fatalf("invalid variant kept: %+v", b)
		}
	})

	t.Run("document", func(t *testing.T) {
		data := `{"meta": {"title": "T"}, "blocks": [{"id": "x", "type": "answer", "content": "a"}],
			"settings": {"columnBlockLimit": 3}}`
		doc, settings, err := ImportJSON([]byte(data), Options{})
		if err != nil {
			t.Fatalf("ImportJSON: %v", err)
		}
		if doc.Meta.Title != "T" || doc.Blocks[0].ID != "x" {
			t.Fatalf("unexpected document %+v", doc)
		}
		if settings == nil || settings.ColumnBlockLimit != 3 {
			t.Fatalf("unexpected settings %+v", settings)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, in := range []string{"", "nope", "[{]", `{"meta": {}}`} {
			_, _, err := ImportJSON([]byte(in), Options{})
			if !errors.Is(err, ErrMalformedJSON) {
				t.Fatalf("input %q: expected ErrMalformedJSON, got %v", in, err)
			}
			if !strings.HasPrefix(err.Error(), "unable to import document: malformed JSON") {
				t.Fatalf("unexpected message %q", err.Error())
			}
		}
	})

	t.Run("chunked", func(t *testing.T) {
		data := `[{"content": "1"}, {"content": "2"}, {"content": "3"}]`
		doc, _, err := ImportJSON([]byte(data), Options{ColumnBlockLimit: 2})
		if err != nil {
			t.Fatalf("ImportJSON: %v", err)
		}
		if len(doc.Blocks) != 4 || doc.Blocks[2].Type != common.BlockTypeBreak {
			t.Fatalf("unexpected blocks %+v", doc.Blocks)
		}
	})
}

func TestImportHTML(t *testing.T) {
	page := `<html><body><div class="page">
<div class="page-header"><div class="title">수학</div><div class="subtitle">함수</div></div>
<div class="columns"><div class="column">
<div class="data-item bordered" data-id="b-1" data-type="concept" data-label="개념1" data-variant="left-concept" style="text-align: center; font-size: 14pt; font-family: 'Noto Sans', serif">식 <span class="math" data-tex="x^2" data-display="false">x</span> 와 <span class="concept-blank" data-index="1" data-raw="_답" data-delim=":">1</span><br/>다음 <b data-keyword="굵게">강조</b></div>
<div class="data-item" data-type="break"></div>
<div class="data-item" data-type="spacer" style="height: 30px"></div>
<div class="data-item bg-gray" data-type="example"><table class="data-table" data-rows="1" data-cols="2"><tr><td data-cell="1x1">a</td><td data-cell="1x2"><span class="blank-box" data-label="빈" data-delim="_">빈</span></td></tr></table><span class="image-placeholder" data-label="그림1">그림1</span></div>
<div class="data-item" data-type="example"><table class="choice-grid" data-layout="2"><tr><td class="choice" data-choice="1"><span class="choice-label">①</span><span class="choice-text">가</span></td><td class="choice" data-choice="4"><span class="choice-label">④</span><span class="choice-text">라</span></td></tr></table><div class="rect-box">사각</div></div>
</div></div>
<div class="page-footer"><span class="footer-text">기말</span><span class="page-number">1</span></div>
</div></body></html>`

	doc, err := ImportHTML([]byte(page), Options{Log: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("ImportHTML: %v", err)
	}
	if doc.Meta.Title != "수학" || doc.Meta.Subtitle != "함수" || doc.Meta.FooterText != "기말" {
		t.Fatalf("unexpected meta %+v", doc.Meta)
	}
	if len(doc.Blocks) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(doc.Blocks))
	}

	c := doc.Blocks[0]
	if c.ID != "b-1" || c.Type != common.BlockTypeConcept || c.Label != "개념1" || !c.Bordered {
		t.Fatalf("unexpected concept block %+v", c)
	}
	if c.Variant != common.VariantLeftConcept || c.Align() != common.TextAlignCenter || c.FontSizePt != 14 || c.FontFamily != "Noto Sans" {
		t.Fatalf("unexpected concept style %+v", c)
	}
	if expected := "식 $x^2$ 와 [개념빈칸:_답]\n다음 [굵게:강조]"; c.Content != expected {
		t.Fatalf("expected content %q, got %q", expected, c.Content)
	}

	if doc.Blocks[1].Type != common.BlockTypeBreak {
		t.Fatalf("expected break, got %+v", doc.Blocks[1])
	}
	if s := doc.Blocks[2]; s.Type != common.BlockTypeSpacer || s.Height != 30 {
		t.Fatalf("unexpected spacer %+v", s)
	}
	g := doc.Blocks[3]
	if !g.BgGray || !strings.HasPrefix(g.Content, "[표_1x2]") || !strings.Contains(g.Content, "[이미지:그림1]") {
		t.Fatalf("unexpected table block %q", g.Content)
	}
	var table *markup.Table
	markup.Walk(markup.Parse(g.Content, markup.Options{}), func(n markup.Node) bool {
		if tbl, ok := n.(*markup.Table); ok {
			table = tbl
		}
		return true
	})
	if table == nil || table.Cell(1, 1).Source != "a" || table.Cell(1, 2).Source != "[빈칸_빈]" {
		t.Fatalf("unexpected table %+v", table)
	}
	ch := doc.Blocks[4]
	if !strings.HasPrefix(ch.Content, `[선지_2행] : (1_"가"), (4_"라")`) || !strings.Contains(ch.Content, "[블록사각형]") {
		t.Fatalf("unexpected choice block %q", ch.Content)
	}
}

func TestImportHTML_PlainFallback(t *testing.T) {
	doc, err := ImportHTML([]byte(`<html><head><title>x</title><style>p{}</style></head><body><p>[[기본_a]] : 첫째</p><p>[[정답]] : 둘째</p></body></html>`), Options{})
	if err != nil {
		t.Fatalf("ImportHTML: %v", err)
	}
	if len(doc.Blocks) != 2 || doc.Blocks[0].Content != "첫째" || doc.Blocks[1].Type != common.BlockTypeAnswer {
		t.Fatalf("unexpected blocks %+v", doc.Blocks)
	}
}
