package sheet

import (
	"bytes"
	"strings"
	"testing"

	"sheetc/common"
)

func sampleDocument() *Document {
	return &Document{
		Meta: Meta{Title: "수학", Subtitle: "1단원", FooterText: "footer", Zoom: 1},
		Blocks: []*Block{
			{ID: "a", Type: common.BlockTypeConcept, Content: "개념 $x^2$", Label: "개념1", Bordered: true},
			{ID: "b", Type: common.BlockTypeExample, Content: "예제", Style: &Style{TextAlign: common.TextAlignCenter}},
			{ID: "c", Type: common.BlockTypeBreak},
		},
	}
}

func TestClone(t *testing.T) {
	doc := sampleDocument()
	cp := doc.Clone()

	cp.Blocks[0].Content = "changed"
	cp.Blocks[1].Style.TextAlign = common.TextAlignRight
	cp.Meta.Title = "other"

	if doc.Blocks[0].Content != "개념 $x^2$" {
		t.Fatalf("clone aliases block content")
	}
	if doc.Blocks[1].Style.TextAlign != common.TextAlignCenter {
		t.Fatalf("clone aliases block style")
	}
	if doc.Meta.Title != "수학" {
		t.Fatalf("clone aliases meta")
	}

	var nilDoc *Document
	if nilDoc.Clone() != nil {
		t.Fatalf("clone of nil document must be nil")
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		if err := sampleDocument().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	t.Run("duplicate id", func(t *testing.T) {
		doc := sampleDocument()
		doc.Blocks[1].ID = "a"
		if err := doc.Validate(); err == nil || !strings.Contains(err.Error(), "duplicate") {
			t.Fatalf("expected duplicate id error, got %v", err)
		}
	})
	t.Run("break with content", func(t *testing.T) {
		doc := sampleDocument()
		doc.Blocks[2].Content = "x"
		if err := doc.Validate(); err == nil {
			t.Fatalf("expected error for break with content")
		}
	})
	t.Run("unknown type", func(t *testing.T) {
		doc := sampleDocument()
		doc.Blocks[0].Type = "poem"
		if err := doc.Validate(); err == nil {
			t.Fatalf("expected error for unknown type")
		}
	})
}

func TestEnsureIDs(t *testing.T) {
	doc := &Document{Blocks: []*Block{
		{ID: "x", Type: common.BlockTypeExample},
		{ID: "x", Type: common.BlockTypeExample},
		{Type: common.BlockTypeExample},
	}}
	doc.EnsureIDs()
	if doc.Blocks[0].ID != "x" {
		t.Fatalf("first id must be kept, got %q", doc.Blocks[0].ID)
	}
	if doc.Blocks[1].ID == "x" || doc.Blocks[2].ID == "" {
		t.Fatalf("ids not regenerated: %q %q", doc.Blocks[1].ID, doc.Blocks[2].ID)
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestNewBlock(t *testing.T) {
	b := NewBlock(common.BlockTypeSpacer, "ignored")
	if b.Content != "" {
		t.Fatalf("spacer must have no content")
	}
	if !strings.HasPrefix(b.ID, "b-") {
		t.Fatalf("unexpected id %q", b.ID)
	}
	if NewBlock(common.BlockTypeExample, "").ID == b.ID {
		t.Fatalf("ids must be unique")
	}
}

func TestEncodeDecode(t *testing.T) {
	doc := sampleDocument()
	settings := &Settings{FontFamily: "Noto", FontSizePt: 11, ColumnBlockLimit: 3, ChunkMode: common.ChunkModeSpacer}

	var buf bytes.Buffer
	if err := Encode(&buf, doc, settings); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(buf.String(), `"textAlign": "center"`) {
		t.Fatalf("style not encoded:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), `"variant"`) {
		t.Fatalf("empty variant must be omitted:\n%s", buf.String())
	}

	got, gotSettings, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Blocks) != 3 || got.Blocks[0].Label != "개념1" || !got.Blocks[0].Bordered {
		t.Fatalf("unexpected blocks: %+v", got.Blocks)
	}
	if got.Blocks[1].Align() != common.TextAlignCenter {
		t.Fatalf("alignment lost")
	}
	if gotSettings == nil || gotSettings.ChunkMode != common.ChunkModeSpacer || gotSettings.ColumnBlockLimit != 3 {
		t.Fatalf("settings lost: %+v", gotSettings)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{meta:`},
		{"no blocks", `{"meta":{}}`},
		{"null block", `{"blocks":[null]}`},
		{"bad type", `{"blocks":[{"id":"a","type":"poem"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode(strings.NewReader(tt.input)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDecodeDefaults(t *testing.T) {
	doc, settings, err := Decode(strings.NewReader(`{"blocks":[{"type":"example","content":"x"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Meta.Zoom != 1 {
		t.Fatalf("zoom default not applied: %v", doc.Meta.Zoom)
	}
	if doc.Blocks[0].ID == "" {
		t.Fatalf("missing id not generated")
	}
	if settings != nil {
		t.Fatalf("settings must be nil when absent")
	}
}

func TestBuildTOC(t *testing.T) {
	doc := sampleDocument()
	doc.Blocks = append(doc.Blocks, &Block{ID: "d", Type: common.BlockTypeAnswer, Label: "정답", Derived: DerivedConceptAnswers})
	toc := doc.BuildTOC()
	if toc == nil || len(toc.Entries) != 1 {
		t.Fatalf("unexpected toc: %+v", toc)
	}
	if toc.Entries[0].BlockID != "a" || !toc.Entries[0].Concept {
		t.Fatalf("unexpected entry: %+v", toc.Entries[0])
	}
}
