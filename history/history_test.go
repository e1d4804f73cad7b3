package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"sheetc/common"
	"sheetc/sheet"
)

type memStore struct {
	saved []*Entry
	err   error
}

func (m *memStore) Save(_ context.Context, e *Entry) error {
	m.saved = append(m.saved, e)
	return m.err
}

func doc(content string) *sheet.Document {
	return &sheet.Document{
		Meta:   sheet.Meta{Zoom: 1},
		Blocks: []*sheet.Block{{ID: "b1", Type: common.BlockTypeExample, Content: content}},
	}
}

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestRecord_Coalescing(t *testing.T) {
	ctx := context.Background()
	h := New(Options{Log: zaptest.NewLogger(t)})

	if _, err := h.Record(ctx, doc(""), nil, common.HistoryReasonManual, "", t0); err != nil {
		t.Fatalf("Record: %v", err)
	}
	for i, text := range []string{"a", "ab", "abc"} {
		changed, err := h.Record(ctx, doc(text), nil, common.HistoryReasonTyping, "b1", t0.Add(time.Duration(i+1)*500*time.Millisecond))
		if err != nil || !changed {
			t.Fatalf("Record %q: %v %v", text, changed, err)
		}
	}
	if h.Len() != 2 {
		t.Fatalf("expected depth 2 after coalesced typing, got %d", h.Len())
	}

	// pause longer than coalesce interval
	h.Record(ctx, doc("abcd"), nil, common.HistoryReasonTyping, "b1", t0.Add(10*time.Second))
	if h.Len() != 3 {
		t.Fatalf("expected new entry after pause, got %d", h.Len())
	}
}

func TestRecord_ChainBreakers(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		second func(h *History, at time.Time)
		expect int
	}{
		{
			name: "manual in between",
			second: func(h *History, at time.Time) {
				h.Record(ctx, doc("x"), nil, common.HistoryReasonManual, "b1", at)
			},
			expect: 2,
		},
		{
			name: "other block",
			second: func(h *History, at time.Time) {
				d := doc("x")
				d.Blocks = append(d.Blocks, &sheet.Block{ID: "b2", Type: common.BlockTypeExample, Content: "y"})
				h.Record(ctx, d, nil, common.HistoryReasonTyping, "b2", at)
			},
			expect: 3,
		},
		{
			name:   "nothing",
			second: func(*History, time.Time) {},
			expect: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(Options{})
			h.Record(ctx, doc("x"), nil, common.HistoryReasonTyping, "b1", t0)
			tt.second(h, t0.Add(100*time.Millisecond))
			h.Record(ctx, doc("xy"), nil, common.HistoryReasonTyping, "b1", t0.Add(200*time.Millisecond))
			if h.Len() != tt.expect {
				t.Fatalf("expected %d entries, got %d", tt.expect, h.Len())
			}
		})
	}
}

func TestRecord_IdenticalIsNoop(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	h := New(Options{Store: store})
	h.Record(ctx, doc("$x$ [빈칸:a]"), nil, common.HistoryReasonManual, "", t0)
	changed, err := h.Record(ctx, doc("$x$ [빈칸:a]"), nil, common.HistoryReasonManual, "", t0.Add(time.Minute))
	if err != nil || changed {
		t.Fatalf("identical snapshot changed stack: %v %v", changed, err)
	}
	if h.Len() != 1 || len(store.saved) != 1 {
		t.Fatalf("unexpected state len=%d saved=%d", h.Len(), len(store.saved))
	}
	// settings are part of snapshot
	changed, _ = h.Record(ctx, doc("$x$ [빈칸:a]"), &sheet.Settings{ColumnBlockLimit: 2}, common.HistoryReasonManual, "", t0.Add(time.Minute))
	if !changed || h.Len() != 2 {
		t.Fatalf("settings change not recorded")
	}
}

func TestRecord_CanonicalSnapshot(t *testing.T) {
	h := New(Options{})
	h.Record(context.Background(), doc("[표_1x1]:(1x1_\"a\")"), nil, common.HistoryReasonManual, "", t0)
	changed, _ := h.Record(context.Background(), doc("[표_1x1] : (1x1_\"a\")"), nil, common.HistoryReasonManual, "", t0)
	if changed {
		t.Fatalf("equivalent markup produced new snapshot")
	}
}

func TestUndoRedo(t *testing.T) {
	ctx := context.Background()
	h := New(Options{})

	if _, _, err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo on empty stack, got %v", err)
	}
	if _, _, err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("expected ErrNothingToRedo on empty stack, got %v", err)
	}

	for i, text := range []string{"one", "two", "three"} {
		h.Record(ctx, doc(text), &sheet.Settings{LineHeight: float64(i + 1)}, common.HistoryReasonManual, "", t0)
	}
	d, s, err := h.Undo()
	if err != nil || d.Blocks[0].Content != "two" || s.LineHeight != 2 {
		t.Fatalf("unexpected undo result %+v %+v %v", d, s, err)
	}
	d, _, _ = h.Undo()
	if d.Blocks[0].Content != "one" {
		t.Fatalf("unexpected content %q", d.Blocks[0].Content)
	}
	if _, _, err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo at start, got %v", err)
	}
	d, _, _ = h.Redo()
	if d.Blocks[0].Content != "two" {
		t.Fatalf("unexpected redo content %q", d.Blocks[0].Content)
	}

	// recording after undo truncates forward entries
	h.Record(ctx, doc("other"), nil, common.HistoryReasonManual, "", t0)
	if h.Len() != 3 || h.CanRedo() {
		t.Fatalf("forward entries not truncated: len=%d", h.Len())
	}
	if _, _, err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestUndo_NoCoalesceAfterUndo(t *testing.T) {
	ctx := context.Background()
	h := New(Options{})
	h.Record(ctx, doc(""), nil, common.HistoryReasonManual, "", t0)
	h.Record(ctx, doc("a"), nil, common.HistoryReasonTyping, "b1", t0)
	h.Record(ctx, doc("ab"), nil, common.HistoryReasonTyping, "b1", t0.Add(5*time.Second))
	if h.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Len())
	}
	h.Undo()
	h.Record(ctx, doc("az"), nil, common.HistoryReasonTyping, "b1", t0.Add(time.Second))
	if h.Len() != 3 || h.Cursor() != 2 {
		t.Fatalf("expected pushed entry after undo, got len=%d cursor=%d", h.Len(), h.Cursor())
	}
	d, _, _ := h.Undo()
	if d.Blocks[0].Content != "a" {
		t.Fatalf("undone entry was replaced: %q", d.Blocks[0].Content)
	}
}

func TestDepthLimit(t *testing.T) {
	ctx := context.Background()
	h := New(Options{Depth: 5})
	for i := range 12 {
		h.Record(ctx, doc(fmt.Sprintf("v%d", i)), nil, common.HistoryReasonManual, "", t0)
	}
	if h.Len() != 5 || h.Cursor() != 4 {
		t.Fatalf("unexpected len=%d cursor=%d", h.Len(), h.Cursor())
	}
	var last *sheet.Document
	for h.CanUndo() {
		last, _, _ = h.Undo()
	}
	if last.Blocks[0].Content != "v7" {
		t.Fatalf("oldest kept entry is %q", last.Blocks[0].Content)
	}

	if New(Options{}).depth != DefaultDepth {
		t.Fatalf("default depth not applied")
	}
}

func TestStoreError(t *testing.T) {
	store := &memStore{err: errors.New("disk full")}
	h := New(Options{Store: store})
	changed, err := h.Record(context.Background(), doc("x"), nil, common.HistoryReasonManual, "", t0)
	if !changed || err == nil {
		t.Fatalf("expected recorded entry with store error, got %v %v", changed, err)
	}
	if h.Len() != 1 {
		t.Fatalf("entry lost on store error")
	}
}
