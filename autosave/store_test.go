package autosave

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"sheetc/common"
	"sheetc/history"
	"sheetc/sheet"
)

func openStore(t *testing.T, key string, keep int) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "autosave.db")
	s, err := Open(path, key, keep, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestStore_SaveLatestList(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, "doc", 0)

	if _, err := s.Latest(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := []*history.Entry{
		{Reason: common.HistoryReasonManual, At: at, Data: []byte(`{"v":1}`)},
		{Reason: common.HistoryReasonTyping, BlockID: "b1", At: at.Add(time.Second), Data: []byte(`{"v":2}`)},
	}
	for _, e := range entries {
		if err := s.Save(ctx, e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	rec, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if rec.Seq != 2 || rec.BlockID != "b1" || rec.Reason != common.HistoryReasonTyping || string(rec.Snapshot) != `{"v":2}` {
		t.Fatalf("unexpected latest record %+v", rec)
	}
	if !rec.SavedAt.Equal(at.Add(time.Second)) {
		t.Fatalf("unexpected saved time %v", rec.SavedAt)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Seq != 2 || list[1].Seq != 1 || list[0].Snapshot != nil {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestStore_KeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	a, path := openStore(t, "a", 0)
	b, err := Open(path, "b", 0, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()

	a.Save(ctx, &history.Entry{Reason: common.HistoryReasonManual, At: time.Now(), Data: []byte("a")})
	if _, err := b.Latest(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected no snapshot under other key, got %v", err)
	}
	b.Save(ctx, &history.Entry{Reason: common.HistoryReasonManual, At: time.Now(), Data: []byte("b")})
	rec, err := b.Latest(ctx)
	if err != nil || rec.Seq != 1 || string(rec.Snapshot) != "b" {
		t.Fatalf("unexpected record %+v %v", rec, err)
	}
}

func TestStore_Prune(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, "doc", 3)
	for i := range 5 {
		if err := s.Save(ctx, &history.Entry{Reason: common.HistoryReasonManual, At: time.Unix(int64(i), 0), Data: []byte{byte('0' + i)}}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	list, _ := s.List(ctx)
	if len(list) != 3 || list[2].Seq != 3 {
		t.Fatalf("unexpected records after auto prune %+v", list)
	}
	n, err := s.Prune(ctx, 1)
	if err != nil || n != 2 {
		t.Fatalf("unexpected prune result %d %v", n, err)
	}
	rec, _ := s.Latest(ctx)
	if string(rec.Snapshot) != "4" {
		t.Fatalf("newest snapshot lost: %q", rec.Snapshot)
	}
}

func TestStore_HistoryHook(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t, "doc", 0)
	h := history.New(history.Options{Store: s})
	if _, err := h.Record(ctx, &sheet.Document{Blocks: []*sheet.Block{{ID: "x", Type: common.BlockTypeExample, Content: "a"}}}, nil, common.HistoryReasonManual, "", time.Now()); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec, err := s.Latest(ctx); err != nil || len(rec.Snapshot) == 0 {
		t.Fatalf("snapshot not persisted: %v", err)
	}
}
