// Package history keeps linear undo stack of canonical document snapshots.
// Rapid typing in one block coalesces into a single step, every recorded
// snapshot is handed to optional durable store for crash recovery.
package history

import (
	"bytes"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"sheetc/common"
	"sheetc/markup"
	"sheetc/sheet"
)

const (
	DefaultDepth    = 30
	DefaultCoalesce = 2 * time.Second
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Entry is single undo step. Data is serialized canonical snapshot.
type Entry struct {
	Reason  common.HistoryReason
	BlockID string
	At      time.Time
	Data    []byte
}

// Store persists recorded entries.
type Store interface {
	Save(ctx context.Context, e *Entry) error
}

// Options control history behavior, zero values select defaults.
type Options struct {
	Depth    int
	Coalesce time.Duration
	Store    Store
	Log      *zap.Logger
}

// History is owned by a single editing session and is not safe for
// concurrent use.
type History struct {
	entries  []*Entry
	cursor   int
	depth    int
	coalesce time.Duration
	store    Store
	log      *zap.Logger
}

func New(opts Options) *History {
	h := &History{
		cursor:   -1,
		depth:    opts.Depth,
		coalesce: opts.Coalesce,
		store:    opts.Store,
		log:      opts.Log,
	}
	if h.depth <= 0 {
		h.depth = DefaultDepth
	}
	if h.coalesce <= 0 {
		h.coalesce = DefaultCoalesce
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	h.log = h.log.Named("history")
	return h
}

// Len returns number of entries on the stack.
func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns index of the current entry, -1 when empty.
func (h *History) Cursor() int {
	return h.cursor
}

func (h *History) CanUndo() bool {
	return h.cursor > 0
}

func (h *History) CanRedo() bool {
	return h.cursor >= 0 && h.cursor < len(h.entries)-1
}

// Top returns current entry or nil.
func (h *History) Top() *Entry {
	if h.cursor < 0 {
		return nil
	}
	return h.entries[h.cursor]
}

// Canonicalize returns deep copy of document with every rich block content
// re-collapsed into canonical markup.
func Canonicalize(doc *sheet.Document) *sheet.Document {
	res := doc.Clone()
	for _, b := range res.Blocks {
		if b.Type.Rich() {
			b.Content = markup.Canonical(b.Content, b.Type == common.BlockTypeConcept)
		}
	}
	return res
}

// Record snapshots document and settings. Identical snapshot is a no-op
// except that manual record ends a typing chain. Typing in the same block
// within coalesce interval of the previous typing record replaces the top
// entry. Reports whether stack changed.
func (h *History) Record(ctx context.Context, doc *sheet.Document, settings *sheet.Settings, reason common.HistoryReason, blockID string, now time.Time) (bool, error) {
	var buf bytes.Buffer
	if err := sheet.Encode(&buf, Canonicalize(doc), settings); err != nil {
		return false, err
	}
	e := &Entry{Reason: reason, BlockID: blockID, At: now, Data: buf.Bytes()}

	top := h.Top()
	if top != nil && bytes.Equal(top.Data, e.Data) {
		if reason == common.HistoryReasonManual && top.Reason != reason {
			top.Reason = reason
			h.log.Debug("Typing chain closed")
		}
		return false, nil
	}

	if h.coalesces(top, e) {
		h.entries[h.cursor] = e
		h.log.Debug("Snapshot coalesced", zap.String("block", blockID), zap.Int("depth", len(h.entries)))
	} else {
		h.entries = append(h.entries[:h.cursor+1], e)
		if over := len(h.entries) - h.depth; over > 0 {
			h.entries = h.entries[over:]
		}
		h.cursor = len(h.entries) - 1
		h.log.Debug("Snapshot recorded", zap.Stringer("reason", reason), zap.String("block", blockID), zap.Int("depth", len(h.entries)))
	}

	if h.store != nil {
		if err := h.store.Save(ctx, e); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (h *History) coalesces(top, e *Entry) bool {
	return top != nil &&
		e.Reason == common.HistoryReasonTyping &&
		top.Reason == common.HistoryReasonTyping &&
		h.cursor == len(h.entries)-1 &&
		top.BlockID == e.BlockID &&
		e.At.Sub(top.At) <= h.coalesce
}

// Undo moves cursor back and returns snapshot stored there.
func (h *History) Undo() (*sheet.Document, *sheet.Settings, error) {
	if !h.CanUndo() {
		return nil, nil, ErrNothingToUndo
	}
	h.cursor--
	return h.restore()
}

// Redo moves cursor forward and returns snapshot stored there.
func (h *History) Redo() (*sheet.Document, *sheet.Settings, error) {
	if !h.CanRedo() {
		return nil, nil, ErrNothingToRedo
	}
	h.cursor++
	return h.restore()
}

func (h *History) restore() (*sheet.Document, *sheet.Settings, error) {
	e := h.entries[h.cursor]
	doc, settings, err := sheet.Decode(bytes.NewReader(e.Data))
	if err != nil {
		return nil, nil, err
	}
	h.log.Debug("Snapshot restored", zap.Int("cursor", h.cursor), zap.Int("depth", len(h.entries)))
	return doc, settings, nil
}

// Reset drops all entries.
func (h *History) Reset() {
	h.entries = nil
	h.cursor = -1
}
