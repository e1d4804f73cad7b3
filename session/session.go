// Package session owns the document being edited together with its
// settings, undo history, concept blank tracker, deferred tasks and current
// page layout. Every edit goes through the session, nothing is global.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sheetc/common"
	"sheetc/history"
	"sheetc/importer"
	"sheetc/layout"
	"sheetc/markup"
	"sheetc/render"
	"sheetc/sched"
	"sheetc/sheet"
)

var (
	ErrUnknownBlock = errors.New("unknown block")
	ErrNoContent    = errors.New("block has no content")
)

// Names of deferred tasks.
const (
	TaskRecord    = "record"
	TaskRebalance = "rebalance"
)

const (
	DefaultRecordDelay    = 400 * time.Millisecond
	DefaultRebalanceDelay = 150 * time.Millisecond
)

// AnswersLabel is label of derived concept answers block.
const AnswersLabel = "정답"

// Options configure session. Zero values select defaults.
type Options struct {
	// Surface reports column overflow. When nil a measured surface is built
	// from Template and Measurer.
	Surface  layout.Surface
	Template layout.Template
	Measurer layout.Measurer

	MaxIterations  int
	RecordDelay    time.Duration
	RebalanceDelay time.Duration

	Depth    int
	Coalesce time.Duration
	Store    history.Store

	Clock sched.Clock
	Log   *zap.Logger
}

// Session is single editing context. It is not safe for concurrent use.
type Session struct {
	doc      *sheet.Document
	settings *sheet.Settings
	parsed   render.Parsed

	hist    *history.History
	tracker *markup.Tracker
	sched   *sched.Scheduler
	surface layout.Surface
	engine  *layout.Engine
	layout  *layout.Layout

	recordDelay    time.Duration
	rebalanceDelay time.Duration
	pendingBlock   string

	// set while deferred tasks run
	ctx     context.Context
	taskErr error

	log *zap.Logger
}

// New creates session holding a document with single empty example block.
func New(ctx context.Context, opts Options) (*Session, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("session")

	surface := opts.Surface
	if surface == nil {
		m := opts.Measurer
		if m == nil {
			m = layout.NewCellMeasurer(layout.Metrics{}, log)
		}
		surface = layout.NewMeasuredSurface(opts.Template, m)
	}

	s := &Session{
		hist: history.New(history.Options{
			Depth:    opts.Depth,
			Coalesce: opts.Coalesce,
			Store:    opts.Store,
			Log:      log,
		}),
		tracker:        markup.NewTracker(),
		sched:          sched.New(opts.Clock, log),
		surface:        surface,
		engine:         layout.New(surface, opts.MaxIterations, log),
		recordDelay:    opts.RecordDelay,
		rebalanceDelay: opts.RebalanceDelay,
		log:            log,
	}
	if s.recordDelay <= 0 {
		s.recordDelay = DefaultRecordDelay
	}
	if s.rebalanceDelay <= 0 {
		s.rebalanceDelay = DefaultRebalanceDelay
	}

	doc := &sheet.Document{Meta: sheet.Meta{Zoom: 1}, Blocks: []*sheet.Block{sheet.NewBlock(common.BlockTypeExample, "")}}
	if err := s.Load(ctx, doc, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// Document returns document owned by session. Callers must not modify it.
func (s *Session) Document() *sheet.Document {
	return s.doc
}

func (s *Session) Settings() *sheet.Settings {
	return s.settings
}

func (s *Session) History() *history.History {
	return s.hist
}

func (s *Session) Scheduler() *sched.Scheduler {
	return s.sched
}

// Surface returns overflow surface the layout engine uses.
func (s *Session) Surface() layout.Surface {
	return s.surface
}

// Pages returns current page layout.
func (s *Session) Pages() *layout.Layout {
	return s.layout
}

// Parsed returns block nodes of the last full parse pass.
func (s *Session) Parsed() render.Parsed {
	return s.parsed
}

// Answers returns concept blank answers collected by the last full parse
// pass.
func (s *Session) Answers() []markup.Answer {
	return s.tracker.Answers()
}

// Export serializes document into block header markup.
func (s *Session) Export() string {
	return importer.Export(s.doc)
}

// Load replaces document and settings wholesale and starts new history.
func (s *Session) Load(ctx context.Context, doc *sheet.Document, settings *sheet.Settings) error {
	doc = doc.Clone()
	doc.EnsureIDs()
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("unable to load document: %w", err)
	}
	if settings == nil {
		settings = &sheet.Settings{}
	} else {
		settings = settings.Clone()
	}

	s.sched.Cancel(TaskRecord)
	s.sched.Cancel(TaskRebalance)
	s.pendingBlock = ""
	s.doc, s.settings = doc, settings
	s.hist.Reset()
	s.reparse()
	s.relayout()

	s.log.Debug("Document loaded", zap.Int("blocks", len(doc.Blocks)), zap.Int("pages", len(s.layout.Pages)))
	_, err := s.hist.Record(ctx, s.doc, s.settings, common.HistoryReasonManual, "", s.now())
	return err
}

func (s *Session) now() time.Time {
	return s.sched.Clock().Now()
}

func (s *Session) block(id string) (*sheet.Block, error) {
	if b := s.doc.Block(id); b != nil {
		return b, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBlock, id)
}

// SetContent replaces content of a block as the result of typing. History
// record and rebalance are deferred, a new edit reschedules them. Pending
// typing in another block is recorded right away.
func (s *Session) SetContent(ctx context.Context, id, content string) error {
	b, err := s.block(id)
	if err != nil {
		return err
	}
	if !b.Type.Rich() {
		return fmt.Errorf("%w: %s block %q", ErrNoContent, b.Type, id)
	}
	if s.pendingBlock != "" && s.pendingBlock != id {
		err = s.recordPending(ctx)
	}
	b.Content = content

	s.pendingBlock = id
	s.sched.Schedule(TaskRecord, s.recordDelay, s.recordTyping(id))
	s.sched.Schedule(TaskRebalance, s.rebalanceDelay, s.rebalance)
	return err
}

// recordPending records deferred typing snapshot immediately.
func (s *Session) recordPending(ctx context.Context) error {
	id := s.pendingBlock
	if !s.sched.Cancel(TaskRecord) || id == "" {
		return nil
	}
	return s.runTask(ctx, s.recordTyping(id))
}

func (s *Session) recordTyping(id string) func() {
	return func() {
		s.pendingBlock = ""
		if s.reparse() {
			s.relayout()
		}
		if _, err := s.hist.Record(s.taskContext(), s.doc, s.settings, common.HistoryReasonTyping, id, s.now()); err != nil {
			s.taskErr = multierr.Append(s.taskErr, fmt.Errorf("unable to record history: %w", err))
		}
	}
}

func (s *Session) rebalance() {
	res := s.engine.Rebalance(s.layout)
	if res.Moves > 0 {
		s.log.Debug("Layout rebalanced", zap.Int("moves", res.Moves), zap.Bool("converged", res.Converged))
	}
}

func (s *Session) taskContext() context.Context {
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}

// runTask runs fn the way scheduler runs deferred tasks and returns errors
// they produced.
func (s *Session) runTask(ctx context.Context, fn func()) error {
	s.ctx, s.taskErr = ctx, nil
	defer func() { s.ctx, s.taskErr = nil, nil }()

	fn()
	return s.taskErr
}

// Tick runs deferred tasks which are due and returns their number together
// with errors they produced.
func (s *Session) Tick(ctx context.Context) (int, error) {
	var n int
	err := s.runTask(ctx, func() { n = s.sched.RunDue() })
	return n, err
}

// Flush runs all pending deferred tasks regardless of their due time.
func (s *Session) Flush(ctx context.Context) error {
	return s.runTask(ctx, func() { s.sched.Flush() })
}

// Commit finishes an edit cycle: every block content is normalized and
// reparsed, pages are flowed from scratch and manual snapshot is recorded.
func (s *Session) Commit(ctx context.Context) error {
	return s.commit(ctx, "")
}

func (s *Session) commit(ctx context.Context, blockID string) error {
	s.sched.Cancel(TaskRecord)
	s.sched.Cancel(TaskRebalance)
	if blockID == "" {
		blockID = s.pendingBlock
	}
	s.pendingBlock = ""

	for _, b := range s.doc.Blocks {
		if b.Type.Rich() && b.Derived == "" {
			b.Content = markup.Canonical(b.Content, b.Type == common.BlockTypeConcept)
		}
	}
	s.reparse()
	s.doc.TOC = s.doc.BuildTOC()
	s.relayout()

	if _, err := s.hist.Record(ctx, s.doc, s.settings, common.HistoryReasonManual, blockID, s.now()); err != nil {
		return fmt.Errorf("unable to record history: %w", err)
	}
	return nil
}

// reparse runs full tracker pass over the document and refreshes derived
// answers block. Reports whether block list changed.
func (s *Session) reparse() bool {
	s.tracker.Reset()
	s.parsed = render.Parse(s.doc, s.tracker, s.log)
	changed := s.refreshAnswers()
	if changed {
		s.parsed = render.Parse(s.doc, markup.NewTracker(), s.log)
	}
	return changed
}

// AnswersContent formats concept blank answers one per line.
func AnswersContent(answers []markup.Answer) string {
	lines := make([]string, 0, len(answers))
	for _, a := range answers {
		text := a.Text
		if a.IsMath && !strings.HasPrefix(text, "$") {
			text = "$" + text + "$"
		}
		lines = append(lines, "("+strconv.Itoa(a.Index)+") "+text)
	}
	return strings.Join(lines, "\n")
}

func (s *Session) refreshAnswers() bool {
	idx := slices.IndexFunc(s.doc.Blocks, func(b *sheet.Block) bool {
		return b.Derived == sheet.DerivedConceptAnswers
	})
	if s.tracker.Count() == 0 {
		if idx < 0 {
			return false
		}
		s.doc.Blocks = slices.Delete(s.doc.Blocks, idx, idx+1)
		s.log.Debug("Concept answers block removed")
		return true
	}

	answers := s.tracker.Answers()
	content := AnswersContent(answers)
	if idx >= 0 {
		b := s.doc.Blocks[idx]
		if b.Content == content {
			return false
		}
		b.Content = content
		return true
	}
	b := sheet.NewBlock(common.BlockTypeAnswer, content)
	b.Label = AnswersLabel
	b.Derived = sheet.DerivedConceptAnswers
	s.doc.Blocks = append(s.doc.Blocks, b)
	s.log.Debug("Concept answers block added", zap.Int("answers", len(answers)))
	return true
}

func (s *Session) relayout() {
	if r, ok := s.surface.(interface{ Reset() }); ok {
		r.Reset()
	}
	var res layout.Result
	s.layout, res = s.engine.Paginate(s.doc.Blocks)
	if !res.Converged {
		s.log.Warn("Layout did not converge", zap.Int("moves", res.Moves))
	}
}

// edit applies structural change to the document and commits it.
func (s *Session) edit(ctx context.Context, id string, fn func(b *sheet.Block) error) error {
	b, err := s.block(id)
	if err != nil {
		return err
	}
	err = s.recordPending(ctx)
	if ferr := fn(b); ferr != nil {
		return multierr.Append(err, ferr)
	}
	return multierr.Append(err, s.commit(ctx, id))
}

// InsertBlock creates block of given type after the block with id after,
// empty after inserts at the beginning of the document.
func (s *Session) InsertBlock(ctx context.Context, after string, typ common.BlockType, content string) (*sheet.Block, error) {
	if !typ.IsValid() {
		return nil, fmt.Errorf("unknown block type %q", typ)
	}
	pos := 0
	if after != "" {
		i := s.doc.Index(after)
		if i < 0 {
			return nil, fmt.Errorf("%w %q", ErrUnknownBlock, after)
		}
		pos = i + 1
	}
	err := s.recordPending(ctx)
	b := sheet.NewBlock(typ, content)
	s.doc.Blocks = slices.Insert(s.doc.Blocks, pos, b)
	return b, multierr.Append(err, s.commit(ctx, b.ID))
}

// DeleteBlock removes block from the document.
func (s *Session) DeleteBlock(ctx context.Context, id string) error {
	return s.edit(ctx, id, func(*sheet.Block) error {
		i := s.doc.Index(id)
		s.doc.Blocks = slices.Delete(s.doc.Blocks, i, i+1)
		return nil
	})
}

// MoveBlock moves block to position index, index is clamped to document
// bounds.
func (s *Session) MoveBlock(ctx context.Context, id string, index int) error {
	return s.edit(ctx, id, func(b *sheet.Block) error {
		i := s.doc.Index(id)
		s.doc.Blocks = slices.Delete(s.doc.Blocks, i, i+1)
		index = min(max(index, 0), len(s.doc.Blocks))
		s.doc.Blocks = slices.Insert(s.doc.Blocks, index, b)
		return nil
	})
}

// SplitBlock splits block content at byte offset. Text after offset goes
// into a new block with the same presentation which is inserted right
// after the original one.
func (s *Session) SplitBlock(ctx context.Context, id string, offset int) (*sheet.Block, error) {
	var nb *sheet.Block
	err := s.edit(ctx, id, func(b *sheet.Block) error {
		if !b.Type.Rich() {
			return fmt.Errorf("%w: %s block %q", ErrNoContent, b.Type, id)
		}
		if offset < 0 || offset > len(b.Content) {
			return fmt.Errorf("split offset %d is out of range [0, %d]", offset, len(b.Content))
		}
		if offset < len(b.Content) && !utf8.RuneStart(b.Content[offset]) {
			return fmt.Errorf("split offset %d is not at character boundary", offset)
		}
		nb = b.Clone()
		nb.ID = sheet.NewBlockID()
		nb.Label = ""
		nb.Derived = ""
		nb.Content = strings.TrimLeft(b.Content[offset:], "\n")
		b.Content = strings.TrimRight(b.Content[:offset], "\n")
		s.doc.Blocks = slices.Insert(s.doc.Blocks, s.doc.Index(id)+1, nb)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nb, nil
}

func (s *Session) ToggleBordered(ctx context.Context, id string) error {
	return s.edit(ctx, id, func(b *sheet.Block) error {
		b.Bordered = !b.Bordered
		return nil
	})
}

func (s *Session) ToggleBgGray(ctx context.Context, id string) error {
	return s.edit(ctx, id, func(b *sheet.Block) error {
		b.BgGray = !b.BgGray
		return nil
	})
}

// SetAlign sets block text alignment, empty value removes it.
func (s *Session) SetAlign(ctx context.Context, id string, align common.TextAlign) error {
	return s.edit(ctx, id, func(b *sheet.Block) error {
		if align == "" {
			b.Style = nil
			return nil
		}
		if !align.IsValid() {
			return fmt.Errorf("unknown text alignment %q", align)
		}
		b.Style = &sheet.Style{TextAlign: align}
		return nil
	})
}

// Undo restores previous snapshot. Pending typing is recorded first so that
// it can be undone as well.
func (s *Session) Undo(ctx context.Context) error {
	return s.step(ctx, s.hist.Undo)
}

// Redo restores snapshot undone last.
func (s *Session) Redo(ctx context.Context) error {
	return s.step(ctx, s.hist.Redo)
}

func (s *Session) step(ctx context.Context, fn func() (*sheet.Document, *sheet.Settings, error)) error {
	err := s.recordPending(ctx)
	s.sched.Cancel(TaskRebalance)

	doc, settings, serr := fn()
	if serr != nil {
		return multierr.Append(err, serr)
	}
	s.doc, s.settings = doc, settings
	s.reparse()
	s.relayout()
	return err
}
