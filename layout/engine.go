package layout

import (
	"go.uber.org/zap"

	"sheetc/common"
	"sheetc/sheet"
)

// DefaultMaxIterations bounds rebalance pass.
const DefaultMaxIterations = 500

// Result describes rebalance pass.
type Result struct {
	Moves     int
	Converged bool
}

type Engine struct {
	surface Surface
	maxIter int
	log     *zap.Logger
}

func New(surface Surface, maxIter int, log *zap.Logger) *Engine {
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{surface: surface, maxIter: maxIter, log: log.Named("layout")}
}

func (e *Engine) Surface() Surface {
	return e.surface
}

// Flow places blocks in document order starting at left column of page one.
// Break block advances to the next column. Block which does not fit is moved
// to the next column, block which does not fit even alone stays where it is
// and the following blocks continue in the next column.
func (e *Engine) Flow(blocks []*sheet.Block) *Layout {
	l := &Layout{}
	cur := l.addPage().Columns[0]
	for _, b := range blocks {
		if b.Type == common.BlockTypeBreak {
			cur = l.next(cur)
			continue
		}
		cur.push(b)
		if !e.surface.Overflows(cur) {
			continue
		}
		if len(cur.Blocks) == 1 {
			e.log.Debug("Oversized block left alone", zap.String("block", b.ID), zap.Int("page", cur.Page))
			cur = l.next(cur)
			continue
		}
		cur.pop()
		cur = l.next(cur)
		cur.push(b)
		if e.surface.Overflows(cur) {
			e.log.Debug("Oversized block left alone", zap.String("block", b.ID), zap.Int("page", cur.Page))
			cur = l.next(cur)
		}
	}
	l.trim()
	e.log.Debug("Flow complete", zap.Int("blocks", len(blocks)), zap.Int("pages", len(l.Pages)))
	return l
}

// Rebalance fixes overflow caused by blocks that grew after flow. For each
// column in reading order the last block of an overflowing column moves to
// the front of the next one. Column with single block is never split. The
// pass stops after maximum number of moves, Converged is false then.
func (e *Engine) Rebalance(l *Layout) Result {
	var res Result
	for i := 0; i < 2*len(l.Pages); i++ {
		col := l.Pages[i/2].Columns[i%2]
		for len(col.Blocks) > 1 && e.surface.Overflows(col) {
			if res.Moves >= e.maxIter {
				e.log.Warn("Rebalance did not converge", zap.Int("moves", res.Moves))
				l.trim()
				return res
			}
			l.next(col).unshift(col.pop())
			res.Moves++
		}
	}
	l.trim()
	res.Converged = true
	if res.Moves > 0 {
		e.log.Debug("Rebalance complete", zap.Int("moves", res.Moves), zap.Int("pages", len(l.Pages)))
	}
	return res
}

// Paginate flows blocks and rebalances the result.
func (e *Engine) Paginate(blocks []*sheet.Block) (*Layout, Result) {
	l := e.Flow(blocks)
	return l, e.Rebalance(l)
}
