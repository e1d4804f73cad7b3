// Package autosave keeps recorded history snapshots in SQLite database so
// the latest state can be recovered after crash.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"sheetc/common"
	"sheetc/history"
)

// ErrNoSnapshot is returned when nothing was saved under the key.
var ErrNoSnapshot = errors.New("no autosaved snapshot")

const schema = `
CREATE TABLE IF NOT EXISTS autosave (
	key      TEXT    NOT NULL,
	seq      INTEGER NOT NULL,
	saved_at INTEGER NOT NULL,
	reason   TEXT    NOT NULL,
	block_id TEXT    NOT NULL DEFAULT '',
	snapshot BLOB    NOT NULL,
	PRIMARY KEY (key, seq)
);
`

// Record is single saved snapshot.
type Record struct {
	Key      string
	Seq      int64
	SavedAt  time.Time
	Reason   common.HistoryReason
	BlockID  string
	Snapshot []byte
}

// Store is SQLite backed snapshot store bound to a single key. It satisfies
// history.Store. Store uses one connection and is not safe for concurrent
// use.
type Store struct {
	conn *sqlite.Conn
	key  string
	keep int
	log  *zap.Logger
}

var _ history.Store = (*Store)(nil)

// Open opens or creates database at path. When keep is positive only that
// many newest snapshots are retained after each save.
func Open(path, key string, keep int, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("unable to open autosave database %q: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to initialize autosave database %q: %w", path, err)
	}
	log = log.Named("autosave")
	log.Debug("Autosave database opened", zap.String("path", path), zap.String("key", key))
	return &Store{conn: conn, key: key, keep: keep, log: log}, nil
}

// Close releases database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Key returns key snapshots are stored under.
func (s *Store) Key() string {
	return s.key
}

func (s *Store) interrupt(ctx context.Context) func() {
	s.conn.SetInterrupt(ctx.Done())
	return func() { s.conn.SetInterrupt(nil) }
}

// Save appends history entry as the newest snapshot.
func (s *Store) Save(ctx context.Context, e *history.Entry) (err error) {
	defer s.interrupt(ctx)()
	defer sqlitex.Save(s.conn)(&err)

	err = sqlitex.Execute(s.conn, `
		INSERT INTO autosave (key, seq, saved_at, reason, block_id, snapshot)
		SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ? FROM autosave WHERE key = ?`,
		&sqlitex.ExecOptions{Args: []any{s.key, e.At.UnixMilli(), e.Reason.String(), e.BlockID, e.Data, s.key}})
	if err != nil {
		return fmt.Errorf("unable to save snapshot: %w", err)
	}
	if s.keep > 0 {
		if _, err = s.prune(s.keep); err != nil {
			return err
		}
	}
	return nil
}

func scanRecord(stmt *sqlite.Stmt, withSnapshot bool) (Record, error) {
	r := Record{
		Key:     stmt.ColumnText(0),
		Seq:     stmt.ColumnInt64(1),
		SavedAt: time.UnixMilli(stmt.ColumnInt64(2)),
		BlockID: stmt.ColumnText(4),
	}
	reason, err := common.ParseHistoryReason(stmt.ColumnText(3))
	if err != nil {
		return r, err
	}
	r.Reason = reason
	if withSnapshot {
		if r.Snapshot, err = io.ReadAll(stmt.ColumnReader(5)); err != nil {
			return r, err
		}
	}
	return r, nil
}

// Latest returns the newest snapshot.
func (s *Store) Latest(ctx context.Context) (*Record, error) {
	defer s.interrupt(ctx)()

	var rec *Record
	err := sqlitex.Execute(s.conn, `
		SELECT key, seq, saved_at, reason, block_id, snapshot FROM autosave
		WHERE key = ? ORDER BY seq DESC LIMIT 1`,
		&sqlitex.ExecOptions{
			Args: []any{s.key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				r, err := scanRecord(stmt, true)
				if err != nil {
					return err
				}
				rec = &r
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to read snapshot: %w", err)
	}
	if rec == nil {
		return nil, ErrNoSnapshot
	}
	return rec, nil
}

// List returns saved snapshots newest first without snapshot data.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	defer s.interrupt(ctx)()

	var res []Record
	err := sqlitex.Execute(s.conn, `
		SELECT key, seq, saved_at, reason, block_id FROM autosave
		WHERE key = ? ORDER BY seq DESC`,
		&sqlitex.ExecOptions{
			Args: []any{s.key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				r, err := scanRecord(stmt, false)
				if err != nil {
					return err
				}
				res = append(res, r)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to list snapshots: %w", err)
	}
	return res, nil
}

// Prune removes all but keep newest snapshots and returns number removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	defer s.interrupt(ctx)()
	return s.prune(keep)
}

func (s *Store) prune(keep int) (int, error) {
	err := sqlitex.Execute(s.conn, `
		DELETE FROM autosave WHERE key = ? AND seq <= (
			SELECT COALESCE(MAX(seq), 0) - ? FROM autosave WHERE key = ?)`,
		&sqlitex.ExecOptions{Args: []any{s.key, keep, s.key}})
	if err != nil {
		return 0, fmt.Errorf("unable to prune snapshots: %w", err)
	}
	n := s.conn.Changes()
	if n > 0 {
		s.log.Debug("Snapshots pruned", zap.Int("removed", n), zap.Int("keep", keep))
	}
	return n, nil
}
