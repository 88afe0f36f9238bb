// Package history records tool invocations in SQLite so callers can ask
// what ran, when, and how it ended.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hyperpolymath/qed-ssg/internal/logger"
)

var log = logger.ForComponent("history")

const MemoryPath = ":memory:"

// Record is one finished tool invocation.
type Record struct {
	ID       int64         `json:"id"`
	Adapter  string        `json:"adapter"`
	Tool     string        `json:"tool"`
	Success  bool          `json:"success"`
	Code     int           `json:"code"`
	Kind     string        `json:"kind,omitempty"`
	Duration time.Duration `json:"duration_ns"`
	At       time.Time     `json:"at"`
}

type Query struct {
	Adapter    string
	Tool       string
	FailedOnly bool
	Limit      int
}

type Summary struct {
	Adapter   string `json:"adapter"`
	Total     int    `json:"total"`
	Failed    int    `json:"failed"`
	LastRunNs int64  `json:"last_run_ns"`
}

type Store struct {
	db    *sql.DB
	limit int
}

// Open opens or creates the store at path. limit caps the number of rows
// kept; older rows are pruned on insert. A limit <= 0 keeps everything.
func Open(path string, limit int) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if path != MemoryPath {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, limit: limit}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	log.Debug("history store opened", "path", path)
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS invocations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		adapter TEXT NOT NULL,
		tool TEXT NOT NULL,
		success INTEGER NOT NULL,
		code INTEGER NOT NULL,
		kind TEXT NOT NULL DEFAULT '',
		duration_ns INTEGER NOT NULL,
		at_ns INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invocations_adapter ON invocations(adapter);
	CREATE INDEX IF NOT EXISTS idx_invocations_tool ON invocations(tool)
	`

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Record(ctx context.Context, r Record) (int64, error) {
	if r.At.IsZero() {
		r.At = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO invocations (adapter, tool, success, code, kind, duration_ns, at_ns) VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.Adapter, r.Tool, r.Success, r.Code, r.Kind, int64(r.Duration), r.At.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("record invocation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if s.limit > 0 {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM invocations WHERE id <= ?", id-int64(s.limit)); err != nil {
			log.Warn("history prune failed", "error", err)
		}
	}
	return id, nil
}

// Query returns matching records, newest first.
func (s *Store) Query(ctx context.Context, q Query) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if q.Adapter != "" {
		where = append(where, "adapter = ?")
		args = append(args, q.Adapter)
	}
	if q.Tool != "" {
		where = append(where, "tool = ?")
		args = append(args, q.Tool)
	}
	if q.FailedOnly {
		where = append(where, "success = 0")
	}

	stmt := "SELECT id, adapter, tool, success, code, kind, duration_ns, at_ns FROM invocations"
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY id DESC"
	if q.Limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r          Record
			durationNs int64
			atNs       int64
		)
		if err := rows.Scan(&r.ID, &r.Adapter, &r.Tool, &r.Success, &r.Code, &r.Kind, &durationNs, &atNs); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(durationNs)
		r.At = time.Unix(0, atNs)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Summarize returns per-adapter totals ordered by adapter name.
func (s *Store) Summarize(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT adapter, COUNT(*), SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), MAX(at_ns)
		FROM invocations
		GROUP BY adapter
		ORDER BY adapter`)
	if err != nil {
		return nil, fmt.Errorf("summarize history: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.Adapter, &sum.Total, &sum.Failed, &sum.LastRunNs); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
