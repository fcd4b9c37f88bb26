// Package store handles SQLite persistence of drill progress.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuidrill/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			deck TEXT NOT NULL,
			groups_csv TEXT NOT NULL,
			reverse INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			wrong INTEGER NOT NULL,
			score INTEGER NOT NULL,
			best_streak INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_item_stats (
			session_id INTEGER NOT NULL,
			domain TEXT NOT NULL DEFAULT '',
			item TEXT NOT NULL,
			correct INTEGER NOT NULL,
			wrong INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (session_id, item)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_item_stats_item ON session_item_stats(item);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return s.ensureColumn("session_item_stats", "domain", `TEXT NOT NULL DEFAULT ''`)
}

// ensureColumn adds a column to tables created before it existed.
func (s *Store) ensureColumn(table, column, decl string) error {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return err
	}
	found := false
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			_ = rows.Close()
			return err
		}
		if name == column {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if found {
		return nil
	}
	_, err = s.db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, decl))
	return err
}

// InsertSession stores a completed session and its per-item stats.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats, items []model.ItemStats) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, mode, deck, groups_csv, reverse, correct, wrong, score, best_streak, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		stats.Mode,
		stats.Deck,
		stats.Groups,
		stats.Reverse,
		stats.Correct,
		stats.Wrong,
		stats.Score,
		stats.BestStreak,
		stats.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(items) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_item_stats (session_id, domain, item, correct, wrong, latency_sum_ms, latency_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, is := range items {
			if _, err = stmt.ExecContext(ctx, id, is.Domain, is.Item, is.Correct, is.Wrong, is.LatencySumMs, is.LatencyCount); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetWeakItems aggregates item stats over the most recent sessions.
func (s *Store) GetWeakItems(ctx context.Context, window int, mode string) ([]model.ItemAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR mode = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT st.domain, st.item, SUM(st.correct) AS correct, SUM(st.wrong) AS wrong,
		SUM(st.latency_sum_ms) AS latency_sum_ms, SUM(st.latency_count) AS latency_count
	FROM session_item_stats st
	JOIN recent_sessions r ON r.id = st.session_id
	GROUP BY st.domain, st.item`

	rows, err := s.db.QueryContext(ctx, query, mode, mode, window)
	if err != nil {
		return nil, err
	}
	return scanItemAggregates(rows)
}

// ListSessions returns session aggregates filtered by stats config.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, mode, correct, wrong, score, best_streak, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Mode, &agg.Correct, &agg.Wrong, &agg.Score, &agg.BestStreak, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListItemAggregatesForSessions aggregates per-item stats across sessions.
func (s *Store) ListItemAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.ItemAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT domain, item, SUM(correct) AS correct, SUM(wrong) AS wrong,
		SUM(latency_sum_ms) AS latency_sum_ms, SUM(latency_count) AS latency_count
		FROM session_item_stats
		WHERE session_id IN (%s)
		GROUP BY domain, item`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanItemAggregates(rows)
}

func scanItemAggregates(rows *sql.Rows) ([]model.ItemAggregate, error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ItemAggregate
	for rows.Next() {
		var agg model.ItemAggregate
		if err := rows.Scan(&agg.Domain, &agg.Item, &agg.Correct, &agg.Wrong, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListItemStatsForSessions returns per-session stats for the named items.
// Names are matched against model.ItemName of each row.
func (s *Store) ListItemStatsForSessions(ctx context.Context, sessionIDs []int64, names []string) (map[int64]map[string]model.ItemAggregate, error) {
	result := map[int64]map[string]model.ItemAggregate{}
	if len(sessionIDs) == 0 || len(names) == 0 {
		return result, nil
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT session_id, domain, item, correct, wrong, latency_sum_ms, latency_count
		FROM session_item_stats
		WHERE session_id IN (%s)`, strings.Join(placeholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var sessionID int64
		var agg model.ItemAggregate
		if err := rows.Scan(&sessionID, &agg.Domain, &agg.Item, &agg.Correct, &agg.Wrong, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		name := agg.Name()
		if _, ok := wanted[name]; !ok {
			continue
		}
		if _, ok := result[sessionID]; !ok {
			result[sessionID] = map[string]model.ItemAggregate{}
		}
		result[sessionID][name] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
