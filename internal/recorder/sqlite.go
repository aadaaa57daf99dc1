package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists interaction history to a SQLite database.
// Every row carries the session ID of the process that wrote it.
type SQLiteRecorder struct {
	db      *sql.DB
	mu      sync.Mutex
	session string
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, session: uuid.NewString()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Info("sqlite recorder opened", "path", dbPath, "session", r.session)
	return r, nil
}

// Session returns the ID stamped on rows written by this recorder.
func (r *SQLiteRecorder) Session() string { return r.session }

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS selection_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			session   TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			idx       INTEGER,
			candle_id INTEGER,
			close     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_selection_ts ON selection_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS prediction_taps (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			session      TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			kind         TEXT,
			price        REAL,
			target_index INTEGER,
			metadata     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prediction_ts ON prediction_taps(timestamp)`,

		`CREATE TABLE IF NOT EXISTS feed_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session     TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			kind        TEXT,
			count       INTEGER,
			last_id     INTEGER,
			series_size INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feed_ts ON feed_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSelection(evt *SelectionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO selection_events
		(session, timestamp, idx, candle_id, close)
		VALUES (?,?,?,?,?)`,
		r.session, time.Now().UnixMilli(), evt.Index, evt.CandleID, evt.Close,
	)
	return err
}

func (r *SQLiteRecorder) RecordPredictionTap(evt *PredictionTapEvent) error {
	var meta sql.NullString
	if len(evt.Metadata) > 0 {
		b, err := json.Marshal(evt.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		meta = sql.NullString{String: string(b), Valid: true}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO prediction_taps
		(session, timestamp, kind, price, target_index, metadata)
		VALUES (?,?,?,?,?,?)`,
		r.session, time.Now().UnixMilli(), evt.Kind, evt.Price, evt.TargetIndex, meta,
	)
	return err
}

func (r *SQLiteRecorder) RecordFeed(evt *FeedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO feed_events
		(session, timestamp, kind, count, last_id, series_size)
		VALUES (?,?,?,?,?,?)`,
		r.session, time.Now().UnixMilli(), evt.Kind, evt.Count, evt.LastID, evt.SeriesLen,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	slog.Info("closing sqlite recorder")
	return r.db.Close()
}
