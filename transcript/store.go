// Package transcript keeps an append-only sqlite log of resolved turns for
// offline analysis. It is an analytics trail, not session state; failures are
// logged by the engine and never fail a request.
package transcript

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/wicaksana/tanya/dialogue"
	"github.com/wicaksana/tanya/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	utterance  TEXT NOT NULL,
	answer     TEXT NOT NULL,
	source     TEXT NOT NULL,
	language   TEXT NOT NULL,
	intent     TEXT,
	score      REAL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_transcripts_session ON transcripts(session_id, created_at);
`

// Store writes resolved turns to sqlite. It implements dialogue.Recorder.
type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// Open opens (or creates) the transcript database at path and applies the
// schema. The schema statement is idempotent, so reopening is safe.
func Open(path string, logger *zap.SugaredLogger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open transcript database %s", path)
	}

	// WAL mode allows concurrent reads during writes
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to enable WAL mode")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to set busy timeout")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to apply transcript schema")
	}

	if logger != nil {
		logger.Infow("Transcript database opened", "path", path)
	}
	return NewStore(db, logger), nil
}

// NewStore wraps an already opened database.
func NewStore(db *sql.DB, logger *zap.SugaredLogger) *Store {
	return &Store{db: db, log: logger}
}

// Record appends one resolved turn.
func (s *Store) Record(ctx context.Context, rec dialogue.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transcripts (id, session_id, utterance, answer, source, language, intent, score) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), rec.SessionID, rec.Utterance, rec.Answer, rec.Source, rec.Language, rec.Intent, rec.Score,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert transcript row")
	}
	return nil
}

// Entry is one persisted turn.
type Entry struct {
	ID        string
	SessionID string
	Utterance string
	Answer    string
	Source    string
	Language  string
	Intent    string
	Score     *float64
	CreatedAt time.Time
}

// RecentBySession returns up to limit turns for a session, newest first.
func (s *Store) RecentBySession(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, utterance, answer, source, language, COALESCE(intent, ''), score, created_at
		 FROM transcripts WHERE session_id = ? ORDER BY created_at DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query transcripts")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Utterance, &e.Answer, &e.Source, &e.Language, &e.Intent, &e.Score, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan transcript row")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
