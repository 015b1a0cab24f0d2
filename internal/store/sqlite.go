package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"

	"github.com/abhisek/medval/internal/questionnaire"
)

// SQLiteStore implements Store on modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens the database at dsn and applies pragmas.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// Pragmas below are per connection; one connection keeps them applied.
	db.SetMaxOpenConns(1)
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// applyPragmas configures SQLite for a single-process server.
func applyPragmas(db *sql.DB) error {
	for _, p := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(p); err != nil {
			return eris.Wrapf(err, "sqlite: %s", p)
		}
	}
	return nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS ratings (
	id                    TEXT PRIMARY KEY,
	question_index        INTEGER NOT NULL,
	question              TEXT NOT NULL,
	reading_comprehension INTEGER NOT NULL,
	reasoning             INTEGER NOT NULL,
	knowledge_recall      INTEGER NOT NULL,
	demographic_bias      INTEGER NOT NULL,
	potential_harm        INTEGER NOT NULL,
	time_spent            INTEGER NOT NULL,
	comment               TEXT NOT NULL DEFAULT '',
	created_at            DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS answers (
	session_id     TEXT PRIMARY KEY,
	schema_version TEXT NOT NULL,
	submitted_at   DATETIME NOT NULL,
	filename       TEXT NOT NULL,
	record         TEXT NOT NULL,
	created_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ratings_question_index ON ratings(question_index);
CREATE INDEX IF NOT EXISTS idx_answers_submitted_at ON answers(submitted_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database for raw queries.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) SaveRating(ctx context.Context, rec questionnaire.RatingRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ratings (id, `+ratingColumns+`, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ratingArgs(uuid.NewString(), rec, time.Now().UTC())...,
	)
	return eris.Wrap(err, "sqlite: insert rating")
}

func (s *SQLiteStore) SaveAnswers(ctx context.Context, rec questionnaire.ExportRecord, filename string) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal answers")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO answers (session_id, schema_version, submitted_at, filename, record, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.SchemaVersion, rec.Timestamp.UTC(), filename, string(data), time.Now().UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return eris.Wrap(err, "sqlite: insert answers")
	}
	return nil
}

func (s *SQLiteStore) ListAnswers(ctx context.Context) ([]questionnaire.ExportRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM answers ORDER BY submitted_at, session_id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list answers")
	}
	defer rows.Close()

	var recs []questionnaire.ExportRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan answers")
		}
		var rec questionnaire.ExportRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal answers")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: iterate answers")
}

func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var last sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), MAX(created_at) FROM answers`).Scan(&st.Sessions, &last)
	if err != nil {
		return st, eris.Wrap(err, "sqlite: count answers")
	}
	if last.Valid {
		st.LastSaved = parseSQLiteTime(last.String)
	}

	m := &st.Means
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*),
		COALESCE(AVG(reading_comprehension), 0), COALESCE(AVG(reasoning), 0), COALESCE(AVG(knowledge_recall), 0),
		COALESCE(AVG(demographic_bias), 0), COALESCE(AVG(potential_harm), 0), COALESCE(AVG(time_spent), 0)
		FROM ratings`).Scan(&st.Ratings, &m[0], &m[1], &m[2], &m[3], &m[4], &st.MeanTimeSpent)
	if err != nil {
		return st, eris.Wrap(err, "sqlite: rating averages")
	}
	return st, nil
}

// parseSQLiteTime reads a DATETIME aggregate, which the driver returns
// as text.
func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05.999999999 -0700 MST", time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin reset")
	}
	defer tx.Rollback() //nolint:errcheck
	for _, table := range []string{"ratings", "answers"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return eris.Wrapf(err, "sqlite: clear %s", table)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit reset")
}
