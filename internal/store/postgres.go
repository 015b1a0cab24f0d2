package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/abhisek/medval/internal/questionnaire"
)

// Pool is the subset of *pgxpool.Pool the store uses. pgxmock pools
// satisfy it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects to connString.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS ratings (
	id                    TEXT PRIMARY KEY,
	question_index        INTEGER NOT NULL,
	question              TEXT NOT NULL,
	reading_comprehension SMALLINT NOT NULL,
	reasoning             SMALLINT NOT NULL,
	knowledge_recall      SMALLINT NOT NULL,
	demographic_bias      SMALLINT NOT NULL,
	potential_harm        SMALLINT NOT NULL,
	time_spent            INTEGER NOT NULL,
	comment               TEXT NOT NULL DEFAULT '',
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS answers (
	session_id     TEXT PRIMARY KEY,
	schema_version TEXT NOT NULL,
	submitted_at   TIMESTAMPTZ NOT NULL,
	filename       TEXT NOT NULL,
	record         JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_ratings_question_index ON ratings(question_index);
CREATE INDEX IF NOT EXISTS idx_answers_submitted_at ON answers(submitted_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveRating(ctx context.Context, rec questionnaire.RatingRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ratings (id, `+ratingColumns+`, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		ratingArgs(uuid.NewString(), rec, time.Now().UTC())...,
	)
	return eris.Wrap(err, "postgres: insert rating")
}

func (s *PostgresStore) SaveAnswers(ctx context.Context, rec questionnaire.ExportRecord, filename string) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal answers")
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO answers (session_id, schema_version, submitted_at, filename, record) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (session_id) DO NOTHING`,
		rec.SessionID, rec.SchemaVersion, rec.Timestamp.UTC(), filename, data,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert answers")
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

func (s *PostgresStore) ListAnswers(ctx context.Context) ([]questionnaire.ExportRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT record FROM answers ORDER BY submitted_at, session_id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list answers")
	}
	defer rows.Close()

	var recs []questionnaire.ExportRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan answers")
		}
		var rec questionnaire.ExportRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal answers")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: iterate answers")
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var last *time.Time
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*), MAX(created_at) FROM answers`).Scan(&st.Sessions, &last)
	if err != nil {
		return st, eris.Wrap(err, "postgres: count answers")
	}
	if last != nil {
		st.LastSaved = last.UTC()
	}

	m := &st.Means
	err = s.pool.QueryRow(ctx, `SELECT COUNT(*),
		COALESCE(AVG(reading_comprehension), 0)::float8, COALESCE(AVG(reasoning), 0)::float8, COALESCE(AVG(knowledge_recall), 0)::float8,
		COALESCE(AVG(demographic_bias), 0)::float8, COALESCE(AVG(potential_harm), 0)::float8, COALESCE(AVG(time_spent), 0)::float8
		FROM ratings`).Scan(&st.Ratings, &m[0], &m[1], &m[2], &m[3], &m[4], &st.MeanTimeSpent)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return st, eris.Wrap(err, "postgres: rating averages")
	}
	return st, nil
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin reset")
	}
	defer tx.Rollback(ctx) //nolint:errcheck
	if _, err := tx.Exec(ctx, `TRUNCATE ratings, answers`); err != nil {
		return eris.Wrap(err, "postgres: truncate")
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit reset")
}
