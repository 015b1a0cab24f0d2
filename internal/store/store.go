// Package store persists submitted ratings and saved answer records for
// the questionnaire backend.
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/abhisek/medval/internal/questionnaire"
)

// ErrDuplicate is returned when answers for a session were already saved.
var ErrDuplicate = errors.New("store: answers for this session already saved")

// Store persists questionnaire submissions.
type Store interface {
	// SaveRating records one submitted rating.
	SaveRating(ctx context.Context, rec questionnaire.RatingRecord) error

	// SaveAnswers records a session's export. Filename is where the
	// backend wrote the answers file. A second save for the same session
	// returns ErrDuplicate.
	SaveAnswers(ctx context.Context, rec questionnaire.ExportRecord, filename string) error

	// ListAnswers returns saved exports, oldest first.
	ListAnswers(ctx context.Context) ([]questionnaire.ExportRecord, error)

	// Stats summarises everything stored.
	Stats(ctx context.Context) (Stats, error)

	// Reset deletes all stored submissions.
	Reset(ctx context.Context) error

	Migrate(ctx context.Context) error
	Close() error
}

// Stats summarises stored submissions.
type Stats struct {
	Sessions int
	Ratings  int
	// Means holds the average score per rating dimension, indexed by
	// questionnaire.Dimension. All zero when there are no ratings.
	Means         [questionnaire.NumDimensions]float64
	MeanTimeSpent float64
	LastSaved     time.Time
}

// Open opens the store for driver ("sqlite" or "postgres") and runs its
// migration. An empty SQLite DSN opens the file at DefaultDBPath.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case "sqlite":
		if dsn == "" {
			if dsn, err = DefaultDBPath(); err != nil {
				return nil, err
			}
		}
		if err := ensureDir(dsn); err != nil {
			return nil, eris.Wrap(err, "store: create database dir")
		}
		s, err = NewSQLite(dsn)
	case "postgres":
		s, err = NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// DefaultDBPath returns $XDG_DATA_HOME/medval/medval.db, falling back to
// ~/.local/share.
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", eris.Wrap(err, "store: resolve home dir")
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "medval", "medval.db"), nil
}

// ensureDir creates the parent directory of a file DSN.
func ensureDir(dsn string) error {
	if dsn == "" || dsn == ":memory:" || filepath.Dir(dsn) == "." {
		return nil
	}
	return os.MkdirAll(filepath.Dir(dsn), 0o755)
}

// ratingColumns is shared by both backends; dimension columns follow
// questionnaire.AllDimensions order.
const ratingColumns = `question_index, question, reading_comprehension, reasoning, knowledge_recall, demographic_bias, potential_harm, time_spent, comment`

func ratingArgs(id string, rec questionnaire.RatingRecord, at time.Time) []any {
	return []any{
		id, rec.QuestionIndex, rec.Question,
		rec.ReadingComprehension, rec.Reasoning, rec.KnowledgeRecall, rec.DemographicBias, rec.PotentialHarm,
		rec.TimeSpent, rec.Comment, at,
	}
}
