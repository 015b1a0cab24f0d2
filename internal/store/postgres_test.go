package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/medval/internal/questionnaire"
)

func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return &PostgresStore{pool: mock}, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS ratings`).WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRating(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	rec := rating(2, [5]int{5, 4, 3, 2, 1}, 42)

	mock.ExpectExec(`INSERT INTO ratings`).
		WithArgs(pgxmock.AnyArg(), 2, rec.Question, 5, 4, 3, 2, 1, 42, "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SaveRating(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveAnswers_Duplicate(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	rec := answers("s-1", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	mock.ExpectExec(`INSERT INTO answers .* ON CONFLICT \(session_id\) DO NOTHING`).
		WithArgs("s-1", questionnaire.ExportSchemaVersion, rec.Timestamp, "a.json", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO answers`).
		WithArgs("s-1", questionnaire.ExportSchemaVersion, rec.Timestamp, "a.json", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, s.SaveAnswers(context.Background(), rec, "a.json"))
	assert.ErrorIs(t, s.SaveAnswers(context.Background(), rec, "a.json"), ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAnswers(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	rec := answers("s-1", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT record FROM answers ORDER BY submitted_at`).
		WillReturnRows(pgxmock.NewRows([]string{"record"}).AddRow(data))

	recs, err := s.ListAnswers(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec, recs[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Stats(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	last := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\), MAX\(created_at\) FROM answers`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "max"}).AddRow(3, &last))
	mock.ExpectQuery(`FROM ratings`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "rc", "re", "kr", "db", "ph", "ts"}).
			AddRow(12, 4.5, 4.0, 3.5, 0.5, 1.0, 61.25))

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Sessions)
	assert.Equal(t, 12, st.Ratings)
	assert.Equal(t, 4.5, st.Means[questionnaire.DimReadingComprehension])
	assert.Equal(t, 0.5, st.Means[questionnaire.DimDemographicBias])
	assert.Equal(t, 61.25, st.MeanTimeSpent)
	assert.Equal(t, last, st.LastSaved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Reset(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`TRUNCATE ratings, answers`).WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	mock.ExpectCommit()

	require.NoError(t, s.Reset(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
