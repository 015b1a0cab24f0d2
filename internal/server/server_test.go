package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/medval/internal/content"
	"github.com/abhisek/medval/internal/export"
	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/store"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.AnswersDir == "" {
		opts.AnswersDir = filepath.Join(t.TempDir(), "answers")
	}
	s, err := New(context.Background(), content.NewDirSource("../content/testdata"), opts)
	require.NoError(t, err)
	return s
}

func openStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func record(id string) questionnaire.ExportRecord {
	return questionnaire.ExportRecord{
		SchemaVersion: questionnaire.ExportSchemaVersion,
		SessionID:     id,
		Timestamp:     time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		GeneralInfo:   []questionnaire.GeneralInfoEntry{{Question: "Age", Answer: "34"}},
		Closing:       map[string]questionnaire.ClosingRecord{},
	}
}

func TestQuestionEndpoints(t *testing.T) {
	s := newTestServer(t, Options{})

	tests := []struct {
		path string
		want int
	}{
		{"/general-info", 3},
		{"/step1-questions", 2},
		{"/step2-questions", 1},
		{"/conclusion", 3},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			qs := decode[[]questionnaire.Question](t, rec)
			assert.Len(t, qs, tt.want)
		})
	}
}

func TestQuestionEndpoints_MissingFileServesEmptyList(t *testing.T) {
	s, err := New(context.Background(), content.NewDirSource(t.TempDir()), Options{AnswersDir: t.TempDir()})
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/step2-questions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestInstructionsAndIntro(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(t, s, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Dear Clinician")

	rec = do(t, s, http.MethodGet, "/step1-intro", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msg := decode[map[string]string](t, rec)
	assert.NotEmpty(t, msg["message"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 9, body["questions"])
}

func TestEvaluationCriteria(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(t, s, http.MethodGet, "/evaluation-criteria", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	img := filepath.Join(t.TempDir(), "Criterion.jpg")
	require.NoError(t, os.WriteFile(img, []byte{0xff, 0xd8, 0xff, 0xe0}, 0o644))
	s = newTestServer(t, Options{CriteriaImage: img})
	rec = do(t, s, http.MethodGet, "/evaluation-criteria", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
}

func TestSubmitRating(t *testing.T) {
	st := openStore(t)
	s := newTestServer(t, Options{Store: st})

	rating := questionnaire.RatingRecord{
		QuestionIndex:        0,
		Question:             "What is the preferred first-line ART regimen?",
		ReadingComprehension: 4,
		Reasoning:            3,
		KnowledgeRecall:      5,
		DemographicBias:      5,
		PotentialHarm:        4,
		TimeSpent:            42,
	}
	rec := do(t, s, http.MethodPost, "/submit-rating", rating)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Message string                     `json:"message"`
		Data    questionnaire.RatingRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Rating submitted successfully", body.Message)
	assert.Equal(t, rating, body.Data)

	stats, err := st.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Ratings)
}

func TestSubmitRating_Rejects(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(t, s, http.MethodPost, "/submit-rating", questionnaire.RatingRecord{Reasoning: 9})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["detail"], "reasoning")

	req := httptest.NewRequest(http.MethodPost, "/submit-rating", strings.NewReader("{"))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveAnswers(t *testing.T) {
	st := openStore(t)
	dir := filepath.Join(t.TempDir(), "answers")
	s := newTestServer(t, Options{Store: st, AnswersDir: dir})

	rec := do(t, s, http.MethodPost, "/save-answers", record("session-1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "Answers saved successfully", body["message"])
	assert.Equal(t, filepath.Join(dir, "validation_answers_2025-03-01T10-30-00.000Z_session-1.json"), body["filename"])

	saved, err := export.ReadFile(body["filename"])
	require.NoError(t, err)
	assert.Equal(t, "session-1", saved.SessionID)

	list, err := st.ListAnswers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	again := record("session-1")
	again.Timestamp = again.Timestamp.Add(time.Minute)
	rec = do(t, s, http.MethodPost, "/save-answers", again)
	assert.Equal(t, http.StatusConflict, rec.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "duplicate session wrote a file")
}

func TestSaveAnswers_SameSecondKeepsBoth(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, Options{AnswersDir: dir})

	alice, bob := record("alice"), record("bob")
	alice.Timestamp = alice.Timestamp.Add(100 * time.Millisecond)
	bob.Timestamp = bob.Timestamp.Add(600 * time.Millisecond)
	for _, r := range []questionnaire.ExportRecord{alice, bob} {
		rec := do(t, s, http.MethodPost, "/save-answers", r)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	recs, err := export.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "alice", recs[0].SessionID)
	assert.Equal(t, "bob", recs[1].SessionID)

	rec := do(t, s, http.MethodPost, "/save-answers", alice)
	assert.Equal(t, http.StatusConflict, rec.Code, "resubmission replaced an answers file")
	got, err := export.ReadFile(export.Path(dir, alice))
	require.NoError(t, err)
	assert.Equal(t, "alice", got.SessionID)
}

func TestSaveAnswers_AssignsSessionAndTimestamp(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, Options{AnswersDir: dir})

	r := record("")
	r.Timestamp = time.Time{}
	rec := do(t, s, http.MethodPost, "/save-answers", r)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	saved, err := export.ReadFile(decode[map[string]string](t, rec)["filename"])
	require.NoError(t, err)
	assert.NotEmpty(t, saved.SessionID)
	assert.False(t, saved.Timestamp.IsZero())
}

func TestSaveAnswers_RejectsUnknownVersion(t *testing.T) {
	s := newTestServer(t, Options{})
	r := record("s")
	r.SchemaVersion = "v2.0.0"
	rec := do(t, s, http.MethodPost, "/save-answers", r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 2})

	rating := questionnaire.RatingRecord{}
	for i := 0; i < 2; i++ {
		rec := do(t, s, http.MethodPost, "/submit-rating", rating)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, s, http.MethodPost, "/submit-rating", rating)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// GETs are not limited.
	rec = do(t, s, http.MethodGet, "/general-info", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Options{})
	req := httptest.NewRequest(http.MethodOptions, "/save-answers", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := newTestServer(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}
