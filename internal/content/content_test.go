package content

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/medval/internal/questionnaire"
)

func TestParseJSON_MixedEntries(t *testing.T) {
	qs, err := ParseJSON([]byte(`["Age?", {"question": "Gender?", "options": ["F", "M"]}]`))
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "Age?", qs[0].Text)
	assert.Equal(t, []string{"F", "M"}, qs[1].Options)
}

func TestParseJSON_Rejects(t *testing.T) {
	tests := map[string]string{
		"not a list":       `{"question": "x"}`,
		"missing question": `[{"true_answer": "x"}]`,
		"empty question":   `[""]`,
		"bad kind":         `[{"question": "x", "type": "essay"}]`,
		"malformed":        `[`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestParseYAML(t *testing.T) {
	qs, err := ParseYAML([]byte("- Age?\n- question: Use it?\n  follow_up: Why not?\n  type: yes_no\n"))
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "Age?", qs[0].Text)
	assert.Equal(t, questionnaire.KindYesNo, qs[1].Kind)
	assert.True(t, qs[1].HasFollowUp())

	qs, err = ParseYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, qs)

	_, err = ParseYAML([]byte("- question: x\n  type: essay\n"))
	assert.Error(t, err)
}

func TestDirSource(t *testing.T) {
	src := NewDirSource("testdata")
	ctx := context.Background()

	gi, err := src.Questions(ctx, questionnaire.SectionGeneralInfo)
	require.NoError(t, err)
	require.Len(t, gi, 3)
	assert.Equal(t, questionnaire.KindScale, gi[2].Kind)

	step1, err := src.Questions(ctx, questionnaire.SectionStep1Rating)
	require.NoError(t, err)
	require.Len(t, step1, 2)
	assert.Equal(t, "TDF + 3TC + DTG", step1[0].Reference)

	intro, err := src.Step1Intro(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Now you are going to start with Step 1.", intro)

	text, err := src.Instructions(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultInstructions, text)

	_, err = src.Questions(ctx, questionnaire.SectionDone)
	assert.Error(t, err)
}

func TestDirSource_MissingFileIsEmpty(t *testing.T) {
	src := NewDirSource(t.TempDir())
	qs, err := src.Questions(context.Background(), questionnaire.SectionStep2QA)
	require.NoError(t, err)
	assert.NotNil(t, qs)
	assert.Empty(t, qs)

	intro, err := src.Step1Intro(context.Background())
	require.NoError(t, err)
	assert.Equal(t, questionnaire.DefaultStep1Intro, intro)
}

func TestDirSource_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conclusion.json"), []byte(`[42]`), 0o644))

	_, err := NewDirSource(dir).Questions(context.Background(), questionnaire.SectionClosing)
	assert.Error(t, err)
}

// backend serves the testdata directory the way the real backend does.
func backend(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var posts []string
	dir := NewDirSource("testdata")
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>welcome</html>")
	})
	mux.HandleFunc("GET /step1-intro", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "Step 1 begins."})
	})
	for _, s := range Sections {
		mux.HandleFunc("GET "+Path(s), func(w http.ResponseWriter, r *http.Request) {
			qs, _ := dir.Questions(r.Context(), s)
			json.NewEncoder(w).Encode(qs)
		})
	}
	mux.HandleFunc("POST /submit-rating", func(w http.ResponseWriter, r *http.Request) {
		posts = append(posts, r.URL.Path)
		io.WriteString(w, `{"message":"Rating submitted successfully"}`)
	})
	mux.HandleFunc("POST /save-answers", func(w http.ResponseWriter, r *http.Request) {
		posts = append(posts, r.URL.Path)
		io.WriteString(w, `{"message":"Answers saved successfully","filename":"answers/validation_answers_x.json"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &posts
}

func TestClient_LoadAll(t *testing.T) {
	srv, _ := backend(t)

	c, err := LoadAll(context.Background(), NewClient(srv.URL+"/", time.Second))
	require.NoError(t, err)

	assert.Equal(t, "<html>welcome</html>", c.Instructions)
	assert.Equal(t, "Step 1 begins.", c.Step1Intro)
	assert.Len(t, c.GeneralInfo, 3)
	assert.Len(t, c.Step1, 2)
	assert.Len(t, c.Step2, 1)
	assert.Len(t, c.Closing, 3)
	assert.Equal(t, 9, c.Total())
}

func TestClient_PostsRecords(t *testing.T) {
	srv, posts := backend(t)
	client := NewClient(srv.URL, time.Second)

	require.NoError(t, client.SubmitRating(context.Background(), questionnaire.RatingRecord{Question: "q"}))
	res, err := client.SaveAnswers(context.Background(), questionnaire.ExportRecord{})
	require.NoError(t, err)

	assert.Equal(t, "answers/validation_answers_x.json", res.Filename)
	assert.Equal(t, []string{"/submit-rating", "/save-answers"}, *posts)
}

func TestClient_HTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Questions(context.Background(), questionnaire.SectionStep1Rating)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 500")
}

// failing fails every question fetch.
type failing struct{ *DirSource }

func (failing) Questions(context.Context, questionnaire.Section) ([]questionnaire.Question, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestLoadAll_FailuresLeaveSectionsEmpty(t *testing.T) {
	c, err := LoadAll(context.Background(), failing{NewDirSource("testdata")})
	require.NoError(t, err)
	assert.Zero(t, c.Total())
	assert.Equal(t, DefaultInstructions, c.Instructions)
}

func TestLoadAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadAll(ctx, NewDirSource("testdata"))
	assert.ErrorIs(t, err, context.Canceled)
}
