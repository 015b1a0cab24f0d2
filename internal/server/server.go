// Package server is the questionnaire backend: it serves question content
// and collects submitted ratings and answers.
package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/abhisek/medval/internal/content"
	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/store"
)

// Options configures a Server.
type Options struct {
	// AnswersDir receives one answers file per saved session.
	AnswersDir string
	// CriteriaImage is served at /evaluation-criteria when set.
	CriteriaImage string
	// Store, when set, also records ratings and answers.
	Store store.Store
	// RateLimit and RateBurst bound POST requests per client address.
	RateLimit float64
	RateBurst int
}

// Server serves a fixed content snapshot.
type Server struct {
	opts    Options
	content *questionnaire.Content
	limiter *clientLimiter
	router  chi.Router
}

// New loads content from src once and builds the router.
func New(ctx context.Context, src content.Source, opts Options) (*Server, error) {
	c, err := content.LoadAll(ctx, src)
	if err != nil {
		return nil, eris.Wrap(err, "server: load content")
	}
	if opts.AnswersDir == "" {
		opts.AnswersDir = "answers"
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 20
	}

	s := &Server{
		opts:    opts,
		content: c,
		limiter: newClientLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/", s.handleInstructions)
	r.Get("/health", s.handleHealth)
	r.Get("/favicon.ico", s.handleFavicon)
	r.Get("/general-info", s.handleQuestions(questionnaire.SectionGeneralInfo))
	r.Get("/step1-intro", s.handleStep1Intro)
	r.Get("/step1-questions", s.handleQuestions(questionnaire.SectionStep1Rating))
	r.Get("/step2-questions", s.handleQuestions(questionnaire.SectionStep2QA))
	r.Get("/conclusion", s.handleQuestions(questionnaire.SectionClosing))
	r.Get("/evaluation-criteria", s.handleCriteria)

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.middleware)
		r.Post("/submit-rating", s.handleSubmitRating)
		r.Post("/save-answers", s.handleSaveAnswers)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server: listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return eris.Wrap(err, "server: listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	zap.L().Info("server: shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

func (s *Server) handleInstructions(w http.ResponseWriter, _ *http.Request) {
	body := s.content.Instructions
	if body == "" || body == content.DefaultInstructions {
		body = fmt.Sprintf("<html>\n  <body>\n    <h2>Welcome to the MedGPT Validation Questionnaire API</h2>\n    <pre>%s</pre>\n  </body>\n</html>\n",
			html.EscapeString(content.DefaultInstructions))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"questions": s.content.Total(),
	})
}

func (s *Server) handleFavicon(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "No favicon available"})
}

func (s *Server) handleStep1Intro(w http.ResponseWriter, _ *http.Request) {
	msg := s.content.Step1Intro
	if msg == "" {
		msg = questionnaire.DefaultStep1Intro
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (s *Server) handleQuestions(sec questionnaire.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		qs := s.content.Questions(sec)
		if qs == nil {
			qs = []questionnaire.Question{}
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

func (s *Server) handleCriteria(w http.ResponseWriter, r *http.Request) {
	if s.opts.CriteriaImage == "" {
		writeError(w, http.StatusNotFound, "evaluation criteria not configured")
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="evaluation_criteria.jpg"`)
	http.ServeFile(w, r, s.opts.CriteriaImage)
}
