package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/medval/internal/export"
	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/store"
)

const maxBody = 1 << 20

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	var rec questionnaire.RatingRecord
	if err := decodeBody(w, r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := checkRating(rec); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if s.opts.Store != nil {
		if err := s.opts.Store.SaveRating(r.Context(), rec); err != nil {
			zap.L().Error("server: save rating", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not store rating")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Rating submitted successfully",
		"data":    rec,
	})
}

func checkRating(rec questionnaire.RatingRecord) string {
	if rec.QuestionIndex < 0 {
		return "question_index must not be negative"
	}
	for _, d := range questionnaire.AllDimensions() {
		if v := rec.Score(d); v < questionnaire.MinScore || v > questionnaire.MaxScore {
			return fmt.Sprintf("%s must be between %d and %d", d, questionnaire.MinScore, questionnaire.MaxScore)
		}
	}
	if rec.TimeSpent < 0 {
		return "time_spent must not be negative"
	}
	return ""
}

func (s *Server) handleSaveAnswers(w http.ResponseWriter, r *http.Request) {
	var rec questionnaire.ExportRecord
	if err := decodeBody(w, r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := export.CheckVersion(rec.SchemaVersion); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rec.SessionID == "" {
		rec.SessionID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	// The store claims the session before anything reaches disk so a
	// duplicate never touches an existing file.
	path := export.Path(s.opts.AnswersDir, rec)
	if s.opts.Store != nil {
		err := s.opts.Store.SaveAnswers(r.Context(), rec, path)
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		if err != nil {
			zap.L().Error("server: save answers", zap.String("session_id", rec.SessionID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not store answers")
			return
		}
	}

	if _, err := export.WriteFile(s.opts.AnswersDir, rec); err != nil {
		if errors.Is(err, export.ErrExists) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		zap.L().Error("server: write answers file", zap.String("session_id", rec.SessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	zap.L().Info("server: answers saved",
		zap.String("session_id", rec.SessionID),
		zap.String("file", path),
	)
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Answers saved successfully",
		"filename": path,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}
