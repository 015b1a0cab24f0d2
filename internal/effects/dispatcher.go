// Package effects performs the I/O side effects returned by the
// questionnaire controller. Every effect runs in its own goroutine;
// failures are logged and never reach the controller.
package effects

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/abhisek/medval/internal/content"
	"github.com/abhisek/medval/internal/export"
	"github.com/abhisek/medval/internal/questionnaire"
)

// RatingSubmitter receives each finalized rating.
type RatingSubmitter interface {
	SubmitRating(ctx context.Context, rec questionnaire.RatingRecord) error
}

// AnswerSaver receives the final export record.
type AnswerSaver interface {
	SaveAnswers(ctx context.Context, rec questionnaire.ExportRecord) (content.SaveResult, error)
}

// Options configures a Dispatcher. Nil collaborators and an empty
// ExportDir disable the corresponding effect.
type Options struct {
	Ratings   RatingSubmitter
	Saver     AnswerSaver
	ExportDir string
	// Timeout bounds each effect. Zero means 30 seconds.
	Timeout time.Duration
}

// Kind names the effect a Result belongs to.
type Kind string

const (
	KindSubmitRating Kind = "submit_rating"
	KindSaveAnswers  Kind = "save_answers"
	KindWriteFile    Kind = "write_file"
)

// Result is the outcome of one dispatched effect. Location is the remote
// file name or local path of saved answers.
type Result struct {
	Kind     Kind
	Location string
	Err      error
}

// Dispatcher runs effects asynchronously.
type Dispatcher struct {
	opts Options
	ctx  context.Context

	wg      sync.WaitGroup
	mu      sync.Mutex
	results []Result
}

// New creates a Dispatcher. Effects run under ctx, so cancelling it
// aborts those in flight.
func New(ctx context.Context, opts Options) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Dispatcher{opts: opts, ctx: ctx}
}

// Dispatch starts the I/O effects among effs and returns immediately.
// Effects meant for the renderer are ignored.
func (d *Dispatcher) Dispatch(effs []questionnaire.Effect) {
	for _, e := range effs {
		switch e := e.(type) {
		case questionnaire.RatingSubmission:
			if d.opts.Ratings == nil {
				continue
			}
			d.run(KindSubmitRating, func(ctx context.Context) (string, error) {
				return "", d.opts.Ratings.SubmitRating(ctx, e.Record)
			})
		case questionnaire.SaveAnswers:
			if d.opts.Saver == nil {
				continue
			}
			d.run(KindSaveAnswers, func(ctx context.Context) (string, error) {
				res, err := d.opts.Saver.SaveAnswers(ctx, e.Record)
				return res.Filename, err
			})
		case questionnaire.WriteExportFile:
			if d.opts.ExportDir == "" {
				continue
			}
			d.run(KindWriteFile, func(context.Context) (string, error) {
				return export.WriteFile(d.opts.ExportDir, e.Record)
			})
		}
	}
}

func (d *Dispatcher) run(kind Kind, fn func(context.Context) (string, error)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(d.ctx, d.opts.Timeout)
		defer cancel()

		start := time.Now()
		loc, err := fn(ctx)
		if err != nil {
			err = eris.Wrapf(err, "effects: %s", kind)
			zap.L().Error("effect failed",
				zap.String("effect", string(kind)),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
		} else {
			zap.L().Debug("effect done",
				zap.String("effect", string(kind)),
				zap.String("location", loc),
				zap.Duration("elapsed", time.Since(start)),
			)
		}

		d.mu.Lock()
		d.results = append(d.results, Result{Kind: kind, Location: loc, Err: err})
		d.mu.Unlock()
	}()
}

// Wait blocks until every dispatched effect has finished and returns all
// results so far in completion order.
func (d *Dispatcher) Wait() []Result {
	d.wg.Wait()
	return d.Results()
}

// Results returns the results of the effects finished so far.
func (d *Dispatcher) Results() []Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Result, len(d.results))
	copy(out, d.results)
	return out
}
