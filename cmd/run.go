package cmd

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/medval/internal/app"
	"github.com/abhisek/medval/internal/content"
	"github.com/abhisek/medval/internal/effects"
	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/session"
)

// runApp loads the questionnaire content, builds the controller and
// launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if err := cfg.Validate("run"); err != nil {
		return err
	}
	opts, err := cfg.Questionnaire.Options()
	if err != nil {
		return err
	}

	dopts := effects.Options{ExportDir: cfg.Export.Dir}

	var src content.Source
	if cfg.Content.BaseURL != "" {
		client := content.NewClient(cfg.Content.BaseURL, time.Duration(cfg.Content.TimeoutSecs)*time.Second)
		src = client
		dopts.Ratings = client
		dopts.Saver = client
	} else {
		src = content.NewDirSource(cfg.Content.Dir)
	}

	c, err := content.LoadAll(ctx, src)
	if err != nil {
		return eris.Wrap(err, "load content")
	}

	disp := effects.New(ctx, dopts)
	sess := session.New(questionnaire.New(c, opts), disp)

	runErr := app.Run(ctx, sess)

	// Answers may still be in flight when the respondent quits. The
	// dispatcher has already logged each failure.
	results := disp.Wait()
	if n := failedEffects(results); n > 0 {
		zap.L().Warn("some answers were not saved", zap.Int("failed", n), zap.Int("total", len(results)))
	}
	return runErr
}

func failedEffects(results []effects.Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
