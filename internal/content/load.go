package content

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/medval/internal/questionnaire"
)

// LoadAll fetches every piece of content concurrently. A failed fetch is
// logged and leaves that part empty (or at its default text); only a
// cancelled ctx is returned as an error.
func LoadAll(ctx context.Context, src Source) (*questionnaire.Content, error) {
	c := &questionnaire.Content{}
	sets := make([][]questionnaire.Question, len(Sections))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		text, err := src.Instructions(gctx)
		if err != nil {
			zap.L().Warn("content: load instructions", zap.Error(err))
			text = DefaultInstructions
		}
		c.Instructions = text
		return nil
	})
	g.Go(func() error {
		text, err := src.Step1Intro(gctx)
		if err != nil {
			zap.L().Warn("content: load step1 intro", zap.Error(err))
		}
		c.Step1Intro = text
		return nil
	})
	for i, s := range Sections {
		g.Go(func() error {
			qs, err := src.Questions(gctx, s)
			if err != nil {
				zap.L().Warn("content: load questions", zap.Stringer("section", s), zap.Error(err))
				return nil
			}
			sets[i] = qs
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.GeneralInfo, c.Step1, c.Step2, c.Closing = sets[0], sets[1], sets[2], sets[3]

	zap.L().Info("content: loaded",
		zap.Int("general_info", len(c.GeneralInfo)),
		zap.Int("step1", len(c.Step1)),
		zap.Int("step2", len(c.Step2)),
		zap.Int("closing", len(c.Closing)),
	)
	return c, nil
}
