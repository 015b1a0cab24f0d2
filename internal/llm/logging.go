package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingProvider logs every request through the global zap logger.
type LoggingProvider struct {
	inner Provider
}

// WithLogging wraps p with request logging.
func WithLogging(p Provider) Provider {
	return &LoggingProvider{inner: p}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	fields := []zap.Field{
		zap.String("model", l.inner.ModelID()),
		zap.String("purpose", PurposeFrom(ctx)),
		zap.Duration("latency", time.Since(start)),
		zap.Int("messages", len(req.Messages)),
	}
	if subj := SubjectFrom(ctx); subj != "" {
		fields = append(fields, zap.String("subject", subj))
	}
	if req.Schema != nil {
		fields = append(fields, zap.String("schema", req.Schema.Name))
	}
	if resp != nil {
		fields = append(fields,
			zap.String("served_by", resp.Model),
			zap.Int("input_tokens", resp.Usage.InputTokens),
			zap.Int("output_tokens", resp.Usage.OutputTokens),
			zap.String("stop_reason", resp.StopReason),
		)
	}
	if err != nil {
		zap.L().Warn("llm: request failed", append(fields, zap.Error(err))...)
		return resp, err
	}
	zap.L().Info("llm: request", fields...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
