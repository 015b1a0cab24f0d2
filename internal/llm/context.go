package llm

import "context"

// label tags the LLM calls made under a context for the logs.
type label struct {
	purpose string
	subject string
}

type labelKey struct{}

// WithPurpose sets why calls under ctx are made, e.g. "ai-answer". Any
// subject already set is kept.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	l := labelFrom(ctx)
	l.purpose = purpose
	return context.WithValue(ctx, labelKey{}, l)
}

// WithSubject sets what calls under ctx are about, e.g. the question
// being answered. Long subjects are shortened.
func WithSubject(ctx context.Context, subject string) context.Context {
	if r := []rune(subject); len(r) > 60 {
		subject = string(r[:57]) + "..."
	}
	l := labelFrom(ctx)
	l.subject = subject
	return context.WithValue(ctx, labelKey{}, l)
}

// PurposeFrom returns the purpose set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p := labelFrom(ctx).purpose; p != "" {
		return p
	}
	return "unknown"
}

// SubjectFrom returns the subject set by WithSubject, if any.
func SubjectFrom(ctx context.Context) string { return labelFrom(ctx).subject }

func labelFrom(ctx context.Context) label {
	l, _ := ctx.Value(labelKey{}).(label)
	return l
}
