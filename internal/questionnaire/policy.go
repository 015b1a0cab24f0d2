package questionnaire

import (
	"fmt"
	"strings"
)

// RatingPolicy decides when a Step1 rating may be submitted.
type RatingPolicy int

const (
	// RatingStrict requires every dimension to be explicitly set.
	RatingStrict RatingPolicy = iota
	// RatingLenient accepts unset dimensions at their default of 0.
	RatingLenient
)

func (p RatingPolicy) String() string {
	if p == RatingLenient {
		return "lenient"
	}
	return "strict"
}

// Satisfied reports whether r may be submitted under p.
func (p RatingPolicy) Satisfied(r Rating) bool {
	if p == RatingLenient {
		return true
	}
	return r.Complete()
}

// ParseRatingPolicy parses "strict" or "lenient". Empty means strict.
func ParseRatingPolicy(s string) (RatingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return RatingStrict, nil
	case "lenient":
		return RatingLenient, nil
	}
	return RatingStrict, fmt.Errorf("unknown rating policy %q", s)
}

// FollowUpPolicy decides when a closing follow-up answer is mandatory.
type FollowUpPolicy int

const (
	// FollowUpWhenNegative requires the follow-up when the question defines
	// one and the main answer is negative ("no" or "false").
	FollowUpWhenNegative FollowUpPolicy = iota
	// FollowUpOptional never requires the follow-up.
	FollowUpOptional
)

func (p FollowUpPolicy) String() string {
	if p == FollowUpOptional {
		return "optional"
	}
	return "when_negative"
}

// Required reports whether q needs a follow-up answer given main.
func (p FollowUpPolicy) Required(q Question, main string) bool {
	if p == FollowUpOptional || !q.HasFollowUp() {
		return false
	}
	return IsNegative(main)
}

// Triggered reports whether the follow-up prompt for q should be shown.
// Under FollowUpOptional the prompt shows whenever the answer is negative
// but may be left blank.
func (p FollowUpPolicy) Triggered(q Question, main string) bool {
	return q.HasFollowUp() && IsNegative(main)
}

// ParseFollowUpPolicy parses "when_negative" or "optional". Empty means
// when_negative.
func ParseFollowUpPolicy(s string) (FollowUpPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "when_negative", "negative":
		return FollowUpWhenNegative, nil
	case "optional":
		return FollowUpOptional, nil
	}
	return FollowUpWhenNegative, fmt.Errorf("unknown follow-up policy %q", s)
}

// IsNegative reports whether an answer reads as "no".
func IsNegative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "no", "false":
		return true
	}
	return false
}

// isScaleAnswer reports whether s is one of "1".."5".
func isScaleAnswer(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) == 1 && s[0] >= '1' && s[0] <= '5'
}

func isYesNoAnswer(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "no", "true", "false":
		return true
	}
	return false
}

// checkShape validates that answer fits kind. Only presence and shape are
// checked, never content.
func checkShape(kind QuestionKind, answer string) string {
	if strings.TrimSpace(answer) == "" {
		return "an answer is required"
	}
	switch kind {
	case KindScale:
		if !isScaleAnswer(answer) {
			return "answer must be a number from 1 to 5"
		}
	case KindYesNo:
		if !isYesNoAnswer(answer) {
			return "answer must be yes or no"
		}
	}
	return ""
}
