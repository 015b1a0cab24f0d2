package llm

import (
	"errors"
	"net/http"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusTooManyRequests, "*llm.ErrRateLimit"},
		{http.StatusUnauthorized, "*llm.ErrRequestRejected"},
		{http.StatusNotFound, "*llm.ErrRequestRejected"},
		{http.StatusInternalServerError, "*llm.ErrProviderUnavailable"},
		{http.StatusServiceUnavailable, "*llm.ErrProviderUnavailable"},
		{0, "*llm.ErrProviderUnavailable"},
	}
	for _, tt := range tests {
		err := classifyStatus(tt.status, cause)
		if got := typeName(err); got != tt.want {
			t.Errorf("classifyStatus(%d) = %s, want %s", tt.status, got, tt.want)
		}
		if !errors.Is(err, cause) {
			t.Errorf("classifyStatus(%d) does not wrap the cause", tt.status)
		}
	}
}

func typeName(err error) string {
	switch err.(type) {
	case *ErrRateLimit:
		return "*llm.ErrRateLimit"
	case *ErrRequestRejected:
		return "*llm.ErrRequestRejected"
	case *ErrProviderUnavailable:
		return "*llm.ErrProviderUnavailable"
	}
	return "other"
}

func TestErrorMessages(t *testing.T) {
	rej := &ErrRequestRejected{Status: http.StatusUnauthorized, Err: errors.New("bad key")}
	if got, want := rej.Error(), "llm: request rejected (401 Unauthorized): bad key"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := (&ErrProviderUnavailable{}).Error(); got != "llm: provider unavailable" {
		t.Errorf("Error() = %q", got)
	}
}
