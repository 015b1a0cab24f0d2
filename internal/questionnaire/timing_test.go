package questionnaire

import (
	"testing"
	"time"
)

func TestTracker(t *testing.T) {
	clk := newFakeClock()
	tr := NewTracker(clk)

	if got := tr.Close(); got != 0 {
		t.Errorf("Close() without Open = %d, want 0", got)
	}

	tr.Open(SectionStep1Rating, 0)
	if !tr.IsOpen(SectionStep1Rating, 0) {
		t.Error("IsOpen(step1, 0) = false after Open")
	}
	if tr.IsOpen(SectionStep1Rating, 1) {
		t.Error("IsOpen(step1, 1) = true for another question")
	}

	clk.Advance(7*time.Second + 900*time.Millisecond)
	if got := tr.Close(); got != 7 {
		t.Errorf("Close() = %d, want 7", got)
	}
	if got := tr.Close(); got != 0 {
		t.Errorf("second Close() = %d, want 0", got)
	}
}

func TestTrackerReopenDiscardsInterval(t *testing.T) {
	clk := newFakeClock()
	tr := NewTracker(clk)

	tr.Open(SectionStep2QA, 0)
	clk.Advance(30 * time.Second)
	tr.Open(SectionStep2QA, 1)
	clk.Advance(4 * time.Second)

	if got := tr.Close(); got != 4 {
		t.Errorf("Close() = %d, want 4", got)
	}
}

func TestTrackerClockBackwards(t *testing.T) {
	clk := newFakeClock()
	tr := NewTracker(clk)

	tr.Open(SectionStep1Rating, 0)
	clk.Advance(-time.Minute)
	if got := tr.Close(); got != 0 {
		t.Errorf("Close() = %d, want 0", got)
	}
}
