package questionnaire

import "math"

// Progress returns the completion percentage in [0, 100]. It counts
// answers, not positions: stored general-info answers, fully set or
// submitted ratings, Step2 answers with a revised confidence, and
// finalized closing answers. Only Done reports exactly 100.
func Progress(s State, c *Content, a *Answers) float64 {
	if s.Section == SectionDone {
		return 100
	}
	total := c.Total()
	if total == 0 {
		return 0
	}
	p := 100 * float64(completed(a)) / float64(total)
	if p >= 100 {
		return math.Nextafter(100, 0)
	}
	return p
}

func completed(a *Answers) int {
	n := len(a.GeneralInfo)
	for _, r := range a.Ratings {
		if r != nil && (r.Complete() || r.submitted) {
			n++
		}
	}
	for _, s := range a.Step2 {
		if s != nil && s.RevisedConfidence != nil {
			n++
		}
	}
	for _, cl := range a.Closing {
		if cl != nil && cl.finalized {
			n++
		}
	}
	return n
}

// Progress returns the controller's completion percentage.
func (c *Controller) Progress() float64 {
	return Progress(c.state, c.content, c.answers)
}
