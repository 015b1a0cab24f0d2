package questionnaire

// QuestionKind constrains the shape of an answer.
type QuestionKind string

const (
	KindText  QuestionKind = "text"
	KindScale QuestionKind = "scale"  // "1".."5"
	KindYesNo QuestionKind = "yes_no" // yes/no/true/false
)

// Question is immutable content loaded once at startup.
// Field names on the wire follow the backend's question files.
type Question struct {
	Text      string       `json:"question" yaml:"question"`
	Reference string       `json:"true_answer,omitempty" yaml:"true_answer,omitempty"`
	AIAnswer  string       `json:"ai_answer,omitempty" yaml:"ai_answer,omitempty"`
	FollowUp  string       `json:"follow_up,omitempty" yaml:"follow_up,omitempty"`
	Kind      QuestionKind `json:"type,omitempty" yaml:"type,omitempty"`
	Options   []string     `json:"options,omitempty" yaml:"options,omitempty"`
}

// HasFollowUp reports whether the question defines a follow-up prompt.
func (q Question) HasFollowUp() bool {
	return q.FollowUp != ""
}

// Default intermediate-screen messages, used when the content source
// provides none.
const (
	DefaultStep1Intro   = "Now you are going to start with Step 1: Validation of MedGPT."
	DefaultStep2Intro   = "Now you are going to start with Step 2: HIV clinical Q&A. Answer each question as you would in a real consultation, then compare your answer with MedGPT's."
	DefaultClosingIntro = "Almost done. A few closing questions about your experience."
)

// Content is everything the questionnaire displays. An empty question set
// means the content for that section failed to load.
type Content struct {
	Instructions string
	Step1Intro   string

	GeneralInfo []Question
	Step1       []Question
	Step2       []Question
	Closing     []Question
}

// Questions returns the question set for s, or nil for sections without one.
func (c *Content) Questions(s Section) []Question {
	switch s {
	case SectionGeneralInfo:
		return c.GeneralInfo
	case SectionStep1Rating:
		return c.Step1
	case SectionStep2QA:
		return c.Step2
	case SectionClosing:
		return c.Closing
	}
	return nil
}

// Total is the number of answerable questions across all sections.
func (c *Content) Total() int {
	return len(c.GeneralInfo) + len(c.Step1) + len(c.Step2) + len(c.Closing)
}

// IntroFor returns the message shown on the transition screen into s.
func (c *Content) IntroFor(s Section) string {
	switch s {
	case SectionStep1Rating:
		if c.Step1Intro != "" {
			return c.Step1Intro
		}
		return DefaultStep1Intro
	case SectionStep2QA:
		return DefaultStep2Intro
	case SectionClosing:
		return DefaultClosingIntro
	}
	return ""
}
