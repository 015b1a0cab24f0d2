package questionnaire

// Section is a top-level stage of the questionnaire.
type Section int

const (
	SectionIntro       Section = iota // Instructions screen
	SectionGeneralInfo                // Respondent background questions
	SectionStep1Rating                // Five-dimension rating of AI answers
	SectionStep2QA                    // Free answer, then comparison with the AI answer
	SectionClosing                    // Closing questions
	SectionDone                       // Terminal; only export is accepted
)

var sectionNames = [...]string{
	SectionIntro:       "intro",
	SectionGeneralInfo: "general_info",
	SectionStep1Rating: "step1_rating",
	SectionStep2QA:     "step2_qa",
	SectionClosing:     "closing",
	SectionDone:        "done",
}

func (s Section) String() string {
	if s < SectionIntro || s > SectionDone {
		return "unknown"
	}
	return sectionNames[s]
}

// Next returns the section that follows s. Done is its own successor.
func (s Section) Next() Section {
	if s >= SectionDone {
		return SectionDone
	}
	return s + 1
}

// Timed reports whether questions in s carry a measured time spent.
func (s Section) Timed() bool {
	return s == SectionStep1Rating || s == SectionStep2QA
}

// Answerable reports whether s holds questions that count toward progress.
func (s Section) Answerable() bool {
	return s >= SectionGeneralInfo && s <= SectionClosing
}

// Phase is the sub-state of a Step2QA question.
type Phase int

const (
	PhaseNone       Phase = iota // Sections without phases
	PhaseInitial                 // Respondent writes an answer and a confidence
	PhaseComparison              // AI answer revealed; respondent may revise
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseComparison:
		return "comparison"
	default:
		return "none"
	}
}
