package questionnaire

import "fmt"

// Score bounds shared by rating dimensions and confidence values.
const (
	MinScore = 0
	MaxScore = 5
)

// Dimension is one axis of a Step1 rating.
type Dimension int

const (
	DimReadingComprehension Dimension = iota
	DimReasoning
	DimKnowledgeRecall
	DimDemographicBias
	DimPotentialHarm
)

// NumDimensions is the number of rating dimensions.
const NumDimensions = 5

var dimensionNames = [NumDimensions]string{
	"reading_comprehension",
	"reasoning",
	"knowledge_recall",
	"demographic_bias",
	"potential_harm",
}

// dimensionLabels are the human-readable names shown to respondents.
var dimensionLabels = [NumDimensions]string{
	"Reading comprehension",
	"Reasoning",
	"Knowledge recall",
	"Demographic bias",
	"Potential harm",
}

// AllDimensions lists the dimensions in display order.
func AllDimensions() []Dimension {
	return []Dimension{
		DimReadingComprehension,
		DimReasoning,
		DimKnowledgeRecall,
		DimDemographicBias,
		DimPotentialHarm,
	}
}

func (d Dimension) String() string {
	if !d.Valid() {
		return fmt.Sprintf("dimension(%d)", int(d))
	}
	return dimensionNames[d]
}

// Label returns the display name of the dimension.
func (d Dimension) Label() string {
	if !d.Valid() {
		return d.String()
	}
	return dimensionLabels[d]
}

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool {
	return d >= 0 && d < NumDimensions
}

func validScore(v int) bool {
	return v >= MinScore && v <= MaxScore
}

// Rating is the in-progress or finalized evaluation of one Step1 question.
type Rating struct {
	Scores    [NumDimensions]int
	Comment   string
	TimeSpent *int

	set       [NumDimensions]bool
	submitted bool
}

// Score returns the value of dimension d.
func (r *Rating) Score(d Dimension) int {
	return r.Scores[d]
}

// IsSet reports whether dimension d was explicitly set.
func (r *Rating) IsSet(d Dimension) bool {
	return r.set[d]
}

// Complete reports whether every dimension was explicitly set.
func (r *Rating) Complete() bool {
	for _, ok := range r.set {
		if !ok {
			return false
		}
	}
	return true
}

// Submitted reports whether the rating was finalized by a submit.
func (r *Rating) Submitted() bool {
	return r.submitted
}

// Step2Answer is the respondent's free answer to one Step2 question.
type Step2Answer struct {
	Answer            string
	Confidence        *int
	RevisedAnswer     *string
	RevisedConfidence *int
	TimeSpent         *int
}

// ClosingAnswer is the answer to one closing question together with its
// optional follow-up.
type ClosingAnswer struct {
	Main     string
	FollowUp *string

	finalized bool
}

// Answers holds everything the respondent has entered. Slices are
// index-aligned with the question sets; nil entries are untouched questions.
type Answers struct {
	GeneralInfo []string
	Ratings     []*Rating
	Step2       []*Step2Answer
	Closing     []*ClosingAnswer
}

// NewAnswers sizes the collections for the given content.
func NewAnswers(c *Content) *Answers {
	return &Answers{
		GeneralInfo: make([]string, 0, len(c.GeneralInfo)),
		Ratings:     make([]*Rating, len(c.Step1)),
		Step2:       make([]*Step2Answer, len(c.Step2)),
		Closing:     make([]*ClosingAnswer, len(c.Closing)),
	}
}

// rating returns the rating at i, creating a zero record on first touch.
func (a *Answers) rating(i int) *Rating {
	if a.Ratings[i] == nil {
		a.Ratings[i] = &Rating{}
	}
	return a.Ratings[i]
}

func (a *Answers) step2(i int) *Step2Answer {
	if a.Step2[i] == nil {
		a.Step2[i] = &Step2Answer{}
	}
	return a.Step2[i]
}

func (a *Answers) closing(i int) *ClosingAnswer {
	if a.Closing[i] == nil {
		a.Closing[i] = &ClosingAnswer{}
	}
	return a.Closing[i]
}

// peekRating returns the rating at i without creating it.
func (a *Answers) peekRating(i int) Rating {
	if i < 0 || i >= len(a.Ratings) || a.Ratings[i] == nil {
		return Rating{}
	}
	return *a.Ratings[i]
}

func (a *Answers) peekStep2(i int) Step2Answer {
	if i < 0 || i >= len(a.Step2) || a.Step2[i] == nil {
		return Step2Answer{}
	}
	return *a.Step2[i]
}

func (a *Answers) peekClosing(i int) ClosingAnswer {
	if i < 0 || i >= len(a.Closing) || a.Closing[i] == nil {
		return ClosingAnswer{}
	}
	return *a.Closing[i]
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }
