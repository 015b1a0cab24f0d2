package questionnaire

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExportSchemaVersion is the semantic version of the ExportRecord layout.
// Consumers reject records whose major version differs.
const ExportSchemaVersion = "v1.0.0"

// ExportRecord is everything a respondent entered, paired with the
// questions it answers. Its JSON form is the file and upload format.
type ExportRecord struct {
	SchemaVersion string                   `json:"schema_version"`
	SessionID     string                   `json:"session_id"`
	Timestamp     time.Time                `json:"timestamp"`
	GeneralInfo   []GeneralInfoEntry       `json:"general_info"`
	Step1         []Step1Entry             `json:"step1"`
	Step2         []Step2Entry             `json:"step2"`
	Closing       map[string]ClosingRecord `json:"closing"`
	// ClosingOrder lists the Closing keys in question order.
	ClosingOrder []string `json:"closing_order"`
}

type GeneralInfoEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Step1Entry struct {
	Question Question     `json:"question"`
	Rating   RatingRecord `json:"rating"`
}

type Step2Entry struct {
	Question Question    `json:"question"`
	Answer   Step2Record `json:"answer"`
}

// RatingRecord is a finalized rating. It is also the body of a rating
// submission.
type RatingRecord struct {
	QuestionIndex        int    `json:"question_index"`
	Question             string `json:"question"`
	ReadingComprehension int    `json:"reading_comprehension"`
	Reasoning            int    `json:"reasoning"`
	KnowledgeRecall      int    `json:"knowledge_recall"`
	DemographicBias      int    `json:"demographic_bias"`
	PotentialHarm        int    `json:"potential_harm"`
	TimeSpent            int    `json:"time_spent"`
	Comment              string `json:"comment,omitempty"`
}

// Score returns the value recorded for d.
func (r RatingRecord) Score(d Dimension) int {
	switch d {
	case DimReadingComprehension:
		return r.ReadingComprehension
	case DimReasoning:
		return r.Reasoning
	case DimKnowledgeRecall:
		return r.KnowledgeRecall
	case DimDemographicBias:
		return r.DemographicBias
	case DimPotentialHarm:
		return r.PotentialHarm
	}
	return 0
}

type Step2Record struct {
	Answer            string  `json:"answer"`
	Confidence        *int    `json:"confidence,omitempty"`
	RevisedAnswer     *string `json:"revised_answer,omitempty"`
	RevisedConfidence *int    `json:"revised_confidence,omitempty"`
	TimeSpent         int     `json:"time_spent"`
}

type ClosingRecord struct {
	Answer   string  `json:"answer"`
	FollowUp *string `json:"follow_up,omitempty"`
}

// ExportMeta carries the values of an ExportRecord that do not come from
// the answer store.
type ExportMeta struct {
	SessionID string
	Timestamp time.Time
}

func newRatingRecord(i int, q Question, r *Rating) RatingRecord {
	rec := RatingRecord{
		QuestionIndex:        i,
		Question:             q.Text,
		ReadingComprehension: r.Scores[DimReadingComprehension],
		Reasoning:            r.Scores[DimReasoning],
		KnowledgeRecall:      r.Scores[DimKnowledgeRecall],
		DemographicBias:      r.Scores[DimDemographicBias],
		PotentialHarm:        r.Scores[DimPotentialHarm],
		Comment:              r.Comment,
	}
	if r.TimeSpent != nil {
		rec.TimeSpent = *r.TimeSpent
	}
	return rec
}

// BuildExport assembles an ExportRecord from the answer store. Unanswered
// questions appear with empty answers and unset times are written as 0.
func BuildExport(meta ExportMeta, c *Content, a *Answers) ExportRecord {
	id := meta.SessionID
	if id == "" {
		id = uuid.New().String()
	}
	rec := ExportRecord{
		SchemaVersion: ExportSchemaVersion,
		SessionID:     id,
		Timestamp:     meta.Timestamp.UTC().Round(0),
		GeneralInfo:   make([]GeneralInfoEntry, 0, len(c.GeneralInfo)),
		Step1:         make([]Step1Entry, 0, len(c.Step1)),
		Step2:         make([]Step2Entry, 0, len(c.Step2)),
		Closing:       make(map[string]ClosingRecord, len(c.Closing)),
		ClosingOrder:  make([]string, 0, len(c.Closing)),
	}

	for i, q := range c.GeneralInfo {
		e := GeneralInfoEntry{Question: q.Text}
		if i < len(a.GeneralInfo) {
			e.Answer = a.GeneralInfo[i]
		}
		rec.GeneralInfo = append(rec.GeneralInfo, e)
	}

	for i, q := range c.Step1 {
		r := a.peekRating(i)
		rec.Step1 = append(rec.Step1, Step1Entry{Question: q, Rating: newRatingRecord(i, q, &r)})
	}

	for i, q := range c.Step2 {
		s := a.peekStep2(i)
		sr := Step2Record{
			Answer:            s.Answer,
			Confidence:        cloneInt(s.Confidence),
			RevisedAnswer:     cloneString(s.RevisedAnswer),
			RevisedConfidence: cloneInt(s.RevisedConfidence),
		}
		if s.TimeSpent != nil {
			sr.TimeSpent = *s.TimeSpent
		}
		rec.Step2 = append(rec.Step2, Step2Entry{Question: q, Answer: sr})
	}

	for i, q := range c.Closing {
		cl := a.peekClosing(i)
		key := closingKey(rec.Closing, q.Text)
		rec.ClosingOrder = append(rec.ClosingOrder, key)
		rec.Closing[key] = ClosingRecord{Answer: cl.Main, FollowUp: cloneString(cl.FollowUp)}
	}
	return rec
}

// closingKey returns text, or "text (n)" for the n-th question sharing
// that text, so every closing answer keeps its own entry.
func closingKey(taken map[string]ClosingRecord, text string) string {
	key := text
	for n := 2; ; n++ {
		if _, ok := taken[key]; !ok {
			return key
		}
		key = fmt.Sprintf("%s (%d)", text, n)
	}
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	return intPtr(*p)
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	return strPtr(*p)
}
