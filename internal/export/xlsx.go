package export

import (
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/abhisek/medval/internal/questionnaire"
)

// Sheet names of the workbook written by WriteXLSX.
const (
	SheetGeneralInfo = "General Info"
	SheetRatings     = "Step 1 Ratings"
	SheetStep2       = "Step 2 Q&A"
	SheetClosing     = "Closing"
)

// Workbook flattens records into one sheet per section, one row per
// answer, each row led by the session ID and timestamp.
func Workbook(recs []questionnaire.ExportRecord) (*xlsx.File, error) {
	f := xlsx.NewFile()

	gi, err := addSheet(f, SheetGeneralInfo, "question", "answer")
	if err != nil {
		return nil, err
	}
	ratingHeader := []string{"question_index", "question"}
	for _, d := range questionnaire.AllDimensions() {
		ratingHeader = append(ratingHeader, d.String())
	}
	ratingHeader = append(ratingHeader, "time_spent", "comment")
	ratings, err := addSheet(f, SheetRatings, ratingHeader...)
	if err != nil {
		return nil, err
	}
	step2, err := addSheet(f, SheetStep2, "question", "answer", "confidence", "revised_answer", "revised_confidence", "time_spent")
	if err != nil {
		return nil, err
	}
	closing, err := addSheet(f, SheetClosing, "question", "answer", "follow_up")
	if err != nil {
		return nil, err
	}

	for _, rec := range recs {
		lead := []string{rec.SessionID, rec.Timestamp.UTC().Format(time.RFC3339)}

		for _, e := range rec.GeneralInfo {
			addRow(gi, lead, e.Question, e.Answer)
		}
		for _, e := range rec.Step1 {
			r := e.Rating
			cells := []string{strconv.Itoa(r.QuestionIndex), r.Question}
			for _, d := range questionnaire.AllDimensions() {
				cells = append(cells, strconv.Itoa(r.Score(d)))
			}
			cells = append(cells, strconv.Itoa(r.TimeSpent), r.Comment)
			addRow(ratings, lead, cells...)
		}
		for _, e := range rec.Step2 {
			a := e.Answer
			addRow(step2, lead, e.Question.Text, a.Answer, optInt(a.Confidence), optString(a.RevisedAnswer), optInt(a.RevisedConfidence), strconv.Itoa(a.TimeSpent))
		}
		for _, q := range rec.ClosingOrder {
			c := rec.Closing[q]
			addRow(closing, lead, q, c.Answer, optString(c.FollowUp))
		}
	}
	return f, nil
}

// WriteXLSX writes the workbook for recs to path.
func WriteXLSX(path string, recs []questionnaire.ExportRecord) error {
	f, err := Workbook(recs)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

func addSheet(f *xlsx.File, name string, header ...string) (*xlsx.Sheet, error) {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: add sheet %q", name)
	}
	addRow(sheet, []string{"session_id", "timestamp"}, header...)
	return sheet, nil
}

func addRow(sheet *xlsx.Sheet, lead []string, cells ...string) {
	row := sheet.AddRow()
	for _, v := range lead {
		row.AddCell().SetString(v)
	}
	for _, v := range cells {
		row.AddCell().SetString(v)
	}
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
