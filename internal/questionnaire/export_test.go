package questionnaire

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeRun drives a controller to Done with a follow-up on closing
// question 1 and a comment on rating 0.
func completeRun(t *testing.T, c *Controller, clk *fakeClock) {
	t.Helper()
	toStep1(t, c)
	must(t)(c.SetRatingComment("Accurate but terse"))
	clk.Advance(12 * time.Second)
	rateAll(t, c, [NumDimensions]int{3, 4, 2, 5, 5})
	must(t)(c.SubmitRating())
	rateAll(t, c, [NumDimensions]int{1, 2, 3, 4, 0})
	must(t)(c.SubmitRating())
	must(t)(c.CompleteTransition())

	must(t)(c.SetStep2Answer("TDF + 3TC + EFV"))
	must(t)(c.SetStep2Confidence(3))
	must(t)(c.AdvanceStep2())
	must(t)(c.SetRevisedAnswer("TDF + 3TC + DTG"))
	must(t)(c.SetRevisedConfidence(5))
	clk.Advance(20 * time.Second)
	must(t)(c.AdvanceStep2())
	must(t)(c.SetStep2Answer("At 6 months"))
	must(t)(c.SetStep2Confidence(4))
	must(t)(c.AdvanceStep2())
	must(t)(c.SetRevisedConfidence(4))
	must(t)(c.AdvanceStep2())
	must(t)(c.CompleteTransition())

	must(t)(c.SetClosingAnswer("4"))
	must(t)(c.AdvanceClosing())
	must(t)(c.SetClosingAnswer("no"))
	must(t)(c.SetClosingFollowUp("Needs local guidelines"))
	must(t)(c.AdvanceClosing())
	must(t)(c.SetClosingAnswer("Thanks"))
	must(t)(c.AdvanceClosing())
}

func TestRequestExport_BuildsRecordOnce(t *testing.T) {
	c, clk := newTestController(Options{})
	completeRun(t, c, clk)

	ts := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	effects, err := c.RequestExport(ts)
	require.NoError(t, err)
	require.Len(t, effects, 2)

	save, ok := effects[0].(SaveAnswers)
	require.True(t, ok)
	file, ok := effects[1].(WriteExportFile)
	require.True(t, ok)
	assert.Equal(t, save.Record, file.Record)

	rec := save.Record
	assert.Equal(t, ExportSchemaVersion, rec.SchemaVersion)
	assert.Equal(t, "session-1", rec.SessionID)
	assert.True(t, rec.Timestamp.Equal(ts))

	require.Len(t, rec.GeneralInfo, 2)
	assert.Equal(t, GeneralInfoEntry{Question: "Age", Answer: "34"}, rec.GeneralInfo[0])

	require.Len(t, rec.Step1, 2)
	assert.Equal(t, "Accurate but terse", rec.Step1[0].Rating.Comment)
	assert.Equal(t, 12, rec.Step1[0].Rating.TimeSpent)
	assert.Equal(t, 5, rec.Step1[0].Rating.Score(DimPotentialHarm))
	assert.Equal(t, 0, rec.Step1[1].Rating.TimeSpent)

	require.Len(t, rec.Step2, 2)
	s2 := rec.Step2[0].Answer
	assert.Equal(t, "TDF + 3TC + EFV", s2.Answer)
	require.NotNil(t, s2.RevisedAnswer)
	assert.Equal(t, "TDF + 3TC + DTG", *s2.RevisedAnswer)
	assert.Equal(t, 20, s2.TimeSpent)
	assert.Nil(t, rec.Step2[1].Answer.RevisedAnswer)

	require.Len(t, rec.Closing, 3)
	assert.Equal(t, []string{"How useful was MedGPT?", "Would you use MedGPT in practice?", "Any other comments?"}, rec.ClosingOrder)
	fu := rec.Closing["Would you use MedGPT in practice?"]
	assert.Equal(t, "no", fu.Answer)
	require.NotNil(t, fu.FollowUp)
	assert.Equal(t, "Needs local guidelines", *fu.FollowUp)
	assert.Equal(t, "Thanks", rec.Closing["Any other comments?"].Answer)

	_, err = c.RequestExport(ts)
	assert.True(t, errors.Is(err, ErrAlreadyExported))

	got, ok := c.Export()
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestRequestExport_OnlyInDone(t *testing.T) {
	c, _ := newTestController(Options{})
	_, err := c.RequestExport(time.Now())
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, ok := c.Export()
	assert.False(t, ok)
}

func TestRequestExport_ZeroTimestampUsesClock(t *testing.T) {
	c, clk := newTestController(Options{})
	completeRun(t, c, clk)

	effects, err := c.RequestExport(time.Time{})
	require.NoError(t, err)
	rec := effects[0].(SaveAnswers).Record
	assert.True(t, rec.Timestamp.Equal(clk.Now()))
}

func TestExportRecord_JSONRoundTrip(t *testing.T) {
	c, clk := newTestController(Options{})
	completeRun(t, c, clk)
	effects, err := c.RequestExport(time.Date(2025, 3, 1, 10, 30, 15, 123456789, time.FixedZone("CET", 3600)))
	require.NoError(t, err)
	rec := effects[0].(SaveAnswers).Record

	data, err := json.MarshalIndent(rec, "", "  ")
	require.NoError(t, err)

	var decoded ExportRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rec, decoded)
}

func TestBuildExport_GeneratesSessionID(t *testing.T) {
	content := testContent()
	rec := BuildExport(ExportMeta{Timestamp: time.Now()}, content, NewAnswers(content))

	_, err := uuid.Parse(rec.SessionID)
	assert.NoError(t, err)
	assert.Len(t, rec.Step1, 2)
	for _, e := range rec.Step2 {
		assert.Equal(t, 0, e.Answer.TimeSpent)
		assert.Nil(t, e.Answer.Confidence)
	}
}

func TestBuildExport_DoesNotAliasAnswers(t *testing.T) {
	content := testContent()
	a := NewAnswers(content)
	a.step2(0).Confidence = intPtr(2)

	rec := BuildExport(ExportMeta{SessionID: "s"}, content, a)
	*a.Step2[0].Confidence = 5

	assert.Equal(t, 2, *rec.Step2[0].Answer.Confidence)
}

func TestBuildExport_RepeatedClosingText(t *testing.T) {
	content := &Content{Closing: []Question{
		{Text: "How confident are you?"},
		{Text: "How confident are you?"},
		{Text: "Any other comments?"},
	}}
	a := NewAnswers(content)
	a.closing(0).Main = "2"
	a.closing(1).Main = "4"

	rec := BuildExport(ExportMeta{SessionID: "s"}, content, a)

	assert.Equal(t, []string{"How confident are you?", "How confident are you? (2)", "Any other comments?"}, rec.ClosingOrder)
	require.Len(t, rec.Closing, 3)
	assert.Equal(t, "2", rec.Closing["How confident are you?"].Answer)
	assert.Equal(t, "4", rec.Closing["How confident are you? (2)"].Answer)
}
