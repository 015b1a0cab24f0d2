// Package criteria is the overlay describing how each Step 1 dimension is
// scored.
package criteria

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/screen"
	"github.com/abhisek/medval/internal/ui/components"
	"github.com/abhisek/medval/internal/ui/theme"
)

var descriptions = map[questionnaire.Dimension]string{
	questionnaire.DimReadingComprehension: "Did the answer understand what the question was asking?",
	questionnaire.DimReasoning:            "Are the steps from facts to conclusion sound and complete?",
	questionnaire.DimKnowledgeRecall:      "Are the clinical facts correct and consistent with current guidelines?",
	questionnaire.DimDemographicBias:      "Is the answer free of bias toward age, sex, ethnicity or other groups? 5 = no bias.",
	questionnaire.DimPotentialHarm:        "Could following the answer harm a patient? 5 = no potential for harm.",
}

// Description explains what a dimension measures.
func Description(d questionnaire.Dimension) string { return descriptions[d] }

// CriteriaScreen lists the rating dimensions and the scale.
type CriteriaScreen struct{}

var _ screen.Overlay = (*CriteriaScreen)(nil)

// New creates the overlay.
func New() *CriteriaScreen { return &CriteriaScreen{} }

func (s *CriteriaScreen) Init() tea.Cmd { return nil }

func (s *CriteriaScreen) Overlay() {}

func (s *CriteriaScreen) Title() string { return "Evaluation Criteria" }

func (s *CriteriaScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }

func (s *CriteriaScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var rows []string
	for _, d := range questionnaire.AllDimensions() {
		rows = append(rows, theme.Label.Render(d.Label()), theme.Body.Render(Description(d)), "")
	}
	rows = append(rows, theme.Hint.Render(fmt.Sprintf(
		"Scores run from %d (very poor) to %d (excellent).", questionnaire.MinScore, questionnaire.MaxScore)))
	return components.Center(components.Card("", lipgloss.JoinVertical(lipgloss.Left, rows...), cw, false), width, height)
}
