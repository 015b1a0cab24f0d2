// Package content loads the question sets and texts shown by the
// questionnaire, either from the backend over HTTP or from a directory of
// question files.
package content

import (
	"context"

	"github.com/abhisek/medval/internal/questionnaire"
)

// Source provides questionnaire content.
type Source interface {
	// Instructions returns the text shown on the intro screen.
	Instructions(ctx context.Context) (string, error)

	// Step1Intro returns the message shown before the rating section.
	Step1Intro(ctx context.Context) (string, error)

	// Questions returns the question set for an answerable section.
	Questions(ctx context.Context, s questionnaire.Section) ([]questionnaire.Question, error)
}

// Sections lists the answerable sections in questionnaire order.
var Sections = []questionnaire.Section{
	questionnaire.SectionGeneralInfo,
	questionnaire.SectionStep1Rating,
	questionnaire.SectionStep2QA,
	questionnaire.SectionClosing,
}

// File base names and backend paths per section. The names match the
// files the backend serves from its content directory.
var (
	fileNames = map[questionnaire.Section]string{
		questionnaire.SectionGeneralInfo: "general_info",
		questionnaire.SectionStep1Rating: "MedGPT_validation_step_1",
		questionnaire.SectionStep2QA:     "MedGPT_validation_step_2",
		questionnaire.SectionClosing:     "conclusion",
	}
	paths = map[questionnaire.Section]string{
		questionnaire.SectionGeneralInfo: "/general-info",
		questionnaire.SectionStep1Rating: "/step1-questions",
		questionnaire.SectionStep2QA:     "/step2-questions",
		questionnaire.SectionClosing:     "/conclusion",
	}
)

// FileName returns the base name (without extension) of the question
// file for s.
func FileName(s questionnaire.Section) string { return fileNames[s] }

// Path returns the backend path serving the question set for s.
func Path(s questionnaire.Section) string { return paths[s] }

// DefaultInstructions is shown when no instructions are configured.
const DefaultInstructions = `Dear Clinician,

Welcome, and thank you for taking part in our "HIV & LLM" questionnaire.

This study explores how large language models can support HIV clinical management. We are assessing their current capabilities, identifying strengths and limitations, and aiming to develop recommendations for improvement.

Your responses will help us validate two key aspects of our research:
(1) the relevance of the metrics we use to evaluate AI-generated answers, and
(2) the benefits and drawbacks of using AI-generated clinical responses in clinical consultations.

The questionnaire consists of 4 sections:
  1. General information (approx. 3 minutes)
  2. Evaluation of AI-generated answers (approx. 10 minutes)
  3. HIV clinical Q&A (approx. 25 minutes)
  4. Closing questions (approx. 5 minutes)

Please complete the questionnaire in one sitting, without interruption. You may use the tools you normally rely on during clinical consults (UpToDate, guidelines, references). Answer as you would in real-life clinical practice.

To save your responses, make sure to reach the final screen.`
