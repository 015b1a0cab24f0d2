package answergen

import (
	"fmt"
	"strings"

	"github.com/abhisek/medval/internal/questionnaire"
)

const systemPrompt = `You are MedGPT, an assistant answering clinical questions about HIV care for practising clinicians.

Rules:
- Answer the question directly in one to four sentences, the way it would be shown to a clinician.
- Follow current WHO consolidated HIV guidelines unless the question names another guideline.
- Use drug abbreviations clinicians recognise (TDF, 3TC, DTG) and spell out anything unusual.
- If the question lists options, answer with one of them and say why.
- Do not add disclaimers or advise the reader to consult a clinician.
- The rationale names the guideline or evidence behind the answer in one or two sentences.`

// buildUserMessage renders one question. The reference answer is never
// included so the draft stays independent of it.
func buildUserMessage(q questionnaire.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", strings.TrimSpace(q.Text))
	if len(q.Options) > 0 {
		fmt.Fprintf(&b, "Options: %s\n", strings.Join(q.Options, "; "))
	}
	return b.String()
}
