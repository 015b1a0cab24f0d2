package content

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/medval/internal/questionnaire"
)

// questionSetSchema accepts a list whose entries are either a bare
// question string or a question object.
const questionSetSchema = `{
  "type": "array",
  "items": {
    "oneOf": [
      {"type": "string", "minLength": 1},
      {
        "type": "object",
        "required": ["question"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "true_answer": {"type": "string"},
          "ai_answer": {"type": "string"},
          "follow_up": {"type": "string"},
          "type": {"enum": ["text", "scale", "yes_no"]},
          "options": {"type": "array", "items": {"type": "string"}}
        }
      }
    ]
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func questionSet() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionSetSchema))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err = c.AddResource("schema://question-set.json", doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile("schema://question-set.json")
	})
	return schema, schemaErr
}

// entry decodes either form of a question set item.
type entry questionnaire.Question

func (e *entry) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*e = entry{Text: text}
		return nil
	}
	var q questionnaire.Question
	if err := json.Unmarshal(data, &q); err != nil {
		return err
	}
	*e = entry(q)
	return nil
}

func (e *entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*e = entry{Text: node.Value}
		return nil
	}
	var q questionnaire.Question
	if err := node.Decode(&q); err != nil {
		return err
	}
	*e = entry(q)
	return nil
}

// ParseJSON validates and decodes a JSON question set.
func ParseJSON(data []byte) ([]questionnaire.Question, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "content: invalid JSON")
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, eris.Wrap(err, "content: decode question set")
	}
	return toQuestions(entries), nil
}

// ParseYAML validates and decodes a YAML question set.
func ParseYAML(data []byte) ([]questionnaire.Question, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "content: invalid YAML")
	}
	if doc == nil {
		return nil, nil
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, eris.Wrap(err, "content: decode question set")
	}
	return toQuestions(entries), nil
}

func validate(doc any) error {
	s, err := questionSet()
	if err != nil {
		return eris.Wrap(err, "content: compile question set schema")
	}
	if err := s.Validate(doc); err != nil {
		return eris.Wrap(err, "content: question set does not match schema")
	}
	return nil
}

func toQuestions(entries []entry) []questionnaire.Question {
	qs := make([]questionnaire.Question, len(entries))
	for i, e := range entries {
		qs[i] = questionnaire.Question(e)
	}
	return qs
}
