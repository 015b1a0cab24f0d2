package llm

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled caches schemas by name.
var compiled sync.Map // map[string]*jsonschema.Schema

// validateResponse checks raw against schema. It returns
// *ErrInvalidResponse on failure and nil when schema is nil.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: eris.Wrap(err, "invalid JSON")}
	}

	s, err := compileSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: eris.Wrapf(err, "compile schema %q", schema.Name)}
	}
	if err := s.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: eris.Wrap(err, "schema validation failed")}
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(schema.Name); ok {
		return s.(*jsonschema.Schema), nil
	}

	// Round-trip through JSON so Go-typed values (ints, []string) become
	// the generic form the compiler expects.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, eris.Wrap(err, "marshal definition")
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, eris.Wrap(err, "parse definition")
	}

	c := jsonschema.NewCompiler()
	url := "schema://" + schema.Name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, eris.Wrap(err, "add resource")
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, eris.Wrap(err, "compile")
	}
	compiled.Store(schema.Name, s)
	return s, nil
}
