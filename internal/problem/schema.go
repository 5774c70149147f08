package problem

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const documentSchemaURL = "schema://trilogic/problem.json"

// documentSchema describes the stored problem shape. The answer steps only
// get loose checks here; the tolerated variant shapes are handled when the
// answer is normalized.
const documentSchema = `{
  "type": "object",
  "required": ["id", "title", "argument", "options", "answer"],
  "properties": {
    "id": {"type": "string", "pattern": "^[a-z0-9][a-z0-9-]*$"},
    "title": {"type": "string", "minLength": 1},
    "argument": {"type": "string", "minLength": 1},
    "mode": {"enum": ["five-step", "two-step"]},
    "options": {
      "type": "array",
      "minItems": 2,
      "uniqueItems": true,
      "items": {"type": "string", "minLength": 1}
    },
    "tags": {"type": "array", "items": {"type": "string"}},
    "answer": {
      "type": "object",
      "required": ["step1", "step2", "step3"],
      "properties": {
        "step1": {
          "type": "object",
          "required": ["antecedent", "consequent"],
          "properties": {
            "antecedent": {"type": "string", "minLength": 1},
            "consequent": {"type": "string", "minLength": 1}
          }
        },
        "step2": {"type": ["array", "object"]},
        "step3": {
          "type": "object",
          "properties": {
            "inferenceType": {"enum": ["deductive", "inductive", "abductive"]},
            "validity": {"type": "boolean"},
            "verification": {"type": "boolean"}
          }
        },
        "step4": {"type": ["array", "object"]},
        "step5": {"type": ["array", "object"]}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// compiled returns the document schema, compiling it on first use.
func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(strings.NewReader(documentSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse problem schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(documentSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(documentSchemaURL)
	})
	return compiledSchema, compileErr
}

// validateDocument checks a parsed JSON value against the document schema.
func validateDocument(v any) error {
	s, err := compiled()
	if err != nil {
		return err
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
