// internal/evaluation/schema.go
package evaluation

import (
	"sort"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchemaJSON lists the keys every record needs before a row can be built.
// Values are type-checked where flattening depends on the container type, and
// where a null or non-text value would produce an unusable label.
const documentSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["metadata", "input_data", "evaluation_results", "source_file"],
    "properties": {
      "metadata": {
        "type": "object",
        "required": ["timestamp", "evaluations_run"],
        "properties": {
          "evaluations_run": {"type": "array", "items": {"type": "string"}}
        }
      },
      "input_data": {
        "type": "object",
        "required": ["jid", "aid", "aligned", "gold_aligned", "title"],
        "properties": {
          "jid": {"type": ["string", "number"]},
          "title": {"type": "string"}
        }
      },
      "evaluation_results": {"type": "object"}
    }
  }
}`

var documentSchema = mustCompileSchema(documentSchemaJSON)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("evaluation: invalid document schema: " + err.Error())
	}
	return schema
}

// validateDocument checks data against documentSchema. Missing keys become
// MissingRequiredFieldError; any other violation is a MalformedInputError. When
// several records are invalid, the earliest one is reported.
func validateDocument(data []byte) error {
	result, err := documentSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &MalformedInputError{Reason: err.Error()}
	}
	if result.Valid() {
		return nil
	}

	violations := result.Errors()
	sort.SliceStable(violations, func(i, j int) bool {
		ri, _ := violationPath(violations[i])
		rj, _ := violationPath(violations[j])
		return ri < rj
	})

	first := violations[0]
	record, path := violationPath(first)
	if first.Type() == "required" && record >= 0 {
		return &MissingRequiredFieldError{Record: record, Field: path}
	}
	return &MalformedInputError{Reason: first.String()}
}

// violationPath splits a gojsonschema field such as "3.input_data" into the record
// index and the dotted path inside the record. Required violations name the missing
// property in their details, so it is appended. The index is -1 for document-level
// violations.
func violationPath(v gojsonschema.ResultError) (int, string) {
	parts := strings.Split(v.Field(), ".")
	record, err := strconv.Atoi(parts[0])
	if err != nil {
		record = -1
	}
	rest := parts[1:]
	if v.Type() == "required" {
		if prop, ok := v.Details()["property"].(string); ok {
			rest = append(rest, prop)
		}
	}
	return record, strings.Join(rest, ".")
}
