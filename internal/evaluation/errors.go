// internal/evaluation/errors.go
package evaluation

import "fmt"

// MalformedInputError reports an input document that cannot be read as an array of
// evaluation records.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return "malformed input: " + e.Reason
}

// MissingRequiredFieldError reports a record that lacks a key the row schema needs.
type MissingRequiredFieldError struct {
	// Record is the zero-based position of the offending record.
	Record int
	// Field is the dotted path of the missing key, e.g. "input_data.jid".
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("record %d: missing required field %q", e.Record, e.Field)
}
