// internal/evaluation/shape.go
package evaluation

import (
	"fmt"
	"sort"
	"strings"
)

// Shape identifies how one evaluation result is turned into row columns.
type Shape int

const (
	// ShapeInferred means no shape was declared; the result's keys decide.
	ShapeInferred Shape = iota
	// ShapeDecision emits eval_<kind> from the whole result, whatever its form.
	ShapeDecision
	// ShapeGrounded reads the "grounded" key plus an optional "reason".
	ShapeGrounded
	// ShapeStatus reads "Eval_Status" plus optional "which_one_executed" and "reason".
	ShapeStatus
	// ShapeNegation reads "negation_pass" plus optional "which_one_executed" and "reason".
	ShapeNegation
	// ShapeFields emits one eval_<kind>_<key> column per mapping entry.
	ShapeFields
	// ShapeScalar emits eval_<kind> from a non-mapping result.
	ShapeScalar
)

const (
	keyGrounded   = "grounded"
	keyEvalStatus = "Eval_Status"
	keyNegation   = "negation_pass"
	keyReason     = "reason"
	keyExecuted   = "which_one_executed"

	// DecisionAccuracyKind is always shaped with ShapeDecision.
	DecisionAccuracyKind = "decision_accuracy"

	// ColumnPrefix starts every evaluation column name.
	ColumnPrefix = "eval_"
)

var shapeNames = map[Shape]string{
	ShapeInferred: "inferred",
	ShapeDecision: "decision",
	ShapeGrounded: "grounded",
	ShapeStatus:   "status",
	ShapeNegation: "negation",
	ShapeFields:   "fields",
	ShapeScalar:   "scalar",
}

// primaryKeys holds the outcome key of the keyed mapping shapes.
var primaryKeys = map[Shape]string{
	ShapeGrounded: keyGrounded,
	ShapeStatus:   keyEvalStatus,
	ShapeNegation: keyNegation,
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// ParseShape resolves a shape name as used in configuration files.
func ParseShape(name string) (Shape, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	for shape, n := range shapeNames {
		if n == trimmed {
			return shape, nil
		}
	}
	names := make([]string, 0, len(shapeNames))
	for _, n := range shapeNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return ShapeInferred, fmt.Errorf("unknown shape %q (expected one of %s)", name, strings.Join(names, ", "))
}

// Field is one entry of a result mapping.
type Field struct {
	Key   string
	Value any
}

// Result is a single evaluation_results entry. Fields preserves the document
// order of a mapping result and is nil for scalars.
type Result struct {
	Kind      string
	Raw       any
	Fields    []Field
	IsMapping bool
}

func (r Result) lookup(key string) (any, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Cell is a single column value contributed to a row.
type Cell struct {
	Column string
	Value  any
}

// Schema maps evaluation kinds to declared shapes. It is built before use and only
// read afterwards.
type Schema struct {
	declared map[string]Shape
}

// NewSchema returns a schema with the built-in declarations plus decl.
func NewSchema(decl map[string]Shape) *Schema {
	s := &Schema{declared: map[string]Shape{DecisionAccuracyKind: ShapeDecision}}
	for kind, shape := range decl {
		s.Declare(kind, shape)
	}
	return s
}

// DefaultSchema returns a schema holding only the built-in declarations.
func DefaultSchema() *Schema {
	return NewSchema(nil)
}

// Declare binds kind to shape. ShapeInferred removes a declaration, except for
// decision_accuracy which cannot be redeclared.
func (s *Schema) Declare(kind string, shape Shape) {
	if kind == DecisionAccuracyKind {
		return
	}
	if shape == ShapeInferred {
		delete(s.declared, kind)
		return
	}
	s.declared[kind] = shape
}

// Declared returns the shape bound to kind, if any.
func (s *Schema) Declared(kind string) (Shape, bool) {
	shape, ok := s.declared[kind]
	return shape, ok
}

// Classify picks the shape for r. A declared shape wins when the result fits it;
// otherwise the result's keys are probed in the order grounded, Eval_Status,
// negation_pass.
func (s *Schema) Classify(r Result) Shape {
	if shape, ok := s.declared[r.Kind]; ok && fits(shape, r) {
		return shape
	}
	return infer(r)
}

func fits(shape Shape, r Result) bool {
	switch shape {
	case ShapeDecision:
		return true
	case ShapeGrounded, ShapeStatus, ShapeNegation:
		if !r.IsMapping {
			return false
		}
		_, ok := r.lookup(primaryKeys[shape])
		return ok
	case ShapeFields:
		return r.IsMapping
	case ShapeScalar:
		return !r.IsMapping
	default:
		return false
	}
}

func infer(r Result) Shape {
	if !r.IsMapping {
		return ShapeScalar
	}
	for _, shape := range []Shape{ShapeGrounded, ShapeStatus, ShapeNegation} {
		if _, ok := r.lookup(primaryKeys[shape]); ok {
			return shape
		}
	}
	return ShapeFields
}

// Cells shapes r into row columns.
func (s *Schema) Cells(r Result) []Cell {
	base := ColumnPrefix + r.Kind
	shape := s.Classify(r)

	switch shape {
	case ShapeDecision, ShapeScalar:
		return []Cell{{Column: base, Value: Normalize(r.Raw)}}
	case ShapeGrounded, ShapeStatus, ShapeNegation:
		outcome, _ := r.lookup(primaryKeys[shape])
		cells := []Cell{{Column: base, Value: Normalize(outcome)}}
		if shape != ShapeGrounded {
			if v, ok := r.lookup(keyExecuted); ok {
				cells = append(cells, Cell{Column: base + "_" + keyExecuted, Value: v})
			}
		}
		if v, ok := r.lookup(keyReason); ok {
			cells = append(cells, Cell{Column: base + "_" + keyReason, Value: v})
		}
		return cells
	default:
		cells := make([]Cell, 0, len(r.Fields))
		for _, f := range r.Fields {
			cells = append(cells, Cell{Column: base + "_" + f.Key, Value: Normalize(f.Value)})
		}
		return cells
	}
}
