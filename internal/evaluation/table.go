// internal/evaluation/table.go
package evaluation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Base column names, in the order they appear in every row.
const (
	ColTimestamp      = "timestamp"
	ColEvaluationsRun = "evaluations_run"
	ColJID            = "jid"
	ColAID            = "aid"
	ColAligned        = "aligned"
	ColGoldAligned    = "gold_aligned"
	ColTitle          = "title"
	ColRationale      = "rationale"
	ColSourceFile     = "source_file"
)

// BaseColumns lists the columns every row carries.
var BaseColumns = []string{
	ColTimestamp,
	ColEvaluationsRun,
	ColJID,
	ColAID,
	ColAligned,
	ColGoldAligned,
	ColTitle,
	ColRationale,
	ColSourceFile,
}

// Row maps column names to values. A column missing from the map is null.
type Row map[string]any

// Value returns the value stored under col.
func (r Row) Value(col string) (any, bool) {
	v, ok := r[col]
	return v, ok
}

// Text renders the value stored under col for display; missing and null values
// render as the empty string.
func (r Row) Text(col string) string {
	return FormatValue(r[col])
}

// FormatValue renders a cell value for display.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}

// Table is the sparse union of flattened rows. Columns holds every column seen,
// in first-seen order.
type Table struct {
	Columns []string
	Rows    []Row

	seen map[string]struct{}
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{seen: make(map[string]struct{})}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// HasColumn reports whether any row carries col.
func (t *Table) HasColumn(col string) bool {
	if t == nil {
		return false
	}
	_, ok := t.seen[col]
	return ok
}

// appendCells adds one row built from cells, extending Columns as needed.
func (t *Table) appendCells(cells []Cell) Row {
	row := make(Row, len(cells))
	for _, c := range cells {
		if _, ok := t.seen[c.Column]; !ok {
			t.seen[c.Column] = struct{}{}
			t.Columns = append(t.Columns, c.Column)
		}
		row[c.Column] = c.Value
	}
	t.Rows = append(t.Rows, row)
	return row
}

// EvalColumns returns the evaluation columns in table order.
func (t *Table) EvalColumns() []string {
	if t == nil {
		return nil
	}
	var cols []string
	for _, c := range t.Columns {
		if strings.HasPrefix(c, ColumnPrefix) {
			cols = append(cols, c)
		}
	}
	return cols
}

// Where returns a table holding the rows that satisfy keep. Rows are shared with
// t, and Columns is kept whole so views over subsets stay aligned.
func (t *Table) Where(keep func(Row) bool) *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		seen:    t.seen,
	}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
