// internal/evaluation/flatten.go
package evaluation

import (
	"strings"
)

// DefaultRationale fills the rationale column when a record has none.
const DefaultRationale = "N/A"

// Flattener turns decoded records into table rows using a Schema for the
// evaluation columns.
type Flattener struct {
	schema *Schema
}

// NewFlattener returns a Flattener bound to schema; a nil schema means
// DefaultSchema.
func NewFlattener(schema *Schema) *Flattener {
	if schema == nil {
		schema = DefaultSchema()
	}
	return &Flattener{schema: schema}
}

// Flatten builds the row for one record using the default schema.
func Flatten(rec Record) Row {
	return NewFlattener(nil).Flatten(rec)
}

// Flatten builds the row for one record.
func (f *Flattener) Flatten(rec Record) Row {
	row := make(Row)
	for _, c := range f.cells(rec) {
		row[c.Column] = c.Value
	}
	return row
}

// Table flattens records in order into a new table.
func (f *Flattener) Table(records []Record) *Table {
	table := NewTable()
	for _, rec := range records {
		table.appendCells(f.cells(rec))
	}
	return table
}

// FlattenDocument decodes data and flattens every record. Any decode error aborts
// the whole document; no partial table is returned.
func (f *Flattener) FlattenDocument(data []byte) (*Table, error) {
	records, err := DecodeRecords(data)
	if err != nil {
		return nil, err
	}
	return f.Table(records), nil
}

func (f *Flattener) cells(rec Record) []Cell {
	rationale := DefaultRationale
	if rec.Input.Rationale != nil {
		rationale = *rec.Input.Rationale
	}

	cells := []Cell{
		{Column: ColTimestamp, Value: rec.Metadata.Timestamp},
		{Column: ColEvaluationsRun, Value: strings.Join(rec.Metadata.EvaluationsRun, ", ")},
		{Column: ColJID, Value: strings.ToUpper(rec.Input.JID)},
		{Column: ColAID, Value: rec.Input.AID},
		{Column: ColAligned, Value: rec.Input.Aligned},
		{Column: ColGoldAligned, Value: rec.Input.GoldAligned},
		{Column: ColTitle, Value: rec.Input.Title},
		{Column: ColRationale, Value: rationale},
		{Column: ColSourceFile, Value: rec.SourceFile},
	}
	for _, res := range rec.Results {
		cells = append(cells, f.schema.Cells(res)...)
	}
	return cells
}
