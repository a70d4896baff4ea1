// internal/view/filter.go
package view

import (
	"strings"

	"github.com/mwiater/evaldash/internal/evaluation"
)

// Alignment is the three-way filter on the aligned column.
type Alignment string

const (
	AlignmentAll        Alignment = "All"
	AlignmentAligned    Alignment = "Aligned"
	AlignmentNotAligned Alignment = "Not Aligned"
)

// AlignmentOptions lists the alignment filter choices in display order.
func AlignmentOptions() []Alignment {
	return []Alignment{AlignmentAll, AlignmentAligned, AlignmentNotAligned}
}

// ParseAlignment accepts display names as well as "true"/"false"; anything else
// selects AlignmentAll.
func ParseAlignment(s string) Alignment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aligned", "true":
		return AlignmentAligned
	case "not aligned", "not_aligned", "notaligned", "false":
		return AlignmentNotAligned
	default:
		return AlignmentAll
	}
}

// Next cycles to the following option.
func (a Alignment) Next() Alignment {
	opts := AlignmentOptions()
	for i, o := range opts {
		if o == a {
			return opts[(i+1)%len(opts)]
		}
	}
	return AlignmentAll
}

// Filter is the user's selection state.
type Filter struct {
	// Journal is a jid or AllJournals.
	Journal   string
	Alignment Alignment
	// Record is the selected record label; empty selects the first record.
	Record string
}

func (f Filter) normalized() Filter {
	f.Journal = strings.TrimSpace(f.Journal)
	if f.Journal == "" || strings.EqualFold(f.Journal, AllJournals) {
		f.Journal = AllJournals
	} else {
		f.Journal = strings.ToUpper(f.Journal)
	}
	f.Alignment = ParseAlignment(string(f.Alignment))
	return f
}

// Match reports whether row passes the journal and alignment filters.
func (f Filter) Match(row evaluation.Row) bool {
	if f.Journal != "" && f.Journal != AllJournals && row.Text(evaluation.ColJID) != f.Journal {
		return false
	}
	switch f.Alignment {
	case AlignmentAligned:
		v, ok := flag(row[evaluation.ColAligned])
		return ok && v
	case AlignmentNotAligned:
		v, ok := flag(row[evaluation.ColAligned])
		return ok && !v
	default:
		return true
	}
}

// flag reads a boolean-like value; ok is false for values that are neither
// booleans nor recognized pass/fail strings.
func flag(v any) (value, ok bool) {
	switch evaluation.Normalize(v) {
	case evaluation.StatusPass:
		return true, true
	case evaluation.StatusFail:
		return false, true
	default:
		return false, false
	}
}
