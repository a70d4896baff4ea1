// internal/view/view.go
// Package view turns a flattened table and a filter state into the dashboard
// view-model consumed by every renderer.
package view

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mwiater/evaldash/internal/evaluation"
)

const (
	// Title heads every rendered dashboard.
	Title = "Evals Dashboard"
	// Subtitle describes the dashboard below the title.
	Subtitle = "Comprehensive visualization of manuscript evaluation results"
	// EmptyWarning is shown when no records are loaded.
	EmptyWarning = "No data loaded. Please upload a JSON file with evaluation results."
	// NoMatchWarning is shown when the filters exclude every record.
	NoMatchWarning = "No records match the current filters."
	// ErrorHint follows the load error banner.
	ErrorHint = "Please ensure your JSON file matches the expected format."
	// AllJournals selects every journal.
	AllJournals = "All"

	defaultTitleWidth = 50
)

// Header describes one overview column. Status columns get pass/fail styling.
type Header struct {
	Column string
	Label  string
	Status bool
}

// Cell is one rendered overview value. Status holds "Pass" or "Fail" when the
// value is a canonical status.
type Cell struct {
	Text   string
	Status string
}

// Overview is the main results table.
type Overview struct {
	Headers []Header
	Rows    [][]Cell
}

// ResultLine is one evaluation outcome in the detail view.
type ResultLine struct {
	Evaluation string
	Result     string
	Status     string
}

// Detail describes the selected record.
type Detail struct {
	Label          string
	JournalID      string
	ArticleID      string
	Title          string
	Timestamp      string
	EvaluationsRun string
	SourceFile     string
	Aligned        string
	GoldAligned    string
	Rationale      string
	Results        []ResultLine
}

// Count is one bar or slice of a count chart.
type Count struct {
	Label string
	Count int
}

// Rate is the pass rate of one evaluation column.
type Rate struct {
	Evaluation string
	Column     string
	Passed     int
	Total      int
	Percent    float64
}

// Charts holds the chart series.
type Charts struct {
	Alignment []Count
	Journals  []Count
	PassRates []Rate
}

// Summary holds dataset statistics.
type Summary struct {
	TotalRecords    int
	UniqueJournals  int
	DateFrom        string
	DateTo          string
	HasAligned      bool
	AlignedPct      float64
	NotAlignedPct   float64
	HasGoldAligned  bool
	GoldAlignedPct  float64
	EvaluationTypes int
	HasSuccessRate  bool
	AverageSuccess  float64
}

// Options tunes view construction.
type Options struct {
	// TitleWidth is how many title characters a record label keeps.
	TitleWidth int
}

// Dashboard is the complete view-model. When Error or Warning is set, the views
// after the filters are withheld.
type Dashboard struct {
	Title            string
	Subtitle         string
	Source           string
	Error            string
	Warning          string
	Filter           Filter
	JournalOptions   []string
	AlignmentOptions []Alignment
	Overview         Overview
	RecordOptions    []string
	Detail           *Detail
	Charts           Charts
	Summary          Summary
}

// Ready reports whether the dashboard carries data views.
func (d Dashboard) Ready() bool {
	return d.Error == "" && d.Warning == ""
}

// ErrorDashboard returns the view shown when loading failed.
func ErrorDashboard(err error) Dashboard {
	return Dashboard{
		Title:    Title,
		Subtitle: Subtitle,
		Error:    fmt.Sprintf("Error loading data: %v", err),
	}
}

// Build derives the dashboard for table under filter.
func Build(table *evaluation.Table, filter Filter, opts Options) Dashboard {
	d := Dashboard{
		Title:            Title,
		Subtitle:         Subtitle,
		Filter:           filter.normalized(),
		AlignmentOptions: AlignmentOptions(),
	}
	if table.Empty() {
		d.Warning = EmptyWarning
		return d
	}

	d.JournalOptions = journalOptions(table)
	filtered := table.Where(d.Filter.Match)
	if filtered.Empty() {
		d.Warning = NoMatchWarning
		return d
	}

	width := opts.TitleWidth
	if width <= 0 {
		width = defaultTitleWidth
	}

	d.Overview = buildOverview(filtered)
	d.RecordOptions = make([]string, 0, filtered.Len())
	for _, row := range filtered.Rows {
		d.RecordOptions = append(d.RecordOptions, RecordLabel(row, width))
	}
	selected := 0
	for i, label := range d.RecordOptions {
		if label == d.Filter.Record {
			selected = i
			break
		}
	}
	d.Filter.Record = d.RecordOptions[selected]
	d.Detail = buildDetail(filtered, filtered.Rows[selected], d.Filter.Record)

	d.Charts = buildCharts(filtered)
	d.Summary = buildSummary(filtered, d.Charts.PassRates)
	return d
}

// DisplayName turns a column name into a header label: "eval_" is dropped,
// underscores become spaces and words are title-cased.
func DisplayName(column string) string {
	name := column
	if strings.HasPrefix(name, evaluation.ColumnPrefix) {
		name = strings.TrimPrefix(name, evaluation.ColumnPrefix)
		name = strings.ReplaceAll(name, "_", " ")
	}
	return cases.Title(language.English).String(name)
}

// RecordLabel identifies a row in the record selector.
func RecordLabel(row evaluation.Row, titleWidth int) string {
	title := []rune(row.Text(evaluation.ColTitle))
	if len(title) > titleWidth {
		title = title[:titleWidth]
	}
	return fmt.Sprintf("%s - %s - %s...", row.Text(evaluation.ColJID), row.Text(evaluation.ColAID), string(title))
}

// isDetailColumn reports whether an eval column is a sub-field rather than an
// outcome.
func isDetailColumn(column string) bool {
	return strings.Contains(column, "reason") || strings.Contains(column, "which_one_executed")
}

// OutcomeColumns returns the eval columns that hold outcomes, in table order.
func OutcomeColumns(table *evaluation.Table) []string {
	var cols []string
	for _, c := range table.EvalColumns() {
		if !isDetailColumn(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

func journalOptions(table *evaluation.Table) []string {
	seen := make(map[string]struct{})
	var jids []string
	for _, row := range table.Rows {
		jid := row.Text(evaluation.ColJID)
		if _, ok := seen[jid]; ok {
			continue
		}
		seen[jid] = struct{}{}
		jids = append(jids, jid)
	}
	sort.Strings(jids)
	return append([]string{AllJournals}, jids...)
}

func statusOf(v any) string {
	if evaluation.IsStatus(v) {
		return v.(string)
	}
	return ""
}

func buildOverview(table *evaluation.Table) Overview {
	var ov Overview
	for _, col := range []string{evaluation.ColJID, evaluation.ColAID} {
		if table.HasColumn(col) {
			ov.Headers = append(ov.Headers, Header{Column: col, Label: DisplayName(col)})
		}
	}
	for _, col := range OutcomeColumns(table) {
		ov.Headers = append(ov.Headers, Header{Column: col, Label: DisplayName(col), Status: true})
	}

	ov.Rows = make([][]Cell, 0, table.Len())
	for _, row := range table.Rows {
		cells := make([]Cell, len(ov.Headers))
		for i, h := range ov.Headers {
			v := row[h.Column]
			cells[i] = Cell{Text: evaluation.FormatValue(v)}
			if h.Status {
				cells[i].Status = statusOf(v)
			}
		}
		ov.Rows = append(ov.Rows, cells)
	}
	return ov
}

func passFail(v any) string {
	if evaluation.Truthy(v) {
		return evaluation.StatusPass
	}
	return evaluation.StatusFail
}

func buildDetail(table *evaluation.Table, row evaluation.Row, label string) *Detail {
	d := &Detail{
		Label:          label,
		JournalID:      row.Text(evaluation.ColJID),
		ArticleID:      row.Text(evaluation.ColAID),
		Title:          row.Text(evaluation.ColTitle),
		Timestamp:      row.Text(evaluation.ColTimestamp),
		EvaluationsRun: row.Text(evaluation.ColEvaluationsRun),
		SourceFile:     row.Text(evaluation.ColSourceFile),
		Aligned:        passFail(row[evaluation.ColAligned]),
		GoldAligned:    passFail(row[evaluation.ColGoldAligned]),
		Rationale:      row.Text(evaluation.ColRationale),
	}

	for _, col := range table.EvalColumns() {
		if strings.Contains(col, "which_one_executed") {
			continue
		}
		v, ok := row[col]
		if !ok {
			continue
		}
		result := evaluation.Normalize(v)
		d.Results = append(d.Results, ResultLine{
			Evaluation: DisplayName(col),
			Result:     evaluation.FormatValue(result),
			Status:     statusOf(result),
		})
	}
	return d
}
