// internal/view/view_test.go
package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/evaldash/internal/evaluation"
)

const fixture = `[
  {
    "metadata": {"timestamp": "2025-02-03T08:00:00", "evaluations_run": ["decision_accuracy", "groundedness"]},
    "input_data": {"jid": "bmj", "aid": "a1", "aligned": true, "gold_aligned": true,
                   "title": "A very long manuscript title that keeps going well past fifty characters", "rationale": "good fit"},
    "evaluation_results": {
      "decision_accuracy": true,
      "groundedness": {"grounded": true, "reason": "cited"},
      "scope": {"Eval_Status": "fail", "which_one_executed": "rule_a"}
    },
    "source_file": "run1.json"
  },
  {
    "metadata": {"timestamp": "2025-02-01T08:00:00", "evaluations_run": ["decision_accuracy"]},
    "input_data": {"jid": "nejm", "aid": "a2", "aligned": false, "gold_aligned": true, "title": "Short"},
    "evaluation_results": {"decision_accuracy": false, "custom": {"score": 0.25}},
    "source_file": "run1.json"
  },
  {
    "metadata": {"timestamp": "2025-02-02T08:00:00", "evaluations_run": ["decision_accuracy"]},
    "input_data": {"jid": "BMJ", "aid": "a3", "aligned": false, "gold_aligned": false, "title": "Third"},
    "evaluation_results": {"decision_accuracy": "pass", "groundedness": {"grounded": false}},
    "source_file": "run2.json"
  }
]`

func loadFixture(t *testing.T) *evaluation.Table {
	t.Helper()
	table, err := evaluation.NewFlattener(nil).FlattenDocument([]byte(fixture))
	require.NoError(t, err)
	return table
}

func TestBuildEmptyTable(t *testing.T) {
	d := Build(evaluation.NewTable(), Filter{}, Options{})
	assert.Equal(t, EmptyWarning, d.Warning)
	assert.False(t, d.Ready())
	assert.Nil(t, d.Detail)
	assert.Empty(t, d.Overview.Rows)
}

func TestErrorDashboard(t *testing.T) {
	d := ErrorDashboard(errors.New("boom"))
	assert.Equal(t, "Error loading data: boom", d.Error)
	assert.False(t, d.Ready())
}

func TestBuildAllRecords(t *testing.T) {
	d := Build(loadFixture(t), Filter{}, Options{})
	require.True(t, d.Ready())

	assert.Equal(t, []string{"All", "BMJ", "NEJM"}, d.JournalOptions)
	assert.Equal(t, AlignmentAll, d.Filter.Alignment)

	labels := make([]string, 0, len(d.Overview.Headers))
	for _, h := range d.Overview.Headers {
		labels = append(labels, h.Label)
	}
	assert.Equal(t, []string{"Jid", "Aid", "Decision Accuracy", "Groundedness", "Scope", "Custom Score"}, labels)
	require.Len(t, d.Overview.Rows, 3)
	assert.Equal(t, Cell{Text: "Pass", Status: "Pass"}, d.Overview.Rows[0][2])
	assert.Equal(t, Cell{Text: "0.25"}, d.Overview.Rows[1][5])
	assert.Equal(t, Cell{}, d.Overview.Rows[2][4], "absent values render empty")

	require.Len(t, d.RecordOptions, 3)
	assert.Equal(t, "BMJ - a1 - A very long manuscript title that keeps going well...", d.RecordOptions[0])
	assert.Equal(t, "NEJM - a2 - Short...", d.RecordOptions[1])
}

func TestBuildDetailForSelectedRecord(t *testing.T) {
	d := Build(loadFixture(t), Filter{Record: "NEJM - a2 - Short..."}, Options{})
	require.NotNil(t, d.Detail)

	assert.Equal(t, "NEJM", d.Detail.JournalID)
	assert.Equal(t, "Fail", d.Detail.Aligned)
	assert.Equal(t, "Pass", d.Detail.GoldAligned)
	assert.Equal(t, evaluation.DefaultRationale, d.Detail.Rationale)
	assert.Equal(t, []ResultLine{
		{Evaluation: "Decision Accuracy", Result: "Fail", Status: "Fail"},
		{Evaluation: "Custom Score", Result: "0.25"},
	}, d.Detail.Results)
}

func TestDetailIncludesReasonButNotExecuted(t *testing.T) {
	d := Build(loadFixture(t), Filter{}, Options{})
	require.NotNil(t, d.Detail)

	var names []string
	for _, r := range d.Detail.Results {
		names = append(names, r.Evaluation)
	}
	assert.Equal(t, []string{"Decision Accuracy", "Groundedness", "Groundedness Reason", "Scope"}, names)
}

func TestUnknownRecordSelectsFirst(t *testing.T) {
	d := Build(loadFixture(t), Filter{Record: "nope"}, Options{TitleWidth: 5})
	assert.Equal(t, "BMJ - a1 - A ver...", d.Filter.Record)
	assert.Equal(t, "BMJ", d.Detail.JournalID)
}

func TestJournalFilter(t *testing.T) {
	d := Build(loadFixture(t), Filter{Journal: "bmj"}, Options{})
	require.True(t, d.Ready())
	assert.Len(t, d.Overview.Rows, 2)
	assert.Equal(t, "BMJ", d.Filter.Journal)
	assert.Equal(t, []Count{{Label: "BMJ", Count: 2}}, d.Charts.Journals)
	assert.Equal(t, []string{"All", "BMJ", "NEJM"}, d.JournalOptions, "options come from the unfiltered table")
}

func TestAlignmentFilter(t *testing.T) {
	aligned := Build(loadFixture(t), Filter{Alignment: AlignmentAligned}, Options{})
	assert.Len(t, aligned.Overview.Rows, 1)

	notAligned := Build(loadFixture(t), Filter{Alignment: "not aligned"}, Options{})
	assert.Len(t, notAligned.Overview.Rows, 2)
	assert.Equal(t, AlignmentNotAligned, notAligned.Filter.Alignment)
}

func TestFiltersExcludingEverything(t *testing.T) {
	d := Build(loadFixture(t), Filter{Journal: "NEJM", Alignment: AlignmentAligned}, Options{})
	assert.Equal(t, NoMatchWarning, d.Warning)
	assert.NotEmpty(t, d.JournalOptions)
}

func TestCharts(t *testing.T) {
	d := Build(loadFixture(t), Filter{}, Options{})

	assert.Equal(t, []Count{{Label: "Not Aligned", Count: 2}, {Label: "Aligned", Count: 1}}, d.Charts.Alignment)
	assert.Equal(t, []Count{{Label: "BMJ", Count: 2}, {Label: "NEJM", Count: 1}}, d.Charts.Journals)

	require.Len(t, d.Charts.PassRates, 3)
	byCol := make(map[string]Rate)
	for _, r := range d.Charts.PassRates {
		byCol[r.Column] = r
	}
	assert.InDelta(t, 66.666, byCol["eval_decision_accuracy"].Percent, 0.01)
	assert.Equal(t, 2, byCol["eval_groundedness"].Total)
	assert.InDelta(t, 50, byCol["eval_groundedness"].Percent, 0.001)
	assert.InDelta(t, 0, byCol["eval_scope"].Percent, 0.001)
	_, hasScore := byCol["eval_custom_score"]
	assert.False(t, hasScore, "numeric columns have no pass rate")
}

func TestSummary(t *testing.T) {
	s := Build(loadFixture(t), Filter{}, Options{}).Summary

	assert.Equal(t, 3, s.TotalRecords)
	assert.Equal(t, 2, s.UniqueJournals)
	assert.Equal(t, "2025-02-01T08:00:00", s.DateFrom)
	assert.Equal(t, "2025-02-03T08:00:00", s.DateTo)
	assert.True(t, s.HasAligned)
	assert.InDelta(t, 33.333, s.AlignedPct, 0.01)
	assert.InDelta(t, 66.666, s.NotAlignedPct, 0.01)
	assert.InDelta(t, 66.666, s.GoldAlignedPct, 0.01)
	assert.Equal(t, 6, s.EvaluationTypes)
	assert.True(t, s.HasSuccessRate)
	assert.InDelta(t, (200.0/3+50+0)/3, s.AverageSuccess, 0.01)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Decision Accuracy", DisplayName("eval_decision_accuracy"))
	assert.Equal(t, "Scope Which One Executed", DisplayName("eval_scope_which_one_executed"))
	assert.Equal(t, "Jid", DisplayName("jid"))
}

func TestParseAlignmentAndNext(t *testing.T) {
	assert.Equal(t, AlignmentAligned, ParseAlignment("TRUE"))
	assert.Equal(t, AlignmentNotAligned, ParseAlignment("Not Aligned"))
	assert.Equal(t, AlignmentAll, ParseAlignment("whatever"))

	assert.Equal(t, AlignmentAligned, AlignmentAll.Next())
	assert.Equal(t, AlignmentNotAligned, AlignmentAligned.Next())
	assert.Equal(t, AlignmentAll, AlignmentNotAligned.Next())
}

func TestRecordLabelCountsRunes(t *testing.T) {
	row := evaluation.Row{"jid": "J", "aid": "A", "title": strings.Repeat("é", 60)}
	assert.Equal(t, "J - A - "+strings.Repeat("é", 50)+"...", RecordLabel(row, 50))
}
