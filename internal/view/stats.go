// internal/view/stats.go
package view

import (
	"sort"

	"github.com/mwiater/evaldash/internal/evaluation"
)

const (
	labelAligned    = "Aligned"
	labelNotAligned = "Not Aligned"
)

func buildCharts(table *evaluation.Table) Charts {
	return Charts{
		Alignment: alignmentCounts(table),
		Journals:  journalCounts(table),
		PassRates: PassRates(table),
	}
}

func alignmentCounts(table *evaluation.Table) []Count {
	var aligned, notAligned int
	for _, row := range table.Rows {
		v, ok := flag(row[evaluation.ColAligned])
		if !ok {
			continue
		}
		if v {
			aligned++
		} else {
			notAligned++
		}
	}
	var counts []Count
	if aligned > 0 {
		counts = append(counts, Count{Label: labelAligned, Count: aligned})
	}
	if notAligned > 0 {
		counts = append(counts, Count{Label: labelNotAligned, Count: notAligned})
	}
	sortCounts(counts)
	return counts
}

func journalCounts(table *evaluation.Table) []Count {
	index := make(map[string]int)
	var counts []Count
	for _, row := range table.Rows {
		jid := row.Text(evaluation.ColJID)
		i, ok := index[jid]
		if !ok {
			i = len(counts)
			index[jid] = i
			counts = append(counts, Count{Label: jid})
		}
		counts[i].Count++
	}
	sortCounts(counts)
	return counts
}

// sortCounts orders by count descending, then label ascending.
func sortCounts(counts []Count) {
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})
}

// PassRates computes the share of "Pass" values for every outcome column whose
// present values are all canonical statuses. Rows without the column are not
// counted.
func PassRates(table *evaluation.Table) []Rate {
	var rates []Rate
	for _, col := range OutcomeColumns(table) {
		rate := Rate{Evaluation: DisplayName(col), Column: col}
		statusOnly := true
		for _, row := range table.Rows {
			v, ok := row[col]
			if !ok || v == nil {
				continue
			}
			if !evaluation.IsStatus(v) {
				statusOnly = false
				break
			}
			rate.Total++
			if v == evaluation.StatusPass {
				rate.Passed++
			}
		}
		if !statusOnly || rate.Total == 0 {
			continue
		}
		rate.Percent = percent(rate.Passed, rate.Total)
		rates = append(rates, rate)
	}
	return rates
}

func buildSummary(table *evaluation.Table, rates []Rate) Summary {
	s := Summary{
		TotalRecords:    table.Len(),
		EvaluationTypes: len(table.EvalColumns()),
	}

	journals := make(map[string]struct{})
	var aligned, gold int
	for _, row := range table.Rows {
		journals[row.Text(evaluation.ColJID)] = struct{}{}

		if ts := row.Text(evaluation.ColTimestamp); ts != "" {
			if s.DateFrom == "" || ts < s.DateFrom {
				s.DateFrom = ts
			}
			if ts > s.DateTo {
				s.DateTo = ts
			}
		}
		if v, ok := flag(row[evaluation.ColAligned]); ok && v {
			aligned++
		}
		if v, ok := flag(row[evaluation.ColGoldAligned]); ok && v {
			gold++
		}
	}
	s.UniqueJournals = len(journals)

	if table.HasColumn(evaluation.ColAligned) {
		s.HasAligned = true
		s.AlignedPct = percent(aligned, s.TotalRecords)
		s.NotAlignedPct = 100 - s.AlignedPct
	}
	if table.HasColumn(evaluation.ColGoldAligned) {
		s.HasGoldAligned = true
		s.GoldAlignedPct = percent(gold, s.TotalRecords)
	}

	if len(rates) > 0 {
		var sum float64
		for _, r := range rates {
			sum += r.Percent
		}
		s.HasSuccessRate = true
		s.AverageSuccess = sum / float64(len(rates))
	}
	return s
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
