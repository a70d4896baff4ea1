// internal/commands/summary.go
package evaldash

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/evaldash/internal/view"
)

var summaryFilters filterFlags

var (
	passText    = color.New(color.FgGreen).SprintFunc()
	failText    = color.New(color.FgRed).SprintFunc()
	warningText = color.New(color.FgYellow).SprintFunc()
	headingText = color.New(color.Bold).SprintFunc()
)

// summaryCmd prints summary statistics and pass rates.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print summary statistics and pass rates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dash, err := buildDashboard(GetConfig(), summaryFilters.filter())
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), dash)
		return nil
	},
}

func init() {
	summaryFilters.register(summaryCmd)
	rootCmd.AddCommand(summaryCmd)
}

func printSummary(out io.Writer, d view.Dashboard) {
	fmt.Fprintln(out, headingText(d.Title))
	if d.Source != "" {
		fmt.Fprintf(out, "Source: %s\n", d.Source)
	}
	if !d.Ready() {
		fmt.Fprintln(out, warningText(d.Warning))
		return
	}
	fmt.Fprintf(out, "Filters: journal=%s alignment=%s\n\n", d.Filter.Journal, d.Filter.Alignment)

	s := d.Summary
	fmt.Fprintln(out, headingText("Summary Statistics"))
	fmt.Fprintf(out, "  Total Records:     %d\n", s.TotalRecords)
	fmt.Fprintf(out, "  Unique Journals:   %d\n", s.UniqueJournals)
	fmt.Fprintf(out, "  Date Range:        %s to %s\n", s.DateFrom, s.DateTo)
	if s.HasAligned {
		fmt.Fprintf(out, "  Aligned:           %.1f%%\n", s.AlignedPct)
		fmt.Fprintf(out, "  Not Aligned:       %.1f%%\n", s.NotAlignedPct)
	}
	if s.HasGoldAligned {
		fmt.Fprintf(out, "  Gold Aligned:      %.1f%%\n", s.GoldAlignedPct)
	}
	fmt.Fprintf(out, "  Evaluation Types:  %d\n", s.EvaluationTypes)
	if s.HasSuccessRate {
		fmt.Fprintf(out, "  Avg Success Rate:  %s\n", rateText(s.AverageSuccess))
	}

	if len(d.Charts.PassRates) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, headingText("Evaluation Pass Rates"))
	width := 0
	for _, r := range d.Charts.PassRates {
		width = max(width, len(r.Evaluation))
	}
	for _, r := range d.Charts.PassRates {
		fmt.Fprintf(out, "  %-*s  %s (%d/%d)\n", width, r.Evaluation, rateText(r.Percent), r.Passed, r.Total)
	}
}

func rateText(pct float64) string {
	text := fmt.Sprintf("%.1f%%", pct)
	if pct >= 50 {
		return passText(text)
	}
	return failText(text)
}
