// internal/commands/report.go
package evaldash

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/mwiater/evaldash/internal/report"
)

var (
	reportOutput  string
	reportFilters filterFlags
)

// reportCmd writes a self-contained HTML report.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a standalone HTML dashboard report",
	Long: `Load the configured data file and write the dashboard as a single HTML
file with inline SVG charts. The journal and alignment flags filter the report.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dash, err := buildDashboard(GetConfig(), reportFilters.filter())
		if err != nil {
			return err
		}

		html, err := report.Generate(dash, report.Options{GeneratedAt: time.Now()})
		if err != nil {
			return eris.Wrap(err, "render report")
		}
		if dir := filepath.Dir(reportOutput); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return eris.Wrapf(err, "create %s", dir)
			}
		}
		if err := os.WriteFile(reportOutput, []byte(html), 0o644); err != nil {
			return eris.Wrapf(err, "write %s", reportOutput)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", reportOutput)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "evaldash-report.html", "destination HTML file")
	reportFilters.register(reportCmd)
	rootCmd.AddCommand(reportCmd)
}
