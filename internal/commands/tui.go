// internal/commands/tui.go
package evaldash

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/evaldash/internal/tui"
	"github.com/mwiater/evaldash/internal/view"
)

// tuiCmd opens the terminal dashboard.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse evaluation results in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		loader, err := newLoader(cfg)
		if err != nil {
			return err
		}
		return tui.Run(loader, view.Options{TitleWidth: cfg.TitleLabelWidth()})
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
