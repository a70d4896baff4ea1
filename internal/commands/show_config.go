// internal/commands/show_config.go
package evaldash

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/evaldash/internal/appconfig"
)

var showConfigPretty bool

// configCmd groups configuration commands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

// showConfigCmd implements 'config show', which displays the merged configuration.
var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if showConfigPretty {
			pp.Fprintln(cmd.OutOrStdout(), *GetConfig())
			return
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), GetConfig())
	},
}

// validateConfigCmd implements 'config validate', which reads the config file
// directly and fails when it is missing or declares an unknown shape.
var validateConfigCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d declared kinds)\n", cfg.ConfigPath, len(cfg.Kinds))
		return nil
	},
}

func init() {
	showConfigCmd.Flags().BoolVar(&showConfigPretty, "pretty", false, "pretty-print the raw configuration struct")
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(validateConfigCmd)
	rootCmd.AddCommand(configCmd)
}
