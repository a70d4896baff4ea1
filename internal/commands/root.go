// internal/commands/root.go
package evaldash

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/evaldash/internal/appconfig"
	"github.com/mwiater/evaldash/internal/dataset"
	"github.com/mwiater/evaldash/internal/logging"
	"github.com/mwiater/evaldash/internal/view"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "evaldash",
	Short: "evaldash - dashboard for manuscript evaluation results",
	Long: `evaldash flattens evaluation result files into a uniform table and presents
them as an HTTP dashboard, a terminal UI, a static HTML report or plain output.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = cfgFile
		if _, err := cfg.Schema(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg

		opts := logging.Options{
			Path:    currentConfig.LogFilePath(),
			Debug:   currentConfig.Debug,
			Console: currentConfig.Debug && cmd.Name() != "tui",
		}
		if err := logging.Init(opts); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.LogPayload("config loaded", currentConfig)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("data", "", "results file loaded when nothing is uploaded (default merged_results.json)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("dataFile", rootCmd.PersistentFlags().Lookup("data"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file; a missing file leaves the defaults.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		return &appconfig.Config{}
	}
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// newLoader builds a dataset loader from the configured data file and kinds.
func newLoader(cfg *appconfig.Config) (*dataset.Loader, error) {
	schema, err := cfg.Schema()
	if err != nil {
		return nil, err
	}
	return dataset.NewLoader(cfg.DataFilePath(), schema), nil
}

// filterFlags are the journal and alignment selections shared by the
// non-interactive commands.
type filterFlags struct {
	journal   string
	alignment string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.journal, "journal", view.AllJournals, "only include this journal id")
	cmd.Flags().StringVar(&f.alignment, "alignment", string(view.AlignmentAll), "All, Aligned or Not Aligned")
}

func (f *filterFlags) filter() view.Filter {
	return view.Filter{Journal: f.journal, Alignment: view.ParseAlignment(f.alignment)}
}

// buildDashboard loads the configured data file and derives the dashboard.
func buildDashboard(cfg *appconfig.Config, filter view.Filter) (view.Dashboard, error) {
	loader, err := newLoader(cfg)
	if err != nil {
		return view.Dashboard{}, err
	}
	data, err := loader.Load(nil)
	if err != nil {
		return view.ErrorDashboard(err), err
	}
	d := view.Build(data.Table, filter, view.Options{TitleWidth: cfg.TitleLabelWidth()})
	d.Source = data.Source
	return d, nil
}
