// internal/commands/serve.go
package evaldash

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/evaldash/internal/server"
)

// serveCmd runs the interactive HTTP dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over HTTP",
	Long: `Serve the dashboard with upload, reset, journal and alignment filters and
record details. The configured data file is shown until a file is uploaded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		loader, err := newLoader(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(loader, server.Options{
			Addr:           cfg.Addr(),
			TitleWidth:     cfg.TitleLabelWidth(),
			MaxUploadBytes: cfg.MaxUploadBytes(),
		})
		fmt.Fprintf(cmd.OutOrStdout(), "Dashboard available at http://%s (data file: %s)\n", cfg.Addr(), loader.DefaultPath())
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "interface to bind (default 127.0.0.1)")
	serveCmd.Flags().Int("port", 0, "port to listen on (default 8501)")
	_ = viper.BindPFlag("host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}
