package cmd

import (
	"os"

	"github.com/nfrund/codebattle/internal/app"
	"github.com/nfrund/codebattle/internal/config"
	"github.com/nfrund/codebattle/internal/logging"
	"github.com/spf13/cobra"
)

var (
	serveAddr   string
	serveStatic string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Code Battle web server",
	Long: `Start the web server. Configuration is read from the environment and an
optional .env file; the flags below override the matching variables.

Examples:
  codebattle-cli serve
  codebattle-cli serve --addr :3000 --static disk`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			os.Setenv("ADDR", serveAddr)
		}
		if cmd.Flags().Changed("static") {
			os.Setenv("APP_STATIC", serveStatic)
		}

		cfg, err := config.New()
		if err != nil {
			return err
		}
		logger := logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())
		return app.Serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address (ADDR)")
	serveCmd.Flags().StringVar(&serveStatic, "static", "embed", "Static asset source: embed or disk (APP_STATIC)")
}
