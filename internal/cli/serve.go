package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the fact-check HTTP API",
	Long: `Serve exposes the engine over HTTP:
  POST /fact-check           {"text": "..."} split into claims and check each
  POST /v1/claims:evaluate   {"claim": "..."} full report for one claim
  GET  /healthz              liveness
  GET  /metrics              Prometheus metrics

Example:
  claimcheck serve
  claimcheck serve --addr :9000 --news`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr")); err != nil {
			return err
		}
		return bindEngineFlags(cmd, args)
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	addEngineFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	engine, err := pipeline.Build(cfg, logger)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(engine, cfg.Server, cfg.Concurrency.Workers, version, logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
