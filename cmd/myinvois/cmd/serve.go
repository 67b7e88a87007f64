package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/myinvois/internal/logger"
	"github.com/rezonia/myinvois/internal/server"
	"github.com/rezonia/myinvois/internal/signature/trust"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for transforming and validating invoices.

The API provides endpoints for:
  - POST /api/v1/transform      - Invoice JSON to envelope JSON (?format=xml, ?strict=true)
  - POST /api/v1/validate       - Validate invoice JSON
  - POST /api/v1/verify         - Verify a signed XML invoice
  - GET  /api/v1/codes/:table   - Code table lookup (?q=search)
  - GET  /metrics               - Prometheus metrics
  - GET  /health                - Health check

Examples:
  # Start server on default port
  myinvois serve

  # Start on custom port in debug mode
  myinvois serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("address", ":8080", "Server listen address")
	serveCmd.Flags().Bool("debug", false, "Enable debug mode")
	serveCmd.Flags().Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	serveCmd.Flags().StringVar(&caFile, "ca-file", "", "Trusted root certificates for /verify (PEM)")

	for key, name := range map[string]string{
		"server.address":       "address",
		"server.debug":         "debug",
		"server.read_timeout":  "read-timeout",
		"server.write_timeout": "write-timeout",
	} {
		if err := v.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// the server logs JSON for collectors rather than the console format
	level := cfg.LogLevel
	if cfg.Server.Debug {
		level = "debug"
	}
	serverLog, err := logger.New(level)
	if err != nil {
		return err
	}
	defer func() { _ = serverLog.Sync() }()

	var opts []trust.TrustStoreOption
	if caFile != "" {
		opts = append(opts, trust.WithCertsFromFile(caFile))
	}
	trustStore, err := trust.NewTrustStore(opts...)
	if err != nil {
		return err
	}

	srv := server.NewServer(&server.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Debug:        cfg.Server.Debug,
		Logger:       serverLog,
		TrustStore:   trustStore,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return err
	}
	serverLog.Info("server stopped", zap.String("address", cfg.Server.Address))
	return nil
}
