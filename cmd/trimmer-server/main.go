// Command trimmer-server provides a REST API for adapter filtering.
//
// Usage:
//
//	trimmer-server [options]
//
// Options:
//
//	--config    YAML settings file
//	--host      Host to bind to (default: localhost)
//	--port      Port to listen on (default: 8080)
//	--verbose   Log at debug level
//
// Every setting can also be given as a TRIMMER_ environment variable, for
// example TRIMMER_SERVER_PORT=9000.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aria-lang/barcode-trimmer/api"
	"github.com/aria-lang/barcode-trimmer/api/handlers"
	"github.com/aria-lang/barcode-trimmer/internal/config"
	"github.com/aria-lang/barcode-trimmer/pkg/trimmer"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "trimmer-server"})
	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Fatal("server failed", "err", err)
	}
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	v := config.New()
	var settings string

	cmd := &cobra.Command{
		Use:           "trimmer-server",
		Short:         "Serve the barcode trimmer over HTTP",
		Version:       trimmer.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, settings)
			if err != nil {
				return err
			}
			configureLogger(logger, cfg.LogLevel, v.GetBool("verbose"))
			return serve(cmd.Context(), cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&settings, "config", "c", "", "YAML settings file")
	flags.String("host", "localhost", "host to bind to")
	flags.IntP("port", "p", 8080, "port to listen on")
	flags.BoolP("verbose", "v", false, "log at debug level")
	v.BindPFlag("server.host", flags.Lookup("host"))
	v.BindPFlag("server.port", flags.Lookup("port"))
	v.BindPFlag("verbose", flags.Lookup("verbose"))
	return cmd
}

func configureLogger(logger *log.Logger, level string, verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log_level, defaulting to info", "provided", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
}

func serve(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	mode, err := cfg.ClassifyMode()
	if err != nil {
		return err
	}

	handler := api.NewRouter(api.RouterConfig{
		Filter: handlers.FilterConfig{
			Defaults: trimmer.Options{
				Scoring:       cfg.Scoring,
				Mode:          mode,
				Workers:       cfg.Workers,
				ProgressEvery: cfg.ProgressEvery,
			},
			MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		},
		Timeout: cfg.Server.WriteTimeout,
		Logger:  logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * 4,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", "http://"+server.Addr, "mode", mode, "min_score", cfg.Scoring.MinScore)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("server is shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	server.SetKeepAlivesEnabled(false)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
