package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/serverapp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		addr    string
		dataDir string
	)

	cmd := &cobra.Command{
		Use:          "taskboard-server",
		Short:        "Serve the task board HTTP API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.Storage.DataDir = dataDir
			}

			log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			slog.SetDefault(log)

			handler, err := serverapp.NewHandler(serverapp.Options{Config: cfg, Logger: log})
			if err != nil {
				return fmt.Errorf("build server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return err
			}
			log.Info("listening", "addr", ln.Addr().String(), "data_dir", cfg.Storage.DataDir)
			return serve(ctx, ln, handler, cfg.Server.ShutdownTimeout, log)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config file (default ./"+config.DefaultFileName+" if present)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "data directory, overrides storage.data_dir")
	return cmd
}

// serve runs h on ln until ctx is cancelled, then drains in-flight
// requests for at most timeout.
func serve(ctx context.Context, ln net.Listener, h http.Handler, timeout time.Duration, log *slog.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
