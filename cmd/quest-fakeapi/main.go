// Command quest-fakeapi serves the in-memory quest backend for local
// development. It is seeded with the demo account.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"questrpg/internal/fakeapi"
	"questrpg/pkg/logger"
)

var (
	addr         string
	secret       string
	daysRequired int
	logLevel     string
	accessLog    bool
)

var rootCmd = &cobra.Command{
	Use:          "quest-fakeapi",
	Short:        "Run the in-memory quest backend",
	SilenceUsage: true,
	RunE:         serve,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&addr, "addr", "localhost:8000", "listen address")
	flags.StringVar(&secret, "secret", "", "JWT signing secret")
	flags.IntVar(&daysRequired, "days-required", 5, "perfect weekdays needed to unlock the weekly boss")
	flags.StringVar(&logLevel, "log-level", "info", "log level")
	flags.BoolVar(&accessLog, "access-log", true, "log every request")
}

func serve(cmd *cobra.Command, args []string) error {
	if err := logger.Init(logger.Config{Level: logLevel, Format: "text", Output: "stderr"}); err != nil {
		return err
	}
	defer logger.Sync()

	srv := fakeapi.New(fakeapi.Options{
		JWTSecret:    secret,
		DaysRequired: daysRequired,
		AccessLog:    accessLog,
	})
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("http server panic: %v", r)
			}
		}()
		logger.Infof("Serving %s on http://%s (demo login %s / %s)",
			fakeapi.APIPrefix, addr, fakeapi.DemoEmail, fakeapi.DemoPassword)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-errCh:
		return err
	}

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Shutdown complete")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
