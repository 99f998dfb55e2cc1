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

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-coopconnect-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-coopconnect-go/pkg/utilities"
)

func main() {
	// best-effort: without a .env file the real environment is used
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "coopconnect-api",
		Short:        "City statistics and job posting API",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "ping",
			Short: "Check database connectivity and exit",
			RunE:  runPing,
		},
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.SugaredLogger, func(), error) {
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return lg.Sugar(), func() { _ = lg.Sync() }, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	sugar, sync, err := newLogger()
	if err != nil {
		return err
	}
	defer sync()

	sugar.Info("starting coopconnect-api")

	db, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		sugar.Errorf("db connect: %v", err)
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:4000"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.RegisterRoutes(sugar, db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		sugar.Errorf("http server failed: %v", err)
		return err
	}

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
	return nil
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg := database.ConfigFromEnv()
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	fmt.Fprintln(cmd.OutOrStdout(), "database reachable")
	return nil
}
