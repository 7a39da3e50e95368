package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"snaplink/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP resolve and relay service",
	Args:  cobra.NoArgs,
	RunE:  serveRun,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config)")
}

func serveRun(cmd *cobra.Command, args []string) error {
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	svc, closeHistory, err := newService()
	if err != nil {
		return err
	}
	defer closeHistory()

	handler := server.New(svc, newRelay(), server.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		GzipLevel:      cfg.GzipLevel,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx := cmd.Context()
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
