package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/binderhq/binder"
	"github.com/binderhq/binder/config"
	"github.com/binderhq/binder/database"
	binderhttp "github.com/binderhq/binder/http"
	"github.com/binderhq/binder/objectstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the Binder HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port")
	serveCmd.Flags().String("bucket", "", "S3 bucket for file uploads (env: BINDER_STORAGE_BUCKET)")
	serveCmd.Flags().String("region", "", "S3 region (env: BINDER_STORAGE_REGION)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	repo, closeDB, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()

	slog.Info("connected to database", "type", cfg.Database.Type)

	signer, err := objectstore.NewSigner(cfg.Storage)
	if err != nil {
		return fmt.Errorf("create upload signer: %w", err)
	}

	service := binder.NewItemService(repo, signer)

	handlerConfig := binderhttp.HandlerConfig{CORS: cfg.CORS}
	handler := binderhttp.NewHandler(&handlerConfig, service)

	router := chi.NewRouter()
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if pingErr := repo.Ping(r.Context()); pingErr != nil {
			binderhttp.WriteError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		binderhttp.WriteJSON(w, http.StatusOK, binderhttp.Payload{Success: true, Message: "ok"})
	})
	router.Mount("/api/documents", handler.Router())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr, "bucket", cfg.Storage.Bucket)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
