package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/assessment-paper-service/internal/handlers"
	"github.com/SAP-F-2025/assessment-paper-service/internal/utils"
)

func newServeCmd(envFile, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *envFile, *port)
		},
	}
}

func runServer(ctx context.Context, envFile, port string) error {
	cfg, logger, err := loadConfig(envFile, port)
	if err != nil {
		return err
	}
	a, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if _, err := a.services.Branding().EnsureDefault(ctx); err != nil {
		logger.Warn("Failed to seed default branding", "error", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	appLogger := utils.NewSlogLogger(logger)
	router := gin.New()
	handlers.SetupMiddleware(router, appLogger, cfg.CORSAllowedOrigins)
	handlers.NewHandlerManager(a.services, a.metrics, appLogger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case <-stop:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context canceled, shutting down server...")
	case serveErr = <-errCh:
		logger.Error("Server failed", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	a.close(shutdownCtx)

	logger.Info("Server exited")
	return serveErr
}
