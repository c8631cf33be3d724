package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"trivia-rounds/internal/app"
	"trivia-rounds/internal/logging"
	transport "trivia-rounds/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logging.Bootstrap(cfg.Log.Level)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	repo, closeStore, err := openStateRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	service := app.NewGameService(repo, cfg.Game.TotalQuestions)
	if err := service.Restore(ctx); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logging.Log.Infof("starting trivia rounds service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logging.Log.Info("shutting down server...")
	case <-ctx.Done():
		logging.Log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
