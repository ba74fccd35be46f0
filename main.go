package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"glycorisk/internal"
	"glycorisk/internal/config"
	"glycorisk/internal/container"
	"glycorisk/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := internal.DefaultLogger

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	logger = internal.Configure(appConfig.Log.Level, appConfig.Log.Format)
	gin.SetMode(appConfig.Server.GinMode)

	if err := run(appConfig, logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(appConfig *config.Config, logger *internal.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		return err
	}
	if err := appContainer.Init(ctx); err != nil {
		return err
	}
	defer appContainer.Shutdown(context.Background())

	server, err := ui.NewServer(ui.Options{
		Presenter:    appContainer.Presenter,
		Predictor:    appContainer.PredictionService,
		Sessions:     appContainer.SessionRepo,
		API:          appContainer.APIHandler(),
		CookieName:   appConfig.Session.CookieName,
		CookieTTL:    appConfig.Session.TTL,
		SecureCookie: appConfig.Session.Secure,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    ":" + appConfig.Server.Port,
		Handler: server.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting diabetes risk UI on http://localhost:%s", appConfig.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		appContainer.RunBackground(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server exited")
	return nil
}
