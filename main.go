package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"vectormag-cms/config"
	"vectormag-cms/handlers"
	"vectormag-cms/helper"
	"vectormag-cms/logger"
	"vectormag-cms/repositories"
	"vectormag-cms/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logData, err := logger.New().
		FromPath(cfg.Logging.Path).
		WithLevel(cfg.Logging.Level).
		Console(cfg.Logging.Format == "console").
		Make()
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logData.Close()
	log := logData.Logger

	gin.SetMode(cfg.Server.Mode)

	db, err := config.InitDB(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	revisionRepo := repositories.NewRevisionRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	subscriberRepo := repositories.NewSubscriberRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(db)

	// os.Exit skips deferred calls, so it runs last, after analytics.Stop.
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	// Initialize services
	analytics := services.NewAnalyticsService(analyticsRepo, articleRepo, cfg.Analytics.QueueSize, log)
	analytics.Start()
	defer analytics.Stop()

	svc := handlers.Services{
		Auth: services.NewAuthService(userRepo, cfg.JWT),
		Articles: services.NewArticleService(articleRepo, revisionRepo, tagRepo, categoryRepo, services.ContentOptions{
			MaxDepth:       cfg.Content.MaxDepth,
			WordsPerMinute: cfg.Content.WordsPerMinute,
			Logger:         log,
		}),
		Tags:       services.NewTagService(tagRepo),
		Categories: services.NewCategoryService(categoryRepo, articleRepo),
		Subscriber: services.NewSubscriberService(subscriberRepo),
		Media:      services.NewMediaService(cfg.Uploads),
		Analytics:  analytics,
	}

	router := handlers.NewRouter(svc, helper.NewHTTPHelper(log), cfg.Server, cfg.Uploads)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		log.Error().Err(err).Msg("server failed")
		exitCode = 1
		return
	case <-quit:
	}

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
