package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"github.com/sf-developer/video-player/internal/config"
	"github.com/sf-developer/video-player/internal/db"
	"github.com/sf-developer/video-player/internal/handler"
	"github.com/sf-developer/video-player/internal/middleware"
	"github.com/sf-developer/video-player/internal/repository"
	"github.com/sf-developer/video-player/internal/router"
	"github.com/sf-developer/video-player/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		middleware.InitLogger("info", "pvp-api")
		middleware.Logger.Fatal().Err(err).Msg("failed to load config")
	}

	middleware.InitLogger(cfg.LogLevel, "pvp-api")
	log := middleware.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, log.With().Str("component", "db").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL, cfg.PlayerCacheTTL, log.With().Str("component", "cache").Logger())
	defer cache.Close()
	cache.SetCounters(handler.Metrics.CacheHits, handler.Metrics.CacheMisses)

	// Repositories
	playerRepo := repository.NewPlayerRepo(pool)
	eventRepo := repository.NewEventRepo(pool)
	notificationRepo := repository.NewNotificationRepo(pool)
	activityRepo := repository.NewActivityRepo(pool)
	banRepo := repository.NewBanRepo(pool)
	commentRepo := repository.NewCommentRepo(pool)
	emailRepo := repository.NewEmailRepo(pool)
	settingRepo := repository.NewSettingRepo(pool)

	// Third-party clients
	geo := service.NewGeoClient(cfg.GeoBaseURL, cfg.GeoTimeout, log.With().Str("component", "geo").Logger())
	geo.SetFailureCounter(handler.Metrics.UpstreamFailures)
	support := service.NewSupportClient(cfg.FeaturesURL, cfg.BannedURLCheckURL, cfg.SiteURL, cfg.GeoTimeout,
		log.With().Str("component", "support").Logger())
	support.SetFailureCounter(handler.Metrics.UpstreamFailures)
	mailer := service.NewSMTPMailer(service.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPFrom,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		UseTLS:   cfg.SMTPTLS,
	})

	// Services
	playerSvc := service.NewPlayerService(playerRepo, cache, cfg.DefaultThumbnail, log.With().Str("component", "players").Logger())
	eventSvc := service.NewEventService(eventRepo, notificationRepo, activityRepo, banRepo, settingRepo, playerSvc, geo,
		log.With().Str("component", "events").Logger())
	statsSvc := service.NewStatsService(eventRepo, commentRepo)
	commentSvc := service.NewCommentService(commentRepo, eventRepo, notificationRepo, eventSvc, playerSvc,
		log.With().Str("component", "comments").Logger())
	notificationSvc := service.NewNotificationService(notificationRepo, playerSvc, log.With().Str("component", "notifications").Logger())
	banSvc := service.NewBanService(banRepo, log.With().Str("component", "bans").Logger())
	emailSvc := service.NewEmailService(emailRepo, playerSvc, mailer, log.With().Str("component", "emails").Logger())
	settingsSvc := service.NewSettingsService(settingRepo, geo, log.With().Str("component", "settings").Logger())
	supportSvc := service.NewSupportService(support, mailer, cfg.SupportEmail, log.With().Str("component", "support").Logger())

	// Evict cached players changed by other instances
	worker := service.NewPlayerWorker(pool, cache, log.With().Str("component", "player-worker").Logger())
	go worker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "Pana Video Player API",
		ServerHeader: "pvp",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	router.Setup(app, &router.Handlers{
		Health:       handler.NewHealthHandler(pool, cache.Client()),
		Public:       handler.NewPublicHandler(eventSvc),
		Player:       handler.NewPlayerHandler(playerSvc),
		Stats:        handler.NewStatsHandler(statsSvc, playerSvc, settingsSvc),
		Comment:      handler.NewCommentHandler(commentSvc),
		Notification: handler.NewNotificationHandler(notificationSvc),
		Ban:          handler.NewBanHandler(banSvc),
		Email:        handler.NewEmailHandler(emailSvc),
		Export:       handler.NewExportHandler(emailSvc),
		Settings:     handler.NewSettingsHandler(settingsSvc, supportSvc),
	}, cfg.CORSOrigins)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}()

	log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Environment).Msg("pvp api starting")
	if err := app.Listen(cfg.Addr(), fiber.ListenConfig{DisableStartupMessage: cfg.IsProduction()}); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
