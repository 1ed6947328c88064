package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"aquasafi-monitor/internal/actions"
	"aquasafi-monitor/internal/admin"
	"aquasafi-monitor/internal/backend"
	"aquasafi-monitor/internal/config"
	"aquasafi-monitor/internal/demo"
	"aquasafi-monitor/internal/export"
	httpapi "aquasafi-monitor/internal/http"
	"aquasafi-monitor/internal/monitoring"
	"aquasafi-monitor/internal/session"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := session.NewStore(config.SessionFile(), log.Logger)

	var api backend.API
	if config.DemoMode() {
		log.Info().Msg("demo mode enabled, serving fixture data")
		api = demo.NewSource()
	} else {
		api = backend.NewClient(backend.Config{
			BaseURL: config.BackendURL(),
			Timeout: config.BackendTimeout(),
			Retries: config.BackendRetries(),
		}, store, log.Logger)
	}

	monitoringSvc := monitoring.NewService(api, log.Logger)
	adminSvc := admin.NewService(api, log.Logger)
	gateway := actions.NewGateway(api, monitoringSvc.Controller(), adminSvc.Controller(), log.Logger)
	downloader := export.NewDownloader(api, config.ExportDir(), log.Logger)

	monitoringSvc.Controller().Start(runCtx, config.PollInterval())
	adminSvc.Controller().Start(runCtx, config.AdminPollInterval())

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	httpapi.Register(app, httpapi.Deps{
		Monitoring:      monitoringSvc,
		Admin:           adminSvc,
		Actions:         gateway,
		Export:          downloader,
		Session:         store,
		API:             api,
		Log:             log.Logger,
		RunCtx:          runCtx,
		PollInterval:    config.PollInterval(),
		AdminPollEvery:  config.AdminPollInterval(),
		MinIntervalSecs: 5,
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down")
		cancel()
		monitoringSvc.Controller().Stop()
		adminSvc.Controller().Stop()
		_ = app.Shutdown()
	}()

	addr := config.ListenAddr()
	log.Info().Str("addr", addr).Msg("monitor console listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
