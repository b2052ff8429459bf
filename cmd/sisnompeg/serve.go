package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"sisnompeg_admin/internal/infra/logger"
	"sisnompeg_admin/internal/infra/rest"
	"sisnompeg_admin/internal/infra/scheduler"
	"sisnompeg_admin/internal/infra/telegram"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var noScheduler bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API, the KGB scheduler and the optional Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), noScheduler)
		},
	}
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "do not run the scheduled KGB pass")
	return cmd
}

func runServe(parent context.Context, noScheduler bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	log := logger.Component("main")

	if a.cfg.KGBSchedulerEnabled && !noScheduler {
		kgbScheduler := scheduler.NewKGBScheduler(a.services.KGB, logger.Component("scheduler"), a.cfg.CronSpecKGB, a.cfg.Location)
		if err := kgbScheduler.Start(); err != nil {
			return err
		}
		defer kgbScheduler.Stop()
	}

	if a.bot != nil {
		botLog := logger.Component("telegram")
		telegram.RegisterBotCommands(a.bot, a.cfg.AdminTelegramID, botLog)
		telegram.RegisterAdminHandlers(ctx, a.bot, a.services.KGB, a.services.Employees, a.cfg.AdminTelegramID, botLog)
		a.polling = true
		go a.bot.Start()
		log.Info("Telegram bot started")
	}

	if a.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := rest.NewRouter(a.services, rest.RouterConfig{CORSOrigins: a.cfg.CORSOrigins}, logger.Component("http"))
	ln, port, err := rest.Listen(a.cfg.Port, log)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", port).Info("HTTP server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("Shutting down application...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	log.Info("Application shut down gracefully")
	return nil
}
