package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"sisnompeg_admin/internal/app"
	"sisnompeg_admin/internal/domain/notify"
	"sisnompeg_admin/internal/infra/config"
	idb "sisnompeg_admin/internal/infra/database"
	"sisnompeg_admin/internal/infra/logger"
	"sisnompeg_admin/internal/infra/mail"
	"sisnompeg_admin/internal/infra/rest"
	"sisnompeg_admin/internal/infra/telegram"
)

// application holds every wired component.
type application struct {
	cfg      *config.AppConfig
	db       *sql.DB
	bot      *telebot.Bot // nil unless Telegram is configured
	polling  bool
	services rest.Services
}

// bootstrap loads configuration, connects to the datastore and wires the
// services. The datastore must answer the startup probe.
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("could not load application configuration: %w", err)
	}
	logger.Init(cfg)
	log := logger.Component("main")
	log.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"timezone":    cfg.Location.String(),
	}).Info("Configuration loaded")

	dsn, err := idb.SupabaseDSN(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)
	if err != nil {
		return nil, err
	}
	db, err := idb.NewPostgresConnection(dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	if err := idb.WaitReady(ctx, db, logger.Component("database")); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("Database connection established successfully")

	a := &application{cfg: cfg, db: db}

	var mirrors []notify.Notifier
	if cfg.TelegramEnabled() {
		a.bot, err = newBot(cfg.TelegramToken)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("could not create Telegram bot: %w", err)
		}
		mirrors = append(mirrors, telegram.NewAdminNotifier(telegram.NewTelebotAdapter(a.bot), cfg.AdminTelegramID))
		log.Info("Telegram mirror enabled")
	}
	notifier := app.NewFanoutNotifier(primaryNotifier(cfg), logger.Component("notifier"), mirrors...)

	employeeRepo := idb.NewPostgresEmployeeRepository(db)
	names := app.NewNameResolver(employeeRepo, logger.Component("names"))
	activities := app.NewActivityService(idb.NewPostgresActivityRepository(db), names, logger.Component("activity"))

	a.services = rest.Services{
		Employees:   app.NewEmployeeService(employeeRepo, activities, logger.Component("pegawai")),
		Educations:  app.NewEducationService(idb.NewPostgresEducationRepository(db), names, activities, logger.Component("pendidikan")),
		Levelings:   app.NewLevelingService(idb.NewPostgresLevelingRepository(db), names, activities, logger.Component("penjenjangan")),
		Structures:  app.NewStructureService(idb.NewPostgresStructureRepository(db), names, activities, logger.Component("struktur")),
		CareerNotes: app.NewCareerNoteService(idb.NewPostgresCareerNoteRepository(db), names, activities, logger.Component("catatan_karir")),
		Activities:  activities,
		KGB:         app.NewKGBService(employeeRepo, notifier, activities, cfg.Location, logger.Component("kgb")),
		Dashboard:   app.NewDashboardService(employeeRepo),
		DB:          db,
	}
	return a, nil
}

func primaryNotifier(cfg *config.AppConfig) notify.Notifier {
	if cfg.Notifier == config.NotifierLog {
		logger.Component("notifier").Warn("NOTIFIER=log, KGB notifications are only logged and count as delivered")
		return mail.NewLogNotifier(logger.Component("notifier"))
	}
	return mail.NewSMTPNotifier(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		To:       cfg.AdminEmail,
	}, logger.Component("mail"))
}

func newBot(token string) (*telebot.Bot, error) {
	botLog := logger.Component("telegram")
	return telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := botLog.WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("Telegram handler error")
		},
	})
}

func (a *application) Close() {
	if a.polling {
		a.bot.Stop()
	}
	a.db.Close()
}
