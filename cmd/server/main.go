package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	gormlogger "gorm.io/gorm/logger"

	"github.com/natacion/clubmanager/internal/bot"
	"github.com/natacion/clubmanager/internal/config"
	"github.com/natacion/clubmanager/internal/db"
	"github.com/natacion/clubmanager/internal/handlers"
	"github.com/natacion/clubmanager/internal/logger"
	"github.com/natacion/clubmanager/internal/metrics"
	"github.com/natacion/clubmanager/internal/notify"
	"github.com/natacion/clubmanager/internal/services"
	"github.com/natacion/clubmanager/internal/web"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Path to configuration file (optional)")
	rootCmd.AddCommand(remindCmd)
}

var rootCmd = &cobra.Command{
	Use:   "natacion",
	Short: "Swim club manager admin API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send today's payment expiry reminders once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logr, err := setup()
		if err != nil {
			return err
		}
		if cfg.Reminders.BotToken == "" {
			return errors.New("reminders.telegram_token is not set")
		}
		sched, err := bot.NewScheduler(db.Conn(), newBotClient(cfg, logr), reminderConfig(cfg), logr)
		if err != nil {
			return err
		}
		today := services.DateOnly(time.Now().In(cfg.Location()))
		sent, err := sched.RunOnce(cmd.Context(), today)
		if err != nil {
			return err
		}
		logr.WithField("sent", sent).Info("reminders sent")
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logr := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	level := gormlogger.Warn
	if cfg.IsDevelopment() && cfg.App.LogLevel == "debug" {
		level = gormlogger.Info
	}
	if err := db.Init(cfg.Database.DSN, level); err != nil {
		return nil, nil, fmt.Errorf("db init: %w", err)
	}
	metrics.InitRegistry()
	return cfg, logr, nil
}

func newBotClient(cfg *config.Config, logr logrus.FieldLogger) *bot.Client {
	return bot.NewClient(bot.ClientConfig{
		Token:      cfg.Reminders.BotToken,
		APIURL:     cfg.Reminders.APIURL,
		RatePerSec: cfg.Reminders.RatePerSec,
		RetryMax:   cfg.Reminders.RetryMax,
		Timeout:    15 * time.Second,
	}, logr)
}

func reminderConfig(cfg *config.Config) bot.ReminderConfig {
	return bot.ReminderConfig{
		Schedule:  cfg.Reminders.Schedule,
		DaysAhead: cfg.Reminders.DaysAhead,
		Location:  cfg.Location(),
	}
}

func serve(ctx context.Context) error {
	cfg, logr, err := setup()
	if err != nil {
		return err
	}
	gdb := db.Conn()
	if err := services.WatchClassification(gdb); err != nil {
		return fmt.Errorf("watch classification: %w", err)
	}

	api := handlers.New(gdb, logr)
	api.Biller = services.NewOrderBilling(cfg.Billing.FeeProduct)
	api.Auth = handlers.NewAdminAuth(cfg.Admin.Password, cfg.Admin.JWTSecret, cfg.Admin.SessionTTL)
	api.DefaultFee = decimal.NewFromFloat(cfg.Billing.DefaultFee)
	api.Loc = cfg.Location()

	sinks := notify.Fanout{notify.LogSink{Log: logr}}

	if cfg.Reminders.BotToken != "" {
		client := newBotClient(cfg, logr)
		bot.Install(gdb, client, logr)
		if cfg.Reminders.WebhookSecret != "" {
			api.Bot = bot.NewDispatcher(gdb, client, cfg.Location(), logr)
			api.WebhookSecret = cfg.Reminders.WebhookSecret
		}
		if cfg.Reminders.AdminChatID != 0 {
			sinks = append(sinks, bot.ChatSink{Sender: client, ChatID: cfg.Reminders.AdminChatID})
		}
		if cfg.Reminders.Enabled {
			sched, err := bot.NewScheduler(gdb, client, reminderConfig(cfg), logr)
			if err != nil {
				return err
			}
			sched.Start()
			defer func() { <-sched.Stop().Done() }()
			logr.WithField("schedule", cfg.Reminders.Schedule).Info("payment reminders scheduled")
		}
	}
	api.Notify = sinks

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           web.Router(api),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logr.WithFields(logrus.Fields{
			"addr":    cfg.HTTP.Addr,
			"env":     cfg.App.Environment,
			"version": Version,
			"commit":  GitCommit,
		}).Info("natacion listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
