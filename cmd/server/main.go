package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/app"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/infra/config"
	idb "github.com/gutembergferreira/MaatContabil-sub001/internal/infra/database"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/infra/logger"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/infra/pixapi"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/infra/scheduler"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("MaatContabil back-office service starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Get()
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Admin ID: %d", cfg.LogLevel, cfg.Environment, cfg.AdminTelegramID)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	// Initialize Repositories
	companyRepo := idb.NewPostgresCompanyRepository(db)
	userRepo := idb.NewPostgresUserRepository(db)
	obligationRepo := idb.NewPostgresObligationRepository(db)
	routineRepo := idb.NewPostgresRoutineRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)
	pixRepo := idb.NewPostgresPixRepository(db)
	mainLogger.Info("Repositories initialized.")

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := mainLogger.WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("telebot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	telegramClient := telegram.NewTelebotAdapter(bot)

	// Initialize Services
	notificationService := app.NewNotificationService(notificationRepo, userRepo, telegramClient, cfg.FirmChatID, mainLogger)
	routineService := app.NewRoutineService(companyRepo, obligationRepo, routineRepo, notificationService, mainLogger)
	adminService := app.NewAdminService(companyRepo, routineRepo, routineService, cfg.AdminTelegramID, mainLogger)
	bankClient := pixapi.NewHTTPClient(cfg.PixAPIURL, cfg.PixAPIToken)
	pixService := app.NewPixService(companyRepo, pixRepo, bankClient, mainLogger)
	mainLogger.Info("Application services initialized.")

	// Initialize RoutineScheduler
	routineScheduler := scheduler.NewRoutineScheduler(routineService, mainLogger, cfg.CronSpecSweep, cfg.CronSpecOverdue)
	routineScheduler.Start()

	// Register Handlers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handlerLogger := mainLogger.WithField("component", "telegram")
	telegram.RegisterBotCommands(bot, cfg, handlerLogger)
	telegram.RegisterAdminHandlers(ctx, bot, adminService, cfg.AdminTelegramID, handlerLogger)
	telegram.RegisterPixHandlers(ctx, bot, pixService, cfg.AdminTelegramID, handlerLogger)
	mainLogger.Info("Telegram command handlers registered.")

	mainLogger.Info("Application setup complete. Bot and scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	routineScheduler.Stop()
	bot.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
