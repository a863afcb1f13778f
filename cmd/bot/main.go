package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jwebster45206/timequest/internal/config"
	"github.com/jwebster45206/timequest/internal/delivery"
	"github.com/jwebster45206/timequest/internal/game"
	"github.com/jwebster45206/timequest/internal/logger"
	"github.com/jwebster45206/timequest/internal/scheduler"
	"github.com/jwebster45206/timequest/internal/session"
	"github.com/jwebster45206/timequest/internal/storage"
	"github.com/jwebster45206/timequest/internal/transport/telegram"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting TimeQuest bot",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL)

	if cfg.BotToken == "" {
		log.Error("BOT_TOKEN is required")
		os.Exit(1)
	}

	repo, err := storage.NewRedisRepository(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create profile repository", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("Error closing profile repository", "error", err)
		}
	}()

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := repo.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Profile repository initialized successfully")

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Error("Failed to connect to Telegram", "error", err)
		os.Exit(1)
	}
	log.Info("Telegram connection established", "bot", bot.Self.UserName)

	// Missing welcome image degrades the start screen to text.
	welcome, err := os.ReadFile(cfg.WelcomeImage)
	if err != nil {
		log.Warn("Welcome image not available", "path", cfg.WelcomeImage, "error", err)
		welcome = nil
	}

	sessions := session.NewStore()
	gateway := delivery.NewGateway(telegram.NewTransport(bot), sessions, log)
	sched := scheduler.New(repo, gateway, sessions, log, cfg.QuestTick)
	engine := game.New(repo, sessions, gateway, sched, game.NewLockedRand(time.Now().UnixNano()), welcome, log)
	dispatcher := telegram.NewDispatcher(bot, engine, log)

	ctx, cancel := context.WithCancel(context.Background())
	go dispatcher.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Bot is shutting down...")
	cancel()
	sched.Stop()
	log.Info("Bot exited")
}
