package main

import (
	"github.com/safestay/shelter-bot/internal/bot"
	"github.com/safestay/shelter-bot/internal/flow"
	"github.com/safestay/shelter-bot/internal/moderation"
	"github.com/safestay/shelter-bot/internal/session"
	"github.com/safestay/shelter-bot/internal/storage"
	"github.com/safestay/shelter-bot/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Conversation state lives in memory and dies with the process.
	sessions := session.NewStore()
	machine := flow.NewMachine(sessions, store, logger)
	mod := moderation.NewService(store, cfg.Moderation.ReportThreshold, logger)

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, store, machine, mod, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Start the bot
	if err := b.Start(); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
}
