package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ohmatt160/library-AI-chatbot/internal/config"
	"github.com/ohmatt160/library-AI-chatbot/pkg/log"
	"github.com/ohmatt160/library-AI-chatbot/pkg/redis"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.NewLogger().Warnf("Error loading .env file: %v", err)
	}
	logger := log.NewLogger()

	configPath := os.Getenv("CHATBOT_CONFIG")
	if configPath == "" {
		configPath = "config/chatbot.yaml"
	}
	chatbotConfig, err := config.LoadChatbotConfig(configPath)
	if err != nil {
		logger.Fatal(err)
	}

	var redisServer redis.IRedis
	if redis.Address() != "" {
		redisServer = redis.New()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := config.NewServer(
		config.WithFiber(config.NewFiber(logger)),
		config.WithLogger(logger),
		config.WithValidator(config.NewValidator()),
		config.WithChatbotConfig(chatbotConfig),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithGeminiClient(),
		config.WithMiddleware(),
		config.WithUtils(),
		config.WithDialogueEngine(ctx),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-ctx.Done()
	logger.Info("Shutting down server...")
	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.Errorf("Shutdown: %v", err)
	}
}
