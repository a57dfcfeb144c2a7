package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ohmatt160/library-AI-chatbot/database/postgres"
	chatHandler "github.com/ohmatt160/library-AI-chatbot/internal/api/chat/handler"
	chatRepository "github.com/ohmatt160/library-AI-chatbot/internal/api/chat/repository"
	chatService "github.com/ohmatt160/library-AI-chatbot/internal/api/chat/service"
	"github.com/ohmatt160/library-AI-chatbot/internal/middleware"
	"github.com/ohmatt160/library-AI-chatbot/pkg/gemini"
	"github.com/ohmatt160/library-AI-chatbot/pkg/redis"
	"github.com/ohmatt160/library-AI-chatbot/pkg/utils"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	db           *sqlx.DB
	log          *logrus.Logger
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	handlers     []handler
	redisServer  redis.IRedis
	geminiClient gemini.IGemini
	chatbot      *ChatbotConfig
	dialogue     *Engine
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.chatbot == nil {
		server.chatbot = DefaultChatbotConfig()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithChatbotConfig(cfg *ChatbotConfig) ServerOption {
	return func(s *Server) error {
		s.chatbot = cfg
		return nil
	}
}

// WithDatabase connects when DB_HOST is set; without it the chatbot runs
// and interaction logging is off.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		if !postgres.Configured() {
			if s.log != nil {
				s.log.Warn("DB_HOST not set, interaction logging disabled")
			}
			return nil
		}

		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		opts := []middleware.Option{}
		if s.chatbot != nil {
			opts = append(opts, middleware.WithRateLimit(s.chatbot.HTTP.RateLimit, s.chatbot.HTTP.RateBurst))
		}
		s.middleware = middleware.New(s.log, opts...)
		return nil
	}
}

// WithGeminiClient is optional: a missing key only disables the remote
// classifier. The client is only built when the gemini classifier is
// selected, so it must follow WithChatbotConfig.
func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		if s.chatbot != nil && s.chatbot.NLP.Classifier != ClassifierGemini {
			return nil
		}
		client, err := gemini.NewGeminiClient()
		if err != nil {
			if s.log != nil {
				s.log.Warnf("Gemini client unavailable: %v", err)
			}
			return nil
		}
		s.geminiClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

// WithDialogueEngine builds the NLP, rules, knowledge and context stack.
// It must follow WithChatbotConfig, WithRedisServer and WithGeminiClient.
func WithDialogueEngine(ctx context.Context) ServerOption {
	return func(s *Server) error {
		cfg := s.chatbot
		if cfg == nil {
			cfg = DefaultChatbotConfig()
		}

		engine, err := NewEngine(ctx, cfg, s.log, s.redisServer, s.geminiClient)
		if err != nil {
			return fmt.Errorf("failed to build dialogue engine: %w", err)
		}
		s.dialogue = engine
		return nil
	}
}

func (s *Server) RegisterHandler() {
	var chatRepo chatRepository.Repository
	if s.db != nil {
		chatRepo = chatRepository.New(s.db, s.log)
	}

	chatServices := chatService.NewChatService(s.log, s.dialogue.Manager, s.dialogue.Knowledge, s.dialogue.Generator, chatRepo, s.utils)
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, chatServices, s.chatbot.HTTP.RequestTimeout)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, chatHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown drains HTTP traffic and releases the optional backends.
func (s *Server) Shutdown(timeout time.Duration) error {
	err := s.engine.ShutdownWithTimeout(timeout)

	if s.redisServer != nil {
		_ = s.redisServer.Close()
	}
	if s.geminiClient != nil {
		s.geminiClient.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})

	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		status := fiber.Map{"status": "ok", "knowledge_entries": s.dialogue.Knowledge.Len()}
		if s.redisServer != nil {
			c, cancel := context.WithTimeout(ctx.UserContext(), time.Second)
			defer cancel()
			if err := s.redisServer.Ping(c); err != nil {
				status["redis"] = "unavailable"
			} else {
				status["redis"] = "ok"
			}
		}
		return ctx.JSON(status)
	})
}
