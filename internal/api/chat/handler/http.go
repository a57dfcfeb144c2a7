package chatHandler

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	chatService "github.com/ohmatt160/library-AI-chatbot/internal/api/chat/service"
	"github.com/ohmatt160/library-AI-chatbot/internal/middleware"
)

const defaultRequestTimeout = 30 * time.Second

type ChatHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	chatService    chatService.IChatService
	requestTimeout time.Duration
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs chatService.IChatService,
	requestTimeout time.Duration,
) *ChatHandler {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	return &ChatHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		chatService:    cs,
		requestTimeout: requestTimeout,
	}
}

func (h *ChatHandler) Start(srv fiber.Router) {
	chat := srv.Group("/chat")

	chat.Use(h.middleware.NewRateLimiter)
	chat.Use(h.middleware.NewTokenMiddleware)

	chat.Post("", h.Chat)
	chat.Post("/session", h.NewSession)
	chat.Get("/context", h.GetContext)
	chat.Post("/ask", h.Ask)
	chat.Post("/feedback", h.Feedback)

	chat.Use("/ws", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	chat.Get("/ws", websocket.New(h.Stream))
}
