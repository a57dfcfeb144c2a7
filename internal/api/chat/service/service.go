package chatService

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ohmatt160/library-AI-chatbot/internal/api/chat"
	chatRepository "github.com/ohmatt160/library-AI-chatbot/internal/api/chat/repository"
	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/dialogue"
	"github.com/ohmatt160/library-AI-chatbot/pkg/utils"
)

type IChatService interface {
	Chat(ctx context.Context, user entity.UserLoginData, req chat.ChatRequest) (*chat.ChatResponse, error)
	NewSession(ctx context.Context, userID string) (*chat.SessionResponse, error)
	Context(ctx context.Context, userID, sessionID string) (*entity.ConversationContext, error)
	Ask(ctx context.Context, req chat.AskRequest) (*chat.AskResponse, error)
	Feedback(ctx context.Context, userID string, req chat.FeedbackRequest) error
}

type DialogueManager interface {
	ProcessMessage(ctx context.Context, userID, sessionID, message string, opts ...dialogue.MessageOption) *entity.DialogueResult
	Context(ctx context.Context, userID, sessionID string) (*entity.ConversationContext, error)
}

type KnowledgeBase interface {
	Lookup(ctx context.Context, question string) (*entity.KnowledgeAnswer, error)
}

type Renderer interface {
	Generate(c *entity.ResponseCandidate, conv *entity.ConversationContext, strategy entity.Strategy) (string, error)
}

type chatService struct {
	log       *logrus.Logger
	manager   DialogueManager
	knowledge KnowledgeBase
	renderer  Renderer
	repo      chatRepository.Repository
	utils     utils.IUtils
	now       func() time.Time
}

// NewChatService wires the chat use cases. knowledge and repo may be nil:
// /ask then reports ErrKnowledgeUnavailable and interactions are not
// persisted.
func NewChatService(
	log *logrus.Logger,
	manager DialogueManager,
	knowledge KnowledgeBase,
	renderer Renderer,
	repo chatRepository.Repository,
	utils utils.IUtils,
) IChatService {
	return &chatService{
		log:       log,
		manager:   manager,
		knowledge: knowledge,
		renderer:  renderer,
		repo:      repo,
		utils:     utils,
		now:       time.Now,
	}
}
