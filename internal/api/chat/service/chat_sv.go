package chatService

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ohmatt160/library-AI-chatbot/internal/api/chat"
	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/dialogue"
	"github.com/ohmatt160/library-AI-chatbot/pkg/knowledge"
	"github.com/ohmatt160/library-AI-chatbot/pkg/log"
)

func (s *chatService) Chat(ctx context.Context, user entity.UserLoginData, req chat.ChatRequest) (*chat.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, chat.ErrEmptyMessage
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.utils.NewSessionID()
	}

	start := s.now()
	result := s.manager.ProcessMessage(ctx, user.ID, sessionID, message,
		dialogue.WithUserType(user.UserType),
		dialogue.WithUserName(user.Username),
	)
	elapsed := s.utils.ElapsedMillis(start)

	messageID, err := s.utils.NewULIDFromTimestamp(start)
	if err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}

	log.WithConversation(ctx, result.ContextID, log.Fields{
		"intent":            result.Intent,
		"confidence":        result.Confidence,
		"processing_method": result.ProcessingMethod,
		"response_time_ms":  elapsed,
	}).Info("[chatService.Chat] message processed")

	s.recordInteraction(ctx, entity.Interaction{
		ID:               messageID,
		UserID:           user.ID,
		SessionID:        sessionID,
		Message:          message,
		Response:         result.Response,
		Intent:           string(result.Intent),
		Confidence:       result.Confidence,
		ProcessingMethod: result.ProcessingMethod,
		ResponseTimeMs:   elapsed,
		CreatedAt:        start,
	})

	return &chat.ChatResponse{
		DialogueResult: *result,
		SessionID:      sessionID,
		MessageID:      messageID,
		ResponseTimeMs: elapsed,
		Timestamp:      start,
	}, nil
}

// recordInteraction is best effort; a reply is never withheld because the
// log could not be written.
func (s *chatService) recordInteraction(ctx context.Context, interaction entity.Interaction) {
	if s.repo == nil {
		return
	}

	client, err := s.repo.NewClient(false)
	if err == nil {
		err = client.Interactions.CreateInteraction(ctx, interaction)
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"message_id": interaction.ID,
			"error":      fmt.Errorf("%w: %w", chat.ErrInteractionLogFailed, err).Error(),
		}).Warn("[chatService.recordInteraction] interaction not stored")
	}
}

func (s *chatService) NewSession(ctx context.Context, userID string) (*chat.SessionResponse, error) {
	session := entity.ChatSession{
		ID:        s.utils.NewSessionID(),
		UserID:    userID,
		CreatedAt: s.now(),
	}

	if s.repo != nil {
		client, err := s.repo.NewClient(false)
		if err != nil {
			return nil, err
		}
		if err := client.Sessions.CreateSession(ctx, session); err != nil {
			return nil, err
		}
	}

	return &chat.SessionResponse{SessionID: session.ID, CreatedAt: session.CreatedAt}, nil
}

func (s *chatService) Context(ctx context.Context, userID, sessionID string) (*entity.ConversationContext, error) {
	conv, err := s.manager.Context(ctx, userID, sessionID)
	if errors.Is(err, dialogue.ErrContextNotFound) {
		return nil, chat.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *chatService) Ask(ctx context.Context, req chat.AskRequest) (*chat.AskResponse, error) {
	if s.knowledge == nil {
		return nil, chat.ErrKnowledgeUnavailable
	}

	answer, err := s.knowledge.Lookup(ctx, req.Question)
	if errors.Is(err, knowledge.ErrEmptyQuestion) {
		return nil, chat.ErrEmptyMessage
	}
	if err != nil {
		return nil, fmt.Errorf("knowledge lookup: %w", err)
	}

	text, err := s.renderer.Generate(&entity.ResponseCandidate{
		Source:     entity.SourceKnowledgeBase,
		Confidence: answer.Confidence,
		Knowledge:  answer,
	}, nil, entity.StrategyKnowledgeBase)
	if err != nil {
		return nil, fmt.Errorf("render answer: %w", err)
	}

	return &chat.AskResponse{
		Response:      text,
		Answer:        answer.Answer,
		Source:        answer.Source,
		Confidence:    answer.Confidence,
		RelatedTopics: answer.RelatedTopics,
	}, nil
}

func (s *chatService) Feedback(ctx context.Context, userID string, req chat.FeedbackRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return chat.ErrFeedbackInvalid
	}
	if s.repo == nil {
		return chat.ErrStorageUnavailable
	}

	client, err := s.repo.NewClient(true)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Rollback()
	}()

	interaction, err := client.Interactions.GetInteractionByID(ctx, req.MessageID)
	if err != nil {
		return err
	}
	if interaction.UserID != userID {
		return chat.ErrInteractionNotFound
	}

	feedbackID, err := s.utils.NewULIDFromTimestamp(s.now())
	if err != nil {
		return err
	}

	if err := client.Feedback.CreateFeedback(ctx, entity.Feedback{
		ID:                feedbackID,
		InteractionID:     interaction.ID,
		UserID:            userID,
		Rating:            req.Rating,
		Comment:           req.Comment,
		CorrectedResponse: req.CorrectedResponse,
		CreatedAt:         s.now(),
	}); err != nil {
		return err
	}

	return client.Commit()
}
