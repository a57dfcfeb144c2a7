package chat

import (
	"time"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
)

type ChatRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=64"`
	Message   string `json:"message" validate:"required,max=2000"`
}

type ChatResponse struct {
	entity.DialogueResult
	SessionID      string    `json:"session_id"`
	MessageID      string    `json:"message_id"`
	ResponseTimeMs float64   `json:"response_time_ms"`
	Timestamp      time.Time `json:"timestamp"`
}

type SessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type AskRequest struct {
	Question string `json:"question" validate:"required,max=1000"`
}

type AskResponse struct {
	Response      string   `json:"response"`
	Answer        string   `json:"answer,omitempty"`
	Source        string   `json:"source,omitempty"`
	Confidence    float64  `json:"confidence"`
	RelatedTopics []string `json:"related_topics,omitempty"`
}

type FeedbackRequest struct {
	MessageID         string `json:"message_id" validate:"required,max=64"`
	Rating            int    `json:"rating" validate:"required,min=1,max=5"`
	Comment           string `json:"comment" validate:"omitempty,max=1000"`
	CorrectedResponse string `json:"corrected_response" validate:"omitempty,max=2000"`
}
