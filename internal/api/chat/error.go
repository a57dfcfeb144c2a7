package chat

import "github.com/ohmatt160/library-AI-chatbot/pkg/response"

var (
	ErrEmptyMessage         = response.NewError(400, "message must not be empty")
	ErrFeedbackInvalid      = response.NewError(400, "invalid feedback")
	ErrSessionNotFound      = response.NewError(404, "conversation not found")
	ErrInteractionNotFound  = response.NewError(404, "message not found")
	ErrInteractionLogFailed = response.NewError(500, "failed to record interaction")
	ErrKnowledgeUnavailable = response.NewError(503, "knowledge base is not available")
	ErrStorageUnavailable   = response.NewError(503, "interaction storage is not configured")
)
