package chatHandler

import (
	"context"

	"github.com/gofiber/websocket/v2"

	"github.com/ohmatt160/library-AI-chatbot/internal/api/chat"
	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/internal/middleware"
	contextPkg "github.com/ohmatt160/library-AI-chatbot/pkg/context"
	"github.com/ohmatt160/library-AI-chatbot/pkg/log"
	"github.com/ohmatt160/library-AI-chatbot/pkg/response"
)

type wsError struct {
	Error string `json:"error"`
}

// Stream answers chat messages over a websocket: each JSON ChatRequest read
// produces one ChatResponse or one error frame. The session id of the first
// reply is reused when later messages omit it.
func (h *ChatHandler) Stream(conn *websocket.Conn) {
	requestID, _ := conn.Locals(middleware.RequestIDKey).(string)
	user, ok := conn.Locals("user").(entity.UserLoginData)
	if !ok {
		_ = conn.WriteJSON(wsError{Error: "Unauthorized"})
		return
	}

	base := contextPkg.WithRequestID(context.Background(), requestID)
	logger := h.log.WithFields(log.Fields{"request_id": requestID, "user_id": user.ID})
	logger.Debug("[chatHandler.Stream] websocket opened")

	var sessionID string
	for {
		var req chat.ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WithField("error", err.Error()).Warn("[chatHandler.Stream] read failed")
			}
			return
		}

		if req.SessionID == "" {
			req.SessionID = sessionID
		}
		if err := h.validator.Struct(req); err != nil {
			if werr := conn.WriteJSON(wsError{Error: "Validation failed: " + err.Error()}); werr != nil {
				return
			}
			continue
		}

		c, cancel := context.WithTimeout(base, h.requestTimeout)
		res, err := h.chatService.Chat(c, user, req)
		cancel()

		var out interface{} = res
		if err != nil {
			msg := "An unexpected error occurred"
			if response.StatusOf(err, 500) < 500 {
				msg = err.Error()
			}
			logger.WithField("error", err.Error()).Warn("[chatHandler.Stream] chat failed")
			out = wsError{Error: msg}
		} else {
			sessionID = res.SessionID
		}

		if err := conn.WriteJSON(out); err != nil {
			logger.WithField("error", err.Error()).Warn("[chatHandler.Stream] write failed")
			return
		}
	}
}
