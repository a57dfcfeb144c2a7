package entity

import (
	"time"

	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
)

const DefaultHistoryLimit = 20

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role      Role       `json:"role"`
	Text      string     `json:"text"`
	Intent    nlp.Intent `json:"intent,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// DialogueState is the fine-grained label used for follow-ups and templates.
type DialogueState string

const (
	StateGreeting   DialogueState = "greeting"
	StateSearching  DialogueState = "searching"
	StateInforming  DialogueState = "informing"
	StateExplaining DialogueState = "explaining"
	StateAssisting  DialogueState = "assisting"
	StateFarewell   DialogueState = "farewell"
	StateClarifying DialogueState = "clarifying"
	StateConfirming DialogueState = "confirming"
	StateConversing DialogueState = "conversing"
)

// Phase is the coarse conversation lifecycle.
type Phase string

const (
	PhaseGreeting            Phase = "greeting"
	PhaseQueryProcessing     Phase = "query_processing"
	PhaseFollowUp            Phase = "follow_up"
	PhaseClarificationNeeded Phase = "clarification_needed"
	PhaseCompleted           Phase = "completed"
)

const PreferenceUserName = "user_name"

type ConversationContext struct {
	ContextID   string            `json:"context_id"`
	UserID      string            `json:"user_id"`
	SessionID   string            `json:"session_id"`
	History     []Turn            `json:"history"`
	State       DialogueState     `json:"state"`
	Phase       Phase             `json:"phase"`
	LastIntent  nlp.Intent        `json:"last_intent,omitempty"`
	Entities    map[string]string `json:"entities"`
	Preferences map[string]string `json:"preferences"`
	UserType    string            `json:"user_type,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func ContextKey(userID, sessionID string) string {
	return "conv:" + userID + ":" + sessionID
}

func NewConversationContext(userID, sessionID string, now time.Time) *ConversationContext {
	return &ConversationContext{
		ContextID:   ContextKey(userID, sessionID),
		UserID:      userID,
		SessionID:   sessionID,
		History:     []Turn{},
		Phase:       PhaseGreeting,
		Entities:    map[string]string{},
		Preferences: map[string]string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (c *ConversationContext) IsNew() bool {
	return len(c.History) == 0
}

// HasIntent reports whether a user turn with intent appears in the history.
func (c *ConversationContext) HasIntent(intent nlp.Intent) bool {
	for _, t := range c.History {
		if t.Role == RoleUser && t.Intent == intent {
			return true
		}
	}
	return false
}

func (c *ConversationContext) UserName() string {
	if c == nil || c.Preferences == nil {
		return ""
	}
	return c.Preferences[PreferenceUserName]
}

// ContextUpdate is one turn's change set. Empty scalar fields leave the
// stored value alone.
type ContextUpdate struct {
	LastIntent  nlp.Intent
	State       DialogueState
	Phase       Phase
	UserType    string
	Entities    map[string]string
	Preferences map[string]string
	Turns       []Turn
}

// Merge applies u: scalars overwrite, maps merge per key, turns are appended
// and the history keeps only the newest limit entries.
func (c *ConversationContext) Merge(u ContextUpdate, limit int, now time.Time) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	if u.LastIntent != "" {
		c.LastIntent = u.LastIntent
	}
	if u.State != "" {
		c.State = u.State
	}
	if u.Phase != "" {
		c.Phase = u.Phase
	}
	if u.UserType != "" {
		c.UserType = u.UserType
	}

	if c.Entities == nil {
		c.Entities = map[string]string{}
	}
	for k, v := range u.Entities {
		c.Entities[k] = v
	}
	if c.Preferences == nil {
		c.Preferences = map[string]string{}
	}
	for k, v := range u.Preferences {
		c.Preferences[k] = v
	}

	c.History = append(c.History, u.Turns...)
	if over := len(c.History) - limit; over > 0 {
		c.History = append([]Turn(nil), c.History[over:]...)
	}
	c.UpdatedAt = now
}
