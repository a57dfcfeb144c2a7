package dialogue

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
)

const (
	SafeReply = "I'm here to help with library services."

	DefaultContextTTL   = time.Hour
	DefaultStoreTimeout = 2 * time.Second

	lowConfidenceBelow = 0.5
	ruleAbove          = 0.9
	nlpAbove           = 0.7

	// clarificationConfidence is what a clarification turn reports.
	clarificationConfidence = 0.0
)

type RuleMatcher interface {
	Match(text string, result *nlp.Result, conv *entity.ConversationContext) *entity.ResponseCandidate
}

type ResponseGenerator interface {
	Generate(c *entity.ResponseCandidate, conv *entity.ConversationContext, strategy entity.Strategy) (string, error)
}

type Manager struct {
	log       *logrus.Logger
	extractor nlp.IExtractor
	matcher   RuleMatcher
	generator ResponseGenerator
	store     ContextStore
	locks     *keyLocks

	now          func() time.Time
	ttl          time.Duration
	historyLimit int
	storeTimeout time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Manager)

func WithRand(rng *rand.Rand) Option {
	return func(m *Manager) { m.rng = rng }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithContextTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithHistoryLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.historyLimit = n
		}
	}
}

func WithStoreTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.storeTimeout = d
		}
	}
}

func New(extractor nlp.IExtractor, matcher RuleMatcher, generator ResponseGenerator, store ContextStore, log *logrus.Logger, opts ...Option) *Manager {
	m := &Manager{
		log:          log,
		extractor:    extractor,
		matcher:      matcher,
		generator:    generator,
		store:        store,
		locks:        newKeyLocks(),
		now:          time.Now,
		ttl:          DefaultContextTTL,
		historyLimit: entity.DefaultHistoryLimit,
		storeTimeout: DefaultStoreTimeout,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type messageOptions struct {
	userType string
	userName string
}

type MessageOption func(*messageOptions)

// WithUserType sets the caller's user type for rule conditions.
func WithUserType(t string) MessageOption {
	return func(o *messageOptions) { o.userType = t }
}

// WithUserName stores the name used to personalise rule responses.
func WithUserName(name string) MessageOption {
	return func(o *messageOptions) { o.userName = name }
}

// ProcessMessage runs one turn. It never returns an error: internal failures
// produce SafeReply with confidence 0 and method "error". The context is
// written only after a response was generated and the caller is still
// waiting.
func (m *Manager) ProcessMessage(ctx context.Context, userID, sessionID, message string, opts ...MessageOption) (res *entity.DialogueResult) {
	key := entity.ContextKey(userID, sessionID)

	defer func() {
		if r := recover(); r != nil {
			m.log.WithFields(logrus.Fields{
				"context_id": key,
				"panic":      fmt.Sprint(r),
				"stack":      string(debug.Stack()),
			}).Error("[dialogue.ProcessMessage] recovered from panic")
			res = safeResult(key)
		}
	}()

	var o messageOptions
	for _, opt := range opts {
		opt(&o)
	}

	unlock := m.locks.Lock(key)
	defer unlock()

	conv := m.loadContext(ctx, key, userID, sessionID)
	if o.userType != "" {
		conv.UserType = o.userType
	}
	if o.userName != "" {
		conv.Preferences[entity.PreferenceUserName] = o.userName
	}

	now := m.now()
	result := m.extractor.Extract(ctx, message)
	result.Entities = append(result.Entities, nlp.Entity{
		Type:   nlp.EntityCurrentTime,
		Value:  now.Format("2006-01-02 15:04:05"),
		Source: nlp.EntitySourceSystem,
	})

	log := m.log.WithFields(logrus.Fields{
		"context_id": key,
		"intent":     result.Intent,
		"confidence": result.Confidence,
	})

	if result.Confidence < lowConfidenceBelow {
		low := m.HandleLowConfidence(message, result.Confidence)
		low.ContextID = key
		low.Intent = result.Intent
		low.Entities = result.DomainEntities()
		log.WithField("processing_method", low.ProcessingMethod).Debug("[dialogue.ProcessMessage] low confidence")
		return low
	}

	strategy, candidate := m.selectStrategy(message, result, conv)

	var action entity.Action
	if strategy == entity.StrategyClarification {
		// The low-confidence handler gets no usable score on this path and
		// settles on its lowest band; the reply text still comes from the
		// generator.
		low := m.HandleLowConfidence(message, clarificationConfidence)
		candidate.Confidence = low.Confidence
		action = low.Action
	}

	state := determineState(conv, result.Intent, result.Confidence)
	phase := nextPhase(conv.Phase, state, strategy, result.Intent)

	text, err := m.generator.Generate(candidate, conv, strategy)
	if err != nil {
		log.WithField("error", err.Error()).Error("[dialogue.ProcessMessage] generation failed")
		return safeResult(key)
	}

	res = &entity.DialogueResult{
		Response:              text,
		Confidence:            clamp01(candidate.Confidence),
		ProcessingMethod:      string(strategy),
		SuggestedFollowUps:    m.followUps(result.Intent, result.Confidence, state),
		ContextID:             key,
		Intent:                result.Intent,
		Entities:              result.DomainEntities(),
		State:                 state,
		Action:                action,
		RequiresClarification: strategy == entity.StrategyClarification,
	}

	if ctx.Err() != nil {
		log.Warn("[dialogue.ProcessMessage] caller gone, context not saved")
		return res
	}

	conv.Merge(entity.ContextUpdate{
		LastIntent: result.Intent,
		State:      state,
		Phase:      phase,
		UserType:   o.userType,
		Entities:   entityMap(result),
		Turns: []entity.Turn{
			{Role: entity.RoleUser, Text: message, Intent: result.Intent, Timestamp: now},
			{Role: entity.RoleAssistant, Text: text, Timestamp: now},
		},
	}, m.historyLimit, now)
	m.saveContext(ctx, key, conv)

	log.WithField("processing_method", res.ProcessingMethod).Info("[dialogue.ProcessMessage] processed")
	return res
}

func (m *Manager) selectStrategy(message string, result *nlp.Result, conv *entity.ConversationContext) (entity.Strategy, *entity.ResponseCandidate) {
	if m.matcher != nil {
		if rule := m.matcher.Match(message, result, conv); rule != nil && rule.Confidence > ruleAbove {
			return entity.StrategyRuleBased, rule
		}
	}

	if result.Confidence > nlpAbove {
		return entity.StrategyNLPBased, &entity.ResponseCandidate{
			Source:     entity.SourceNLP,
			Confidence: result.Confidence,
			NLP:        result,
		}
	}

	return entity.StrategyClarification, &entity.ResponseCandidate{
		Source:        entity.SourceClarification,
		Confidence:    clarificationConfidence,
		Clarification: &entity.ClarificationRequest{},
	}
}

// Context returns the stored conversation for a user and session.
func (m *Manager) Context(ctx context.Context, userID, sessionID string) (*entity.ConversationContext, error) {
	return m.store.Get(ctx, entity.ContextKey(userID, sessionID))
}

func (m *Manager) loadContext(ctx context.Context, key, userID, sessionID string) *entity.ConversationContext {
	c, cancel := context.WithTimeout(ctx, m.storeTimeout)
	defer cancel()

	conv, err := m.store.Get(c, key)
	if err == nil && conv != nil {
		if conv.Entities == nil {
			conv.Entities = map[string]string{}
		}
		if conv.Preferences == nil {
			conv.Preferences = map[string]string{}
		}
		return conv
	}
	if err != nil && !errors.Is(err, ErrContextNotFound) {
		m.log.WithFields(logrus.Fields{
			"context_id": key,
			"error":      err.Error(),
		}).Warn("[dialogue.loadContext] context store unavailable, starting a new conversation")
	}
	return entity.NewConversationContext(userID, sessionID, m.now())
}

func (m *Manager) saveContext(ctx context.Context, key string, conv *entity.ConversationContext) {
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.storeTimeout)
	defer cancel()

	if err := m.store.Set(c, key, conv, m.ttl); err != nil {
		m.log.WithFields(logrus.Fields{
			"context_id": key,
			"error":      err.Error(),
		}).Warn("[dialogue.saveContext] failed to save context")
	}
}

func (m *Manager) followUps(intent nlp.Intent, confidence float64, state entity.DialogueState) []string {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	return suggestFollowUps(intent, confidence, state, m.rng)
}

func entityMap(result *nlp.Result) map[string]string {
	out := make(map[string]string)
	for _, e := range result.DomainEntities() {
		out[e.Type] = e.Value
	}
	return out
}

func safeResult(key string) *entity.DialogueResult {
	return &entity.DialogueResult{
		Response:           SafeReply,
		Confidence:         0,
		ProcessingMethod:   entity.MethodError,
		SuggestedFollowUps: []string{},
		ContextID:          key,
		Intent:             nlp.IntentUnknown,
	}
}
