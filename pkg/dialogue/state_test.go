package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
)

func convWith(last nlp.Intent) *entity.ConversationContext {
	conv := entity.NewConversationContext("u1", "s1", fixedNow)
	conv.History = append(conv.History, entity.Turn{Role: entity.RoleUser, Text: "earlier", Intent: last})
	conv.LastIntent = last
	return conv
}

func TestDetermineState(t *testing.T) {
	tests := []struct {
		name       string
		conv       *entity.ConversationContext
		intent     nlp.Intent
		confidence float64
		want       entity.DialogueState
	}{
		{"first message greets", entity.NewConversationContext("u1", "s1", fixedNow), nlp.IntentBookSearch, 0.95, entity.StateGreeting},
		{"repeat beats high confidence", convWith(nlp.IntentLibraryHours), nlp.IntentLibraryHours, 0.95, entity.StateClarifying},
		{"below 0.3 clarifies", convWith(nlp.IntentGreeting), nlp.IntentBookSearch, 0.29, entity.StateClarifying},
		{"0.3 confirms", convWith(nlp.IntentGreeting), nlp.IntentBookSearch, 0.3, entity.StateConfirming},
		{"below 0.6 confirms", convWith(nlp.IntentGreeting), nlp.IntentBookSearch, 0.59, entity.StateConfirming},
		{"searching", convWith(nlp.IntentGreeting), nlp.IntentBookSearch, 0.6, entity.StateSearching},
		{"informing", convWith(nlp.IntentGreeting), nlp.IntentLibraryHours, 0.9, entity.StateInforming},
		{"explaining", convWith(nlp.IntentGreeting), nlp.IntentBorrowingPolicy, 0.9, entity.StateExplaining},
		{"assisting", convWith(nlp.IntentGreeting), nlp.IntentResearchAssistance, 0.9, entity.StateAssisting},
		{"farewell", convWith(nlp.IntentGreeting), nlp.IntentFarewell, 0.9, entity.StateFarewell},
		{"unmapped intent converses", convWith(nlp.IntentGreeting), nlp.IntentContactInfo, 0.9, entity.StateConversing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineState(tt.conv, tt.intent, tt.confidence))
		})
	}
}

func TestNextPhase(t *testing.T) {
	tests := []struct {
		name     string
		prev     entity.Phase
		state    entity.DialogueState
		strategy entity.Strategy
		intent   nlp.Intent
		want     entity.Phase
	}{
		{"farewell completes", entity.PhaseFollowUp, entity.StateFarewell, entity.StrategyNLPBased, nlp.IntentFarewell, entity.PhaseCompleted},
		{"clarifying state", entity.PhaseQueryProcessing, entity.StateClarifying, entity.StrategyNLPBased, nlp.IntentBookSearch, entity.PhaseClarificationNeeded},
		{"confirming state", entity.PhaseGreeting, entity.StateConfirming, entity.StrategyNLPBased, nlp.IntentBookSearch, entity.PhaseClarificationNeeded},
		{"clarification strategy", entity.PhaseFollowUp, entity.StateSearching, entity.StrategyClarification, nlp.IntentBookSearch, entity.PhaseClarificationNeeded},
		{"greeting stays", entity.PhaseGreeting, entity.StateGreeting, entity.StrategyRuleBased, nlp.IntentGreeting, entity.PhaseGreeting},
		{"greeting from empty", "", entity.StateGreeting, entity.StrategyRuleBased, nlp.IntentGreeting, entity.PhaseGreeting},
		{"first query", entity.PhaseGreeting, entity.StateInforming, entity.StrategyNLPBased, nlp.IntentLibraryHours, entity.PhaseQueryProcessing},
		{"query then follow-up", entity.PhaseQueryProcessing, entity.StateInforming, entity.StrategyNLPBased, nlp.IntentLibraryHours, entity.PhaseFollowUp},
		{"follow-up stays", entity.PhaseFollowUp, entity.StateSearching, entity.StrategyRuleBased, nlp.IntentBookSearch, entity.PhaseFollowUp},
		{"back from clarification", entity.PhaseClarificationNeeded, entity.StateSearching, entity.StrategyNLPBased, nlp.IntentBookSearch, entity.PhaseQueryProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextPhase(tt.prev, tt.state, tt.strategy, tt.intent))
		})
	}
}
