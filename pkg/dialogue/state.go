package dialogue

import (
	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
)

var intentStates = map[nlp.Intent]entity.DialogueState{
	nlp.IntentGreeting:           entity.StateGreeting,
	nlp.IntentFarewell:           entity.StateFarewell,
	nlp.IntentBookSearch:         entity.StateSearching,
	nlp.IntentLibraryHours:       entity.StateInforming,
	nlp.IntentBorrowingPolicy:    entity.StateExplaining,
	nlp.IntentResearchAssistance: entity.StateAssisting,
	nlp.IntentUnknown:            entity.StateClarifying,
}

// determineState labels the turn. A repeated intent forces clarifying so
// the bot stops answering the same question the same way.
func determineState(conv *entity.ConversationContext, intent nlp.Intent, confidence float64) entity.DialogueState {
	if conv.IsNew() {
		return entity.StateGreeting
	}
	if conv.LastIntent != "" && conv.LastIntent == intent {
		return entity.StateClarifying
	}
	if confidence < 0.3 {
		return entity.StateClarifying
	}
	if confidence < 0.6 {
		return entity.StateConfirming
	}
	if s, ok := intentStates[intent]; ok {
		return s
	}
	return entity.StateConversing
}

// nextPhase moves the lifecycle: greeting, then query processing, then
// follow-up turns, with clarification reachable from anywhere and farewell
// completing the conversation.
func nextPhase(prev entity.Phase, state entity.DialogueState, strategy entity.Strategy, intent nlp.Intent) entity.Phase {
	switch {
	case state == entity.StateFarewell:
		return entity.PhaseCompleted
	case state == entity.StateClarifying || state == entity.StateConfirming || strategy == entity.StrategyClarification:
		return entity.PhaseClarificationNeeded
	case intent == nlp.IntentGreeting && (prev == "" || prev == entity.PhaseGreeting):
		return entity.PhaseGreeting
	case prev == entity.PhaseQueryProcessing || prev == entity.PhaseFollowUp:
		return entity.PhaseFollowUp
	default:
		return entity.PhaseQueryProcessing
	}
}
