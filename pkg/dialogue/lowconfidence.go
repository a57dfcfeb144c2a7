package dialogue

import (
	"fmt"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
)

const (
	clarifyBelow = 0.3
	suggestBelow = 0.5
)

var (
	rephrasePrompts = []string{
		"I'm not quite sure what you mean. Could you rephrase that?",
		"I want to make sure I understand correctly. Could you say that differently?",
		"I'm having trouble understanding. Could you provide more details?",
	}
	suggestPrompts = []string{
		"I think you might be asking about: (1) Library hours, (2) Finding books, or (3) Borrowing policies. Which one interests you?",
		"Could this be about: Library hours, Book search, or Borrowing information?",
		"I can help with library hours, book searches, or borrowing questions. Which would you like?",
	}
	confirmPrompts = []string{
		"Just to make sure I understood: are you asking about '%s'?",
		"I think you're asking about: %s. Is that correct?",
		"Let me confirm: you want to know about '%s', right?",
	}
)

// RephrasePrompts returns the responses used for the lowest band.
func RephrasePrompts() []string {
	return append([]string(nil), rephrasePrompts...)
}

// HandleLowConfidence answers without generating from a candidate. The band
// decides between asking to rephrase, suggesting topics and echoing the
// message back for confirmation.
func (m *Manager) HandleLowConfidence(message string, confidence float64) *entity.DialogueResult {
	res := &entity.DialogueResult{
		Confidence:            clamp01(confidence),
		RequiresClarification: true,
		SuggestedFollowUps:    clarificationQuestions(message),
	}

	switch {
	case confidence < clarifyBelow:
		res.Response = m.pick(rephrasePrompts)
		res.Action = entity.ActionClarify
		res.ProcessingMethod = entity.MethodLowConfidenceClarification
	case confidence < suggestBelow:
		res.Response = m.pick(suggestPrompts)
		res.Action = entity.ActionSuggest
		res.ProcessingMethod = entity.MethodMediumConfidenceSuggestion
	default:
		res.Response = fmt.Sprintf(m.pick(confirmPrompts), message)
		res.Action = entity.ActionConfirm
		res.ProcessingMethod = entity.MethodHighConfidenceConfirmation
	}
	return res
}

func (m *Manager) pick(options []string) string {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	return options[m.rng.Intn(len(options))]
}

func clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
