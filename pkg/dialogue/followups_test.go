package dialogue

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
)

func TestSuggestFollowUps(t *testing.T) {
	tests := []struct {
		name       string
		intent     nlp.Intent
		confidence float64
		state      entity.DialogueState
		want       []string
	}{
		{"intent pool", nlp.IntentBorrowingPolicy, 0.7, entity.StateExplaining, intentFollowUps[nlp.IntentBorrowingPolicy]},
		{"unmapped intent uses generic pool", nlp.IntentContactInfo, 0.7, entity.StateConversing, intentFollowUps[nlp.IntentUnknown]},
		{"below 0.4 broadens", nlp.IntentBookSearch, 0.39, entity.StateSearching, broadFollowUps},
		{"above 0.8 narrows book search", nlp.IntentBookSearch, 0.81, entity.StateSearching, narrowFollowUps[nlp.IntentBookSearch]},
		{"above 0.8 narrows hours", nlp.IntentLibraryHours, 0.95, entity.StateInforming, narrowFollowUps[nlp.IntentLibraryHours]},
		{"0.8 does not narrow", nlp.IntentLibraryHours, 0.8, entity.StateInforming, intentFollowUps[nlp.IntentLibraryHours]},
		{"no narrow list for other intents", nlp.IntentResearchAssistance, 0.95, entity.StateAssisting, intentFollowUps[nlp.IntentResearchAssistance]},
		{"clarifying replaces everything", nlp.IntentBookSearch, 0.95, entity.StateClarifying, clarifyingFollowUps},
		{"confirming replaces everything", nlp.IntentBookSearch, 0.2, entity.StateConfirming, confirmingFollowUps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := suggestFollowUps(tt.intent, tt.confidence, tt.state, rand.New(rand.NewSource(1)))
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxFollowUps)
		})
	}
}

func TestSuggestFollowUps_ReturnsCopy(t *testing.T) {
	got := suggestFollowUps(nlp.IntentBookSearch, 0.9, entity.StateSearching, rand.New(rand.NewSource(1)))
	got[0] = "changed"
	assert.NotEqual(t, "changed", narrowFollowUps[nlp.IntentBookSearch][0])
}

func TestClarificationQuestions(t *testing.T) {
	assert.Equal(t, []string{"Library opening hours", "Weekend hours", "Holiday schedule"}, clarificationQuestions("When are you OPEN"))
	assert.Equal(t, []string{"Search by title", "Search by author", "E-book availability"}, clarificationQuestions("where do i look"))
	assert.Equal(t, []string{"Borrowing period", "Late fees", "Renewing books"}, clarificationQuestions("late return of a loan"))
	assert.Equal(t, []string{"Library hours", "Book search", "Borrowing information"}, clarificationQuestions("xyzzy"))
}
