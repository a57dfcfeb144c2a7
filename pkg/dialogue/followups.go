package dialogue

import (
	"math/rand"
	"strings"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
)

const maxFollowUps = 4

var intentFollowUps = map[nlp.Intent][]string{
	nlp.IntentGreeting: {
		"What are the library hours?",
		"How do I search for books?",
		"What are the borrowing policies?",
		"Can you help with research?",
	},
	nlp.IntentLibraryHours: {
		"What are weekend hours?",
		"Are you open on holidays?",
		"When is the library busiest?",
		"Do you have extended exam hours?",
	},
	nlp.IntentBookSearch: {
		"How do I search by author?",
		"Can I search for e-books?",
		"How do I reserve a book?",
		"What if the book is checked out?",
	},
	nlp.IntentBorrowingPolicy: {
		"How long can I borrow books?",
		"What are the late fees?",
		"How do I renew a book?",
		"Can I borrow reference books?",
	},
	nlp.IntentResearchAssistance: {
		"How do I access journals?",
		"Can you help with citations?",
		"Are there research guides?",
		"How do I use databases?",
	},
	nlp.IntentUnknown: {
		"Tell me about library hours",
		"How do I find a book?",
		"What are the borrowing rules?",
		"Can you help with research?",
	},
}

var (
	broadFollowUps = []string{
		"Library hours information",
		"Book search help",
		"Borrowing policies",
		"Research assistance",
	}
	narrowFollowUps = map[nlp.Intent][]string{
		nlp.IntentBookSearch: {
			"Search for fiction books",
			"Find textbooks for my course",
			"Look up books by a specific author",
			"Check if a book is available",
		},
		nlp.IntentLibraryHours: {
			"Today's opening hours",
			"Weekend schedule",
			"Special holiday hours",
			"Quiet study hours",
		},
	}
	clarifyingFollowUps = []string{"Could you rephrase?", "What specifically are you asking?", "Let me try to understand better..."}
	confirmingFollowUps = []string{"Yes, that's correct", "No, let me clarify", "Partly, but also..."}
)

// suggestFollowUps picks at most four suggestions. Pools larger than four
// are sampled with rng.
func suggestFollowUps(intent nlp.Intent, confidence float64, state entity.DialogueState, rng *rand.Rand) []string {
	pool, ok := intentFollowUps[intent]
	if !ok {
		pool = intentFollowUps[nlp.IntentUnknown]
	}

	if confidence < 0.4 {
		pool = broadFollowUps
	} else if narrow, ok := narrowFollowUps[intent]; ok && confidence > 0.8 {
		pool = narrow
	}

	switch state {
	case entity.StateClarifying:
		pool = clarifyingFollowUps
	case entity.StateConfirming:
		pool = confirmingFollowUps
	}

	if len(pool) <= maxFollowUps {
		return append([]string(nil), pool...)
	}

	out := make([]string, 0, maxFollowUps)
	for _, i := range rng.Perm(len(pool))[:maxFollowUps] {
		out = append(out, pool[i])
	}
	return out
}

// clarificationQuestions sniffs the raw message for a topic.
func clarificationQuestions(message string) []string {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, "hour", "time", "open", "close"):
		return []string{"Library opening hours", "Weekend hours", "Holiday schedule"}
	case containsAny(lower, "book", "find", "search", "look"):
		return []string{"Search by title", "Search by author", "E-book availability"}
	case containsAny(lower, "borrow", "loan", "return", "due"):
		return []string{"Borrowing period", "Late fees", "Renewing books"}
	default:
		return []string{"Library hours", "Book search", "Borrowing information"}
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
