package nlp

import (
	"context"
	"math"
)

const (
	keywordHit       = 0.4
	keywordThreshold = 0.3
	keywordCeiling   = 0.95
)

var (
	hoursWords       = newWordSet("hour", "open", "close", "time")
	searchWords      = newWordSet("book", "find", "search")
	renewWords       = newWordSet("renew")
	reserveWords     = newWordSet("reserve", "hold")
	contactWords     = newWordSet("contact", "phone", "email")
	researchWords    = newWordSet("research", "citation", "paper")
	greetingWords    = newWordSet("hello", "hi", "hey", "greeting", "morning", "afternoon", "evening")
	libraryHourWords = newWordSet("library hour")
	availableWords   = newWordSet("available")
)

type intentRow struct {
	intent Intent
	words  wordSet
}

// KeywordClassifier is the keyword table scorer. It also owns the override
// heuristics used by every classification mode.
type KeywordClassifier struct {
	rows []intentRow
}

func NewKeywordClassifier(table []IntentKeywords) *KeywordClassifier {
	if len(table) == 0 {
		table = DefaultIntentTable()
	}

	rows := make([]intentRow, 0, len(table))
	for _, t := range table {
		rows = append(rows, intentRow{intent: t.Intent, words: newWordSet(t.Keywords...)})
	}
	return &KeywordClassifier{rows: rows}
}

// Intents returns the intent labels in declaration order.
func (k *KeywordClassifier) Intents() []Intent {
	out := make([]Intent, len(k.rows))
	for i, r := range k.rows {
		out[i] = r.intent
	}
	return out
}

func (k *KeywordClassifier) Name() string { return "keyword" }

// Score returns the fraction of each intent's keyword list present in text.
func (k *KeywordClassifier) Score(_ context.Context, text string) (map[Intent]float64, error) {
	folded := foldText(text)
	scores := make(map[Intent]float64, len(k.rows))
	for _, r := range k.rows {
		if len(r.words.words) == 0 {
			continue
		}
		scores[r.intent] = float64(r.words.count(folded)) / float64(len(r.words.words))
	}
	return scores, nil
}

// Classify is the keyword-only path: +0.4 per keyword hit, then the override
// heuristics.
func (k *KeywordClassifier) Classify(text string) (Intent, float64, Method) {
	folded := foldText(text)

	best, max := IntentUnknown, keywordThreshold
	for _, r := range k.rows {
		score := keywordHit * float64(r.words.count(folded))
		if score > max {
			best, max = r.intent, score
		}
	}
	if best == IntentUnknown {
		max = 0
	}

	intent, conf, final := k.override(folded, best, max)
	if final {
		return intent, conf, MethodOverride
	}
	return intent, math.Min(conf, keywordCeiling), MethodKeyword
}

// Override runs only the overrides that return immediately.
func (k *KeywordClassifier) Override(text string) (Intent, float64, bool) {
	intent, conf, final := k.override(foldText(text), IntentUnknown, 0)
	if !final {
		return "", 0, false
	}
	return intent, conf, true
}

func (k *KeywordClassifier) override(text string, best Intent, score float64) (Intent, float64, bool) {
	if hoursWords.any(text) {
		if libraryHourWords.any(text) {
			return IntentLibraryHours, 0.95, true
		}
		best, score = IntentLibraryHours, math.Max(score, 0.85)
	}

	if searchWords.any(text) {
		if availableWords.any(text) {
			return IntentBookAvailability, 0.9, true
		}
		best, score = IntentBookSearch, math.Max(score, 0.8)
	}

	switch {
	case renewWords.any(text):
		return IntentBookRenewal, 0.9, true
	case reserveWords.any(text):
		return IntentBookReservation, 0.9, true
	case contactWords.any(text):
		return IntentContactInfo, 0.9, true
	case researchWords.any(text):
		return IntentResearchAssistance, 0.85, true
	case greetingWords.any(text):
		return IntentGreeting, 0.9, true
	}

	return best, score, false
}

// Bias applies the non-returning overrides to an ensemble winner.
func (k *KeywordClassifier) Bias(text string, best Intent, score float64) (Intent, float64) {
	intent, conf, _ := k.override(foldText(text), best, score)
	return intent, conf
}
