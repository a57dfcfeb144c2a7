package nlp

import (
	"strings"
	"unicode"
)

var (
	positiveWords = []string{"good", "great", "excellent", "thank", "thanks", "helpful", "nice"}
	negativeWords = []string{"bad", "poor", "terrible", "wrong", "incorrect", "problem"}
)

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "do": true, "does": true, "did": true, "i": true, "me": true,
	"my": true, "you": true, "your": true, "it": true, "its": true, "this": true,
	"that": true, "what": true, "when": true, "where": true, "how": true,
	"can": true, "could": true, "would": true, "will": true, "please": true,
	"there": true, "from": true, "about": true, "any": true, "some": true,
}

// SentimentOf counts polarity words; ties are neutral.
func SentimentOf(text string) Sentiment {
	text = strings.ToLower(text)

	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Keywords filters stop words and punctuation out of tokens, keeping the
// first occurrence order.
func Keywords(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		word := strings.ToLower(strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if len(word) <= 2 || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		out = append(out, word)
	}
	return out
}

func whitespaceTokens(text string) []string {
	return strings.Fields(text)
}
