package nlp

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases and trims the message. Entity spans refer to this form.
func Normalize(text string) string {
	return strings.TrimSpace(strings.ToLower(text))
}

// foldText strips diacritics and punctuation so keyword matching sees
// "café-hours?" as "cafe hours".
func foldText(text string) string {
	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		result = text
	}

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, result)

	return strings.Join(strings.Fields(result), " ")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// keywordPattern matches a keyword at the start of a word. Short keywords
// ("hi", "hey") must match the whole word so "this" or "history" do not
// count as greetings.
func keywordPattern(kw string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(strings.ToLower(kw))
	if len([]rune(kw)) <= 3 {
		return regexp.MustCompile(`\b` + quoted + `\b`)
	}
	return regexp.MustCompile(`\b` + quoted)
}

// wordSet is a compiled keyword list.
type wordSet struct {
	words    []string
	patterns []*regexp.Regexp
}

func newWordSet(words ...string) wordSet {
	ws := wordSet{words: words, patterns: make([]*regexp.Regexp, len(words))}
	for i, w := range words {
		ws.patterns[i] = keywordPattern(w)
	}
	return ws
}

func (ws wordSet) any(text string) bool {
	for _, p := range ws.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func (ws wordSet) count(text string) int {
	n := 0
	for _, p := range ws.patterns {
		if p.MatchString(text) {
			n++
		}
	}
	return n
}

// matched returns the keywords found in text, in list order.
func (ws wordSet) matched(text string) []string {
	var out []string
	for i, p := range ws.patterns {
		if p.MatchString(text) {
			out = append(out, ws.words[i])
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
