package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func valuesByType(entities []Entity) map[string][]string {
	out := make(map[string][]string)
	for _, e := range entities {
		out[e.Type] = append(out[e.Type], e.Value)
	}
	return out
}

func TestPatternExtractor_Extract(t *testing.T) {
	p := NewPatternExtractor()

	t.Run("title and author", func(t *testing.T) {
		got := valuesByType(p.Extract(`i want the book called "dune" by frank herbert`))
		assert.Equal(t, []string{"dune"}, got["book_title"])
		assert.Equal(t, []string{"frank herbert"}, got["author"])
	})

	t.Run("isbn", func(t *testing.T) {
		got := valuesByType(p.Extract("do you have isbn 9780306406157"))
		assert.Equal(t, []string{"9780306406157"}, got["isbn"])
	})

	t.Run("genre prefers longer name", func(t *testing.T) {
		got := valuesByType(p.Extract("any good science fiction?"))
		assert.Equal(t, []string{"science fiction"}, got["genre"])
	})

	t.Run("duration and time", func(t *testing.T) {
		got := valuesByType(p.Extract("can i borrow it for 2 weeks and return at 5:30 pm"))
		assert.Equal(t, []string{"2 weeks"}, got["duration"])
		assert.Equal(t, []string{"5:30 pm"}, got["time"])
		assert.Equal(t, []string{"borrow", "return"}, got["service"])
	})

	t.Run("spans point into text", func(t *testing.T) {
		text := "is the reference desk open"
		entities := p.Extract(text)
		if assert.Len(t, entities, 1) {
			e := entities[0]
			assert.Equal(t, "library_section", e.Type)
			assert.Equal(t, "reference", text[e.Span.Start:e.Span.End])
			assert.Equal(t, EntitySourcePattern, e.Source)
		}
	})

	t.Run("matches stop at word boundaries", func(t *testing.T) {
		for _, text := range []string{
			"tell me about 10 amazing books",
			"update my preferences",
			"i returned it",
			"the lab is undigital",
			"1000 daylight hours",
		} {
			assert.Empty(t, p.Extract(text), text)
		}
	})

	t.Run("anchored forms still match", func(t *testing.T) {
		got := valuesByType(p.Extract("renew my textbooks before 9am, isbn: 0306406152"))
		assert.Equal(t, []string{"renew"}, got["service"])
		assert.Equal(t, []string{"textbook"}, got["genre"])
		assert.Equal(t, []string{"9am"}, got["time"])
		assert.Equal(t, []string{"0306406152"}, got["isbn"])
	})

	t.Run("no entities", func(t *testing.T) {
		assert.Empty(t, p.Extract("hello"))
	})
}

func TestSentimentOf(t *testing.T) {
	assert.Equal(t, SentimentPositive, SentimentOf("thanks, that was helpful"))
	assert.Equal(t, SentimentNegative, SentimentOf("the search is wrong, terrible"))
	assert.Equal(t, SentimentNeutral, SentimentOf("good but wrong"))
	assert.Equal(t, SentimentNeutral, SentimentOf("library hours"))
}

func TestKeywords(t *testing.T) {
	got := Keywords([]string{"Where", "is", "the", "library", "library", "?", "Hours"})
	assert.Equal(t, []string{"library", "hours"}, got)
}
