package generator

import (
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestGenerator(templates Templates) *Generator {
	return New(templates, quietLogger(),
		WithRand(rand.New(rand.NewSource(7))),
		WithClock(func() time.Time { return time.Date(2026, 3, 2, 14, 5, 0, 0, time.UTC) }),
	)
}

func TestGenerate_RuleBased(t *testing.T) {
	g := newTestGenerator(nil)
	c := &entity.ResponseCandidate{
		Source: entity.SourceRule,
		Rule: &entity.RuleMatch{
			Template:  "Books by {match_1} are in   the {section} wing.\nAsk {missing} at the desk.",
			Variables: map[string]string{"match_1": "Tolkien"},
		},
	}

	out, err := g.Generate(c, nil, entity.StrategyRuleBased)
	require.NoError(t, err)
	assert.Equal(t, "Books by Tolkien are in the wing.\nAsk at the desk.", out)

	conv := entity.NewConversationContext("u", "s", time.Now())
	conv.Preferences[entity.PreferenceUserName] = "Ada"
	out, err = g.Generate(c, conv, entity.StrategyRuleBased)
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada, Books by Tolkien are in the wing.\nAsk at the desk.", out)
}

func TestGenerate_RuleValuesAreNotRescanned(t *testing.T) {
	g := newTestGenerator(nil)
	c := &entity.ResponseCandidate{
		Source: entity.SourceRule,
		Rule: &entity.RuleMatch{
			Template: "You asked for {match_1} in {section}.",
			Variables: map[string]string{
				"match_1": "{section} {x}",
				"section": "reference",
			},
		},
	}

	for i := 0; i < 20; i++ {
		out, err := g.Generate(c, nil, entity.StrategyRuleBased)
		require.NoError(t, err)
		assert.Equal(t, "You asked for {section} {x} in reference.", out)
	}
}

func TestGenerate_NLPBased(t *testing.T) {
	templates := Templates{
		"library_hours": {PartMain: "We are open until 10pm. It is {current_time} now.", PartFollowUp: "Anything else?"},
		"book_search":   {PartMain: "Looking for {genre} by {author}, {count} results."},
	}
	g := newTestGenerator(templates)

	t.Run("current time and follow up", func(t *testing.T) {
		c := &entity.ResponseCandidate{Source: entity.SourceNLP, NLP: &nlp.Result{Intent: nlp.IntentLibraryHours}}
		out, err := g.Generate(c, nil, entity.StrategyNLPBased)
		require.NoError(t, err)
		assert.Equal(t, "We are open until 10pm. It is 14:05 now. Anything else?", out)
	})

	t.Run("missing keys stay verbatim", func(t *testing.T) {
		c := &entity.ResponseCandidate{Source: entity.SourceNLP, NLP: &nlp.Result{
			Intent: nlp.IntentBookSearch,
			Entities: []nlp.Entity{
				{Type: "genre", Value: "fantasy", Source: nlp.EntitySourcePattern},
				{Type: "genre", Value: "mystery", Source: nlp.EntitySourcePattern},
			},
		}}
		out, err := g.Generate(c, nil, entity.StrategyNLPBased)
		require.NoError(t, err)
		assert.Equal(t, "Looking for fantasy by {author}, {count} results.", out)
	})

	t.Run("unknown intent uses generic template", func(t *testing.T) {
		c := &entity.ResponseCandidate{Source: entity.SourceNLP, NLP: &nlp.Result{Intent: nlp.IntentStudyRooms}}
		out, err := g.Generate(c, nil, entity.StrategyNLPBased)
		require.NoError(t, err)
		assert.Equal(t, "I can help you with that. Based on your query about study rooms...", out)
	})

	t.Run("system time entity wins", func(t *testing.T) {
		c := &entity.ResponseCandidate{Source: entity.SourceNLP, NLP: &nlp.Result{
			Intent:   nlp.IntentLibraryHours,
			Entities: []nlp.Entity{{Type: nlp.EntityCurrentTime, Value: "09:00", Source: nlp.EntitySourceSystem}},
		}}
		out, err := g.Generate(c, nil, entity.StrategyNLPBased)
		require.NoError(t, err)
		assert.Contains(t, out, "It is 09:00 now.")
	})
}

func TestGenerate_KnowledgeBase(t *testing.T) {
	g := newTestGenerator(nil)
	gen := func(kb *entity.KnowledgeAnswer) string {
		out, err := g.Generate(&entity.ResponseCandidate{Source: entity.SourceKnowledgeBase, Knowledge: kb}, nil, entity.StrategyKnowledgeBase)
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, "Loans last 14 days.\n\n_This information comes from: Handbook_\n\nNeed a renewal?",
		gen(&entity.KnowledgeAnswer{Answer: "Loans last 14 days.", Confidence: 0.9, Source: "Handbook", FollowUp: "Need a renewal?"}))

	out := gen(&entity.KnowledgeAnswer{Answer: "Loans last 14 days.", Confidence: 0.7})
	assert.Contains(t, out, "Based on available information: Loans last 14 days.")
	assert.Contains(t, out, "verify with library staff")

	out = gen(&entity.KnowledgeAnswer{Answer: "x", Confidence: 0.5, RelatedTopics: []string{"fines", "renewals", "holds", "rooms"}})
	assert.Contains(t, out, "fines, renewals, holds\n")

	out = gen(&entity.KnowledgeAnswer{})
	assert.Contains(t, out, "Contact the library help desk")
}

func TestGenerate_Clarification(t *testing.T) {
	g := newTestGenerator(nil)

	out, err := g.Generate(&entity.ResponseCandidate{Source: entity.SourceClarification}, nil, entity.StrategyClarification)
	require.NoError(t, err)
	assert.Contains(t, ClarificationTemplates(), out)

	out, err = g.Generate(&entity.ResponseCandidate{
		Source:        entity.SourceClarification,
		Clarification: &entity.ClarificationRequest{UnclearEntities: []string{"it", "that", "there", "them"}},
	}, nil, entity.StrategyClarification)
	require.NoError(t, err)
	assert.Equal(t, "I want to help you better. Could you clarify what you mean by it, that, there?", out)
}

func TestGenerate_SeededRandomIsRepeatable(t *testing.T) {
	a, b := newTestGenerator(nil), newTestGenerator(nil)
	c := &entity.ResponseCandidate{Source: entity.SourceClarification}
	for i := 0; i < 5; i++ {
		outA, _ := a.Generate(c, nil, entity.StrategyClarification)
		outB, _ := b.Generate(c, nil, entity.StrategyClarification)
		assert.Equal(t, outA, outB)
	}
}

func TestGenerate_Errors(t *testing.T) {
	g := newTestGenerator(nil)

	_, err := g.Generate(nil, nil, entity.StrategyRuleBased)
	assert.ErrorIs(t, err, ErrNoCandidate)

	_, err = g.Generate(&entity.ResponseCandidate{Source: entity.SourceNLP}, nil, entity.StrategyRuleBased)
	assert.ErrorIs(t, err, ErrMissingPayload)
}

func TestGenerate_OutputIsSanitized(t *testing.T) {
	g := newTestGenerator(Templates{"greeting": {PartMain: "Weâ€™re glad you’re here"}})
	c := &entity.ResponseCandidate{Source: entity.SourceNLP, NLP: &nlp.Result{Intent: nlp.IntentGreeting}}

	out, err := g.Generate(c, nil, entity.StrategyNLPBased)
	require.NoError(t, err)
	assert.Equal(t, "We’re glad you’re here", out)
}

func TestSafeFormat(t *testing.T) {
	assert.Equal(t, "a 1 {missing_key} {not a key}", SafeFormat("a {x} {missing_key} {not a key}", map[string]string{"x": "1"}))
	assert.Equal(t, "", SafeFormat("", nil))
}

func TestLoadTemplates(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		templates := LoadTemplates(filepath.Join(dir, "nope.json"), quietLogger())
		assert.Equal(t, DefaultTemplates(), templates)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(dir, "templates.json")
		doc := `{"library_hours": {"main": "Open 24/7", "variants": ["a", "b"]}}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		templates := LoadTemplates(path, quietLogger())
		assert.Equal(t, "Open 24/7", templates.Get("library_hours", PartMain))
		assert.Equal(t, "", templates.Get("library_hours", "variants"))
		assert.NotEmpty(t, templates.Get(FallbackKey, PartMain))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"greeting": `), 0o644))
		assert.Equal(t, DefaultTemplates(), LoadTemplates(path, quietLogger()))
	})
}

func TestLoadTemplates_Shipped(t *testing.T) {
	templates := LoadTemplates(filepath.Join("..", "..", "data", "response_templates.json"), quietLogger())

	for _, intent := range []string{"greeting", "farewell", "library_hours", "book_search", "borrowing_policy", FallbackKey} {
		assert.NotEmpty(t, templates.Get(intent, PartMain), intent)
	}
	assert.Contains(t, templates.Get("library_hours", PartMain), "{current_time}")
}
