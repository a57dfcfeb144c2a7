package nlp

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeScorer struct {
	name   string
	scores map[Intent]float64
	err    error
	block  bool
}

func (f *fakeScorer) Name() string { return f.name }

func (f *fakeScorer) Score(ctx context.Context, _ string) (map[Intent]float64, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.scores, f.err
}

type fakeModel struct {
	analysis *Analysis
	err      error
}

func (f *fakeModel) Analyze(string) (*Analysis, error) { return f.analysis, f.err }

func TestExtractor_Empty(t *testing.T) {
	e := NewExtractor(quietLogger())

	res := e.Extract(context.Background(), "   ")
	assert.Equal(t, IntentUnknown, res.Intent)
	assert.Zero(t, res.Confidence)
	assert.Equal(t, MethodEmpty, res.Method)
	assert.Equal(t, SentimentNeutral, res.Sentiment)
	assert.Nil(t, res.Entities)
}

func TestExtractor_KeywordPath(t *testing.T) {
	e := NewExtractor(quietLogger())

	res := e.Extract(context.Background(), "  What are the Library Hours?")
	assert.Equal(t, "what are the library hours?", res.Text)
	assert.Equal(t, IntentLibraryHours, res.Intent)
	assert.InDelta(t, 0.95, res.Confidence, 1e-9)
	assert.Equal(t, MethodOverride, res.Method)
	assert.Equal(t, []string{"what", "are", "the", "library", "hours?"}, res.Tokens)
	assert.Equal(t, []string{"library", "hours"}, res.Keywords)
	assert.Nil(t, res.Scores)
}

func TestExtractor_EnsembleWeightsAreNotRescaled(t *testing.T) {
	classifier := &fakeScorer{name: "fake", scores: map[Intent]float64{IntentResearchAssistance: 1}}
	e := NewExtractor(quietLogger(), WithClassifier(classifier))

	res := e.Extract(context.Background(), "tell me something")
	assert.Equal(t, IntentResearchAssistance, res.Intent)
	assert.InDelta(t, WeightClassifier, res.Confidence, 1e-9)
	assert.Equal(t, MethodEnsemble, res.Method)
	assert.Equal(t, []string{"keyword", "fake"}, res.Sources)
}

func TestExtractor_EnsembleTieKeepsDeclarationOrder(t *testing.T) {
	semantic := &fakeScorer{name: "sem", scores: map[Intent]float64{
		IntentFarewell:   0.5,
		IntentStudyRooms: 0.5,
	}}
	e := NewExtractor(quietLogger(), WithSemantic(semantic))

	res := e.Extract(context.Background(), "tell me something")
	assert.Equal(t, IntentStudyRooms, res.Intent)
	assert.InDelta(t, 0.1, res.Confidence, 1e-9)
}

func TestExtractor_OverridesWinInEnsemble(t *testing.T) {
	classifier := &fakeScorer{name: "fake", scores: map[Intent]float64{IntentFarewell: 1}}
	e := NewExtractor(quietLogger(), WithClassifier(classifier))

	res := e.Extract(context.Background(), "I want to renew a book")
	assert.Equal(t, IntentBookRenewal, res.Intent)
	assert.Equal(t, MethodOverride, res.Method)
}

func TestExtractor_ScorerFailureFallsBackToKeywords(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		classifier := &fakeScorer{name: "fake", err: errors.New("model offline")}
		e := NewExtractor(quietLogger(), WithClassifier(classifier))

		res := e.Extract(context.Background(), "find a book")
		assert.Equal(t, IntentBookSearch, res.Intent)
		assert.InDelta(t, 0.8, res.Confidence, 1e-9)
		assert.Equal(t, MethodKeyword, res.Method)
	})

	t.Run("timeout", func(t *testing.T) {
		classifier := &fakeScorer{name: "slow", block: true}
		e := NewExtractor(quietLogger(), WithClassifier(classifier), WithScoreTimeout(10*time.Millisecond))

		res := e.Extract(context.Background(), "find a book")
		assert.Equal(t, IntentBookSearch, res.Intent)
		assert.Equal(t, MethodKeyword, res.Method)
	})
}

func TestExtractor_LinguisticModel(t *testing.T) {
	t.Run("entities are merged and tokens replaced", func(t *testing.T) {
		model := &fakeModel{analysis: &Analysis{
			Tokens:   []Token{{Text: "books", Tag: "NNS"}, {Text: "by", Tag: "IN"}, {Text: "tolkien", Tag: "NNP"}},
			Entities: []Entity{{Type: "person", Value: "tolkien", Span: Span{9, 16}, Source: EntitySourceLinguistic}},
		}}
		e := NewExtractor(quietLogger(), WithLinguisticModel(model))

		res := e.Extract(context.Background(), "books by tolkien")
		assert.Equal(t, []string{"books", "by", "tolkien"}, res.Tokens)
		got := valuesByType(res.Entities)
		assert.Equal(t, []string{"tolkien"}, got["person"])
		assert.Equal(t, []string{"tolkien"}, got["author"])
	})

	t.Run("model failure keeps pattern entities", func(t *testing.T) {
		e := NewExtractor(quietLogger(), WithLinguisticModel(&fakeModel{err: errors.New("boom")}))

		res := e.Extract(context.Background(), "books by tolkien")
		assert.Equal(t, []string{"books", "by", "tolkien"}, res.Tokens)
		require.Len(t, res.Entities, 1)
		assert.Equal(t, "author", res.Entities[0].Type)
	})
}

func TestExtractor_DefaultModelsKeepNonsenseLow(t *testing.T) {
	ctx := context.Background()

	nb, err := TrainNaiveBayes(DefaultTrainingSet())
	require.NoError(t, err)
	sem, err := NewSemanticScorer(ctx, DefaultIntentExamples(), nil)
	require.NoError(t, err)

	e := NewExtractor(quietLogger(), WithClassifier(nb), WithSemantic(sem), WithLinguisticModel(NewProseModel()))

	res := e.Extract(ctx, "asdkfj random nonsense")
	assert.Less(t, res.Confidence, 0.3)
	assert.GreaterOrEqual(t, res.Confidence, 0.0)

	res = e.Extract(ctx, "What are the library hours?")
	assert.Equal(t, IntentLibraryHours, res.Intent)
	assert.GreaterOrEqual(t, res.Confidence, 0.85)
}
