package nlp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bestIntent(scores map[Intent]float64) Intent {
	best, max := IntentUnknown, -1.0
	for _, intent := range NewKeywordClassifier(nil).Intents() {
		if s, ok := scores[intent]; ok && s > max {
			best, max = intent, s
		}
	}
	return best
}

func TestNaiveBayes_Score(t *testing.T) {
	nb, err := TrainNaiveBayes(DefaultTrainingSet())
	require.NoError(t, err)

	scores, err := nb.Score(context.Background(), "when does the library open")
	require.NoError(t, err)

	total := 0.0
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		total += s
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Equal(t, IntentLibraryHours, bestIntent(scores))
}

func TestNaiveBayes_UnknownWordsFallBackToPriors(t *testing.T) {
	nb, err := TrainNaiveBayes([]TrainingExample{
		{Text: "hello", Intent: IntentGreeting},
		{Text: "hi there", Intent: IntentGreeting},
		{Text: "goodbye", Intent: IntentFarewell},
		{Text: "thanks", Intent: IntentFarewell},
	})
	require.NoError(t, err)

	scores, err := nb.Score(context.Background(), "zzz qqq")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, scores[IntentGreeting], 1e-9)
	assert.InDelta(t, 0.5, scores[IntentFarewell], 1e-9)
}

func TestNaiveBayes_Errors(t *testing.T) {
	_, err := TrainNaiveBayes(nil)
	assert.ErrorIs(t, err, ErrNoTrainingData)

	nb, err := TrainNaiveBayes(DefaultTrainingSet())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = nb.Score(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadTrainingSet(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "training.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"text":"hello","intent":"greeting"}]`), 0o644))

	examples, err := LoadTrainingSet(path)
	require.NoError(t, err)
	assert.Equal(t, []TrainingExample{{Text: "hello", Intent: IntentGreeting}}, examples)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o644))
	_, err = LoadTrainingSet(empty)
	assert.ErrorIs(t, err, ErrNoTrainingData)

	_, err = LoadTrainingSet(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadTrainingSet_Shipped(t *testing.T) {
	examples, err := LoadTrainingSet(filepath.Join("..", "..", "data", "intent_training.json"))
	require.NoError(t, err)
	assert.Len(t, examples, 48)

	nb, err := TrainNaiveBayes(examples)
	require.NoError(t, err)
	scores, err := nb.Score(context.Background(), "when does the library close")
	require.NoError(t, err)
	assert.Greater(t, scores[IntentLibraryHours], scores[IntentBookSearch])
}
