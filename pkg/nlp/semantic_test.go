package nlp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashingEmbedder(t *testing.T) {
	ef := HashingEmbedder(64)
	ctx := context.Background()

	a, err := ef(ctx, "Library Hours")
	require.NoError(t, err)
	b, err := ef(ctx, "library hours!")
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.Equal(t, a, b)

	_, err = ef(ctx, "?!")
	assert.Error(t, err)
}

func TestSemanticScorer_Score(t *testing.T) {
	ctx := context.Background()

	s, err := NewSemanticScorer(ctx, DefaultIntentExamples(), nil)
	require.NoError(t, err)

	scores, err := s.Score(ctx, "book a study room")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, scores[IntentStudyRooms], 1e-3)
	for intent, sim := range scores {
		assert.LessOrEqual(t, sim, scores[IntentStudyRooms], intent)
	}

	empty, err := s.Score(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNewSemanticScorer_NoExamples(t *testing.T) {
	_, err := NewSemanticScorer(context.Background(), nil, nil)
	assert.Error(t, err)
}
