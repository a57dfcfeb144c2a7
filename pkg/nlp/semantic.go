package nlp

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"runtime"
	"strings"

	chromem "github.com/philippgille/chromem-go"
)

const intentCollection = "intent_examples"

// HashingEmbedder builds bag-of-words vectors by feature hashing whole words
// and their four-letter stems. It is the offline default when no embedding
// service is configured.
func HashingEmbedder(dim int) chromem.EmbeddingFunc {
	if dim <= 0 {
		dim = 256
	}
	return func(_ context.Context, text string) ([]float32, error) {
		vec := make([]float32, dim)
		words := strings.Fields(foldText(text))
		if len(words) == 0 {
			return nil, errors.New("nlp: nothing to embed")
		}
		for _, w := range words {
			if stopWords[w] {
				continue
			}
			vec[bucket(w, dim)] += 1
			if r := []rune(w); len(r) > 4 {
				vec[bucket("#"+string(r[:4]), dim)] += 0.5
			}
		}

		var sum float64
		for _, x := range vec {
			sum += float64(x) * float64(x)
		}
		if sum == 0 {
			// only stop words; fall back to hashing them
			for _, w := range words {
				vec[bucket(w, dim)] += 1
			}
		}
		return vec, nil
	}
}

func bucket(s string, dim int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % uint32(dim))
}

// SemanticScorer scores intents by the best cosine similarity between the
// message and each intent's example phrases.
type SemanticScorer struct {
	collection *chromem.Collection
}

func NewSemanticScorer(ctx context.Context, examples map[Intent][]string, ef chromem.EmbeddingFunc) (*SemanticScorer, error) {
	if ef == nil {
		ef = HashingEmbedder(0)
	}

	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(intentCollection, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	var docs []chromem.Document
	for intent, phrases := range examples {
		for i, p := range phrases {
			docs = append(docs, chromem.Document{
				ID:       fmt.Sprintf("%s-%d", intent, i),
				Content:  p,
				Metadata: map[string]string{"intent": string(intent)},
			})
		}
	}
	if len(docs) == 0 {
		return nil, errors.New("nlp: no intent examples")
	}

	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("index intent examples: %w", err)
	}
	return &SemanticScorer{collection: col}, nil
}

func (s *SemanticScorer) Name() string { return "semantic" }

func (s *SemanticScorer) Score(ctx context.Context, text string) (map[Intent]float64, error) {
	scores := make(map[Intent]float64)
	if foldText(text) == "" {
		return scores, nil
	}

	// chromem-go requires nResults <= collection size.
	n := s.collection.Count()
	if n == 0 {
		return scores, nil
	}

	results, err := s.collection.Query(ctx, text, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	for _, r := range results {
		intent := Intent(r.Metadata["intent"])
		sim := float64(r.Similarity)
		if math.IsNaN(sim) {
			continue
		}
		if sim > scores[intent] {
			scores[intent] = clamp01(sim)
		}
	}
	return scores, nil
}
