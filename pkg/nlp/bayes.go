package nlp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gonum.org/v1/gonum/floats"
)

var ErrNoTrainingData = errors.New("nlp: no training examples")

// NaiveBayes is a multinomial naive Bayes intent classifier with Laplace
// smoothing. Words never seen in training are ignored at scoring time.
type NaiveBayes struct {
	intents  []Intent
	logPrior []float64
	logLike  []map[string]float64
	vocab    map[string]bool
}

func TrainNaiveBayes(examples []TrainingExample) (*NaiveBayes, error) {
	if len(examples) == 0 {
		return nil, ErrNoTrainingData
	}

	index := make(map[Intent]int)
	var intents []Intent
	var docCount []float64
	var wordCount []map[string]float64
	vocab := make(map[string]bool)

	for _, ex := range examples {
		i, ok := index[ex.Intent]
		if !ok {
			i = len(intents)
			index[ex.Intent] = i
			intents = append(intents, ex.Intent)
			docCount = append(docCount, 0)
			wordCount = append(wordCount, make(map[string]float64))
		}
		docCount[i]++
		for _, w := range strings.Fields(foldText(ex.Text)) {
			wordCount[i][w]++
			vocab[w] = true
		}
	}

	nb := &NaiveBayes{
		intents:  intents,
		logPrior: make([]float64, len(intents)),
		logLike:  make([]map[string]float64, len(intents)),
		vocab:    vocab,
	}

	v := float64(len(vocab))
	total := float64(len(examples))
	for i := range intents {
		nb.logPrior[i] = math.Log(docCount[i] / total)

		words := 0.0
		for _, c := range wordCount[i] {
			words += c
		}
		nb.logLike[i] = make(map[string]float64, len(vocab))
		for w := range vocab {
			nb.logLike[i][w] = math.Log((wordCount[i][w] + 1) / (words + v))
		}
	}
	return nb, nil
}

func (nb *NaiveBayes) Name() string { return "naive_bayes" }

// Score returns the posterior probability of each trained intent.
func (nb *NaiveBayes) Score(ctx context.Context, text string) (map[Intent]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := strings.Fields(foldText(text))
	logPost := make([]float64, len(nb.intents))
	copy(logPost, nb.logPrior)
	for _, w := range words {
		if !nb.vocab[w] {
			continue
		}
		for i := range nb.intents {
			logPost[i] += nb.logLike[i][w]
		}
	}

	norm := floats.LogSumExp(logPost)
	scores := make(map[Intent]float64, len(nb.intents))
	for i, intent := range nb.intents {
		scores[intent] = math.Exp(logPost[i] - norm)
	}
	return scores, nil
}

// LoadTrainingSet reads `[{"text": ..., "intent": ...}]` from path.
func LoadTrainingSet(path string) ([]TrainingExample, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var examples []TrainingExample
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &examples); err != nil {
		return nil, fmt.Errorf("parse training set %s: %w", path, err)
	}
	if len(examples) == 0 {
		return nil, ErrNoTrainingData
	}
	return examples, nil
}
