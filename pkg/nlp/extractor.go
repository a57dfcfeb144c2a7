package nlp

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	WeightKeyword    = 0.3
	WeightClassifier = 0.5
	WeightSemantic   = 0.2

	defaultScoreTimeout = 2 * time.Second
)

type weightedScorer struct {
	scorer Scorer
	weight float64
}

// Extractor turns raw text into a Result. With no classifier or semantic
// scorer it runs the keyword path; otherwise it sums the weighted scores of
// every available source. Missing sources are skipped and the remaining
// weights are not rescaled.
type Extractor struct {
	log        *logrus.Logger
	keywords   *KeywordClassifier
	patterns   *PatternExtractor
	model      LinguisticModel
	classifier Scorer
	semantic   Scorer
	timeout    time.Duration
}

type Option func(*Extractor)

func WithLinguisticModel(m LinguisticModel) Option {
	return func(e *Extractor) { e.model = m }
}

func WithClassifier(s Scorer) Option {
	return func(e *Extractor) { e.classifier = s }
}

func WithSemantic(s Scorer) Option {
	return func(e *Extractor) { e.semantic = s }
}

func WithIntentTable(table []IntentKeywords) Option {
	return func(e *Extractor) { e.keywords = NewKeywordClassifier(table) }
}

// WithScoreTimeout bounds the time spent in model scorers per message.
func WithScoreTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func NewExtractor(log *logrus.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		log:      log,
		keywords: NewKeywordClassifier(nil),
		patterns: NewPatternExtractor(),
		timeout:  defaultScoreTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.model == nil {
		log.Warn("[nlp] linguistic model unavailable, using pattern entities and whitespace tokens")
	}
	if e.classifier == nil {
		log.Warn("[nlp] intent classifier unavailable, classifier weight dropped")
	}
	if e.semantic == nil {
		log.Warn("[nlp] semantic scorer unavailable, semantic weight dropped")
	}
	return e
}

func (e *Extractor) ensembleEnabled() bool {
	return e.classifier != nil || e.semantic != nil
}

func (e *Extractor) Extract(ctx context.Context, text string) *Result {
	normalized := Normalize(text)
	if normalized == "" {
		return &Result{
			Intent:    IntentUnknown,
			Method:    MethodEmpty,
			Sentiment: SentimentNeutral,
		}
	}

	entities := e.patterns.Extract(normalized)
	tokens := whitespaceTokens(normalized)
	if e.model != nil {
		analysis, err := e.model.Analyze(normalized)
		if err != nil {
			e.log.WithFields(logrus.Fields{"error": err.Error()}).Debug("[nlp] linguistic model failed")
		} else {
			entities = append(analysis.Entities, entities...)
			if len(analysis.Tokens) > 0 {
				tokens = tokens[:0]
				for _, t := range analysis.Tokens {
					tokens = append(tokens, t.Text)
				}
			}
		}
	}

	result := &Result{
		Text:      normalized,
		Entities:  entities,
		Sentiment: SentimentOf(normalized),
		Keywords:  Keywords(tokens),
		Tokens:    tokens,
	}

	if !e.ensembleEnabled() {
		result.Intent, result.Confidence, result.Method = e.keywords.Classify(normalized)
	} else {
		e.classifyEnsemble(ctx, result)
	}
	result.Confidence = clamp01(result.Confidence)
	return result
}

func (e *Extractor) classifyEnsemble(ctx context.Context, result *Result) {
	text := result.Text
	if intent, conf, ok := e.keywords.Override(text); ok {
		result.Intent, result.Confidence, result.Method = intent, conf, MethodOverride
		return
	}

	scoreCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	sources := []weightedScorer{{scorer: e.keywords, weight: WeightKeyword}}
	if e.classifier != nil {
		sources = append(sources, weightedScorer{scorer: e.classifier, weight: WeightClassifier})
	}
	if e.semantic != nil {
		sources = append(sources, weightedScorer{scorer: e.semantic, weight: WeightSemantic})
	}

	combined := make(map[Intent]float64)
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		scores, err := src.scorer.Score(scoreCtx, text)
		if err == nil {
			err = scoreCtx.Err()
		}
		if err != nil {
			e.log.WithFields(logrus.Fields{
				"scorer": src.scorer.Name(),
				"error":  err.Error(),
			}).Warn("[nlp] scorer failed, falling back to keyword path")
			result.Intent, result.Confidence, result.Method = e.keywords.Classify(text)
			return
		}
		for intent, s := range scores {
			combined[intent] += src.weight * clamp01(s)
		}
		names = append(names, src.scorer.Name())
	}

	best, max := IntentUnknown, 0.0
	for _, intent := range e.keywords.Intents() {
		if combined[intent] > max {
			best, max = intent, combined[intent]
		}
	}

	best, max = e.keywords.Bias(text, best, max)

	result.Intent = best
	result.Confidence = max
	result.Method = MethodEnsemble
	result.Scores = combined
	result.Sources = names
}
