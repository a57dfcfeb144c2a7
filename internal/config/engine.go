package config

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
	"github.com/sirupsen/logrus"

	"github.com/ohmatt160/library-AI-chatbot/pkg/dialogue"
	"github.com/ohmatt160/library-AI-chatbot/pkg/gemini"
	"github.com/ohmatt160/library-AI-chatbot/pkg/generator"
	"github.com/ohmatt160/library-AI-chatbot/pkg/knowledge"
	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
	"github.com/ohmatt160/library-AI-chatbot/pkg/redis"
	"github.com/ohmatt160/library-AI-chatbot/pkg/rules"
)

// Engine is the assembled dialogue stack.
type Engine struct {
	Manager   *dialogue.Manager
	Generator *generator.Generator
	Knowledge *knowledge.Base
}

// NewEngine builds the engine from cfg. redisClient and geminiClient are
// optional; every missing capability degrades instead of failing startup.
func NewEngine(ctx context.Context, cfg *ChatbotConfig, log *logrus.Logger, redisClient redis.IRedis, geminiClient gemini.IGemini) (*Engine, error) {
	ef := embeddingFunc(cfg.Embedding)

	opts := []nlp.Option{nlp.WithScoreTimeout(cfg.NLP.ScoreTimeout)}
	if cfg.NLP.Linguistic {
		opts = append(opts, nlp.WithLinguisticModel(nlp.NewProseModel()))
	}

	classifier, err := newClassifier(cfg, log, geminiClient)
	if err != nil {
		return nil, err
	}
	if classifier != nil {
		opts = append(opts, nlp.WithClassifier(classifier))
	}

	if ef != nil {
		semantic, err := nlp.NewSemanticScorer(ctx, nlp.DefaultIntentExamples(), ef)
		if err != nil {
			log.WithField("error", err.Error()).Warn("[config.NewEngine] semantic scorer disabled")
		} else {
			opts = append(opts, nlp.WithSemantic(semantic))
		}
	}

	extractor := nlp.NewExtractor(log, opts...)
	matcher := rules.NewMatcher(rules.Load(cfg.Data.Rules, log), log)
	gen := generator.New(generator.LoadTemplates(cfg.Data.Templates, log), log)

	kb, err := newKnowledgeBase(ctx, cfg, ef, log)
	if err != nil {
		return nil, err
	}

	manager := dialogue.New(extractor, matcher, gen, newContextStore(cfg.Context, log, redisClient), log,
		dialogue.WithContextTTL(cfg.Context.TTL),
		dialogue.WithHistoryLimit(cfg.Context.HistoryLimit),
		dialogue.WithStoreTimeout(cfg.Context.StoreTimeout),
	)

	return &Engine{Manager: manager, Generator: gen, Knowledge: kb}, nil
}

func embeddingFunc(cfg EmbeddingConfig) chromem.EmbeddingFunc {
	switch cfg.Provider {
	case EmbeddingOllama:
		return chromem.NewEmbeddingFuncOllama(cfg.Model, cfg.BaseURL)
	case EmbeddingHashing:
		return nlp.HashingEmbedder(cfg.Dimensions)
	default:
		return nil
	}
}

func newClassifier(cfg *ChatbotConfig, log *logrus.Logger, geminiClient gemini.IGemini) (nlp.Scorer, error) {
	switch cfg.NLP.Classifier {
	case ClassifierGemini:
		if geminiClient == nil {
			log.Warn("[config.NewEngine] gemini classifier requested without a client, falling back to naive bayes")
			break
		}
		return gemini.NewClassifier(geminiClient, nlp.NewKeywordClassifier(nil).Intents()), nil
	case ClassifierNone:
		return nil, nil
	}

	examples, err := nlp.LoadTrainingSet(cfg.Data.Training)
	if err != nil {
		log.WithFields(logrus.Fields{
			"path":  cfg.Data.Training,
			"error": err.Error(),
		}).Warn("[config.NewEngine] using built-in training set")
		examples = nlp.DefaultTrainingSet()
	}

	nb, err := nlp.TrainNaiveBayes(examples)
	if err != nil {
		return nil, fmt.Errorf("train classifier: %w", err)
	}
	return nb, nil
}

func newKnowledgeBase(ctx context.Context, cfg *ChatbotConfig, ef chromem.EmbeddingFunc, log *logrus.Logger) (*knowledge.Base, error) {
	entries, err := knowledge.LoadEntries(cfg.Data.Knowledge)
	if err != nil {
		log.WithFields(logrus.Fields{
			"path":  cfg.Data.Knowledge,
			"error": err.Error(),
		}).Warn("[config.NewEngine] using built-in knowledge base")
		entries = knowledge.DefaultEntries()
	}

	kb, err := knowledge.New(ctx, entries, ef, log)
	if err != nil {
		return nil, fmt.Errorf("knowledge base: %w", err)
	}
	return kb, nil
}

func newContextStore(cfg ContextConfig, log *logrus.Logger, redisClient redis.IRedis) dialogue.ContextStore {
	useRedis := redisClient != nil && cfg.Store != StoreMemory
	if cfg.Store == StoreRedis && redisClient == nil {
		log.Warn("[config.NewEngine] redis store requested but REDIS_ADDRESS is empty, using memory store")
	}

	if useRedis {
		log.Info("[config.NewEngine] conversation contexts stored in redis")
		return dialogue.NewRedisStore(redisClient)
	}

	log.WithField("size", cfg.MemorySize).Info("[config.NewEngine] conversation contexts stored in memory")
	return dialogue.NewMemoryStore(cfg.MemorySize, cfg.TTL)
}
