package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	ClassifierBayes  = "bayes"
	ClassifierGemini = "gemini"
	ClassifierNone   = "none"

	EmbeddingHashing = "hashing"
	EmbeddingOllama  = "ollama"
	EmbeddingNone    = "none"

	StoreAuto   = "auto"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type DataConfig struct {
	Rules     string `koanf:"rules"`
	Templates string `koanf:"templates"`
	Knowledge string `koanf:"knowledge"`
	Training  string `koanf:"training"`
}

type NLPConfig struct {
	Classifier   string        `koanf:"classifier"`
	Linguistic   bool          `koanf:"linguistic"`
	ScoreTimeout time.Duration `koanf:"score_timeout"`
}

type EmbeddingConfig struct {
	Provider   string `koanf:"provider"`
	Dimensions int    `koanf:"dimensions"`
	Model      string `koanf:"model"`
	BaseURL    string `koanf:"base_url"`
}

type ContextConfig struct {
	Store        string        `koanf:"store"`
	TTL          time.Duration `koanf:"ttl"`
	HistoryLimit int           `koanf:"history_limit"`
	StoreTimeout time.Duration `koanf:"store_timeout"`
	MemorySize   int           `koanf:"memory_size"`
}

type HTTPConfig struct {
	RequestTimeout time.Duration `koanf:"request_timeout"`
	RateLimit      float64       `koanf:"rate_limit"`
	RateBurst      int           `koanf:"rate_burst"`
}

// ChatbotConfig tunes the dialogue engine. Process-level settings such as
// ports and credentials stay in the environment.
type ChatbotConfig struct {
	Data      DataConfig      `koanf:"data"`
	NLP       NLPConfig       `koanf:"nlp"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Context   ContextConfig   `koanf:"context"`
	HTTP      HTTPConfig      `koanf:"http"`
}

func DefaultChatbotConfig() *ChatbotConfig {
	return &ChatbotConfig{
		Data: DataConfig{
			Rules:     "data/rules.json",
			Templates: "data/response_templates.json",
			Knowledge: "data/knowledge_base.json",
			Training:  "data/intent_training.json",
		},
		NLP: NLPConfig{
			Classifier:   ClassifierBayes,
			Linguistic:   true,
			ScoreTimeout: 2 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Provider:   EmbeddingHashing,
			Dimensions: 256,
			Model:      "nomic-embed-text",
		},
		Context: ContextConfig{
			Store:        StoreAuto,
			TTL:          time.Hour,
			HistoryLimit: 20,
			StoreTimeout: 2 * time.Second,
			MemorySize:   10000,
		},
		HTTP: HTTPConfig{
			RequestTimeout: 30 * time.Second,
			RateLimit:      50,
			RateBurst:      100,
		},
	}
}

// LoadChatbotConfig layers the YAML file at path (optional) and CHATBOT_*
// environment variables over the defaults. A double underscore nests:
// CHATBOT_CONTEXT__TTL=30m sets context.ttl.
func LoadChatbotConfig(path string) (*ChatbotConfig, error) {
	k := koanf.New(".")
	cfg := DefaultChatbotConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading chatbot config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing chatbot config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("CHATBOT_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "CHATBOT_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading chatbot env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling chatbot config: %w", err)
	}

	return cfg, cfg.Validate()
}

var (
	validClassifiers = map[string]bool{ClassifierBayes: true, ClassifierGemini: true, ClassifierNone: true}
	validEmbeddings  = map[string]bool{EmbeddingHashing: true, EmbeddingOllama: true, EmbeddingNone: true}
	validStores      = map[string]bool{StoreAuto: true, StoreRedis: true, StoreMemory: true}
)

func (c *ChatbotConfig) Validate() error {
	if !validClassifiers[c.NLP.Classifier] {
		return fmt.Errorf("invalid nlp.classifier %q: must be one of bayes, gemini, none", c.NLP.Classifier)
	}
	if !validEmbeddings[c.Embedding.Provider] {
		return fmt.Errorf("invalid embedding.provider %q: must be one of hashing, ollama, none", c.Embedding.Provider)
	}
	if !validStores[c.Context.Store] {
		return fmt.Errorf("invalid context.store %q: must be one of auto, redis, memory", c.Context.Store)
	}
	if c.Context.TTL <= 0 {
		return fmt.Errorf("context.ttl must be positive")
	}
	if c.Context.HistoryLimit <= 0 {
		return fmt.Errorf("context.history_limit must be positive")
	}
	if c.HTTP.RateLimit <= 0 || c.HTTP.RateBurst <= 0 {
		return fmt.Errorf("http.rate_limit and http.rate_burst must be positive")
	}
	return nil
}
