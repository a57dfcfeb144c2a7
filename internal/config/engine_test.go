package config

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/dialogue"
	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
	"github.com/ohmatt160/library-AI-chatbot/pkg/redis"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig(t *testing.T) *ChatbotConfig {
	dir := t.TempDir()
	cfg := DefaultChatbotConfig()
	cfg.NLP.Linguistic = false
	cfg.Data = DataConfig{
		Rules:     filepath.Join(dir, "rules.json"),
		Templates: filepath.Join(dir, "templates.json"),
		Knowledge: filepath.Join(dir, "kb.json"),
		Training:  filepath.Join(dir, "training.json"),
	}
	return cfg
}

func TestNewEngine_EnsembleWithDefaults(t *testing.T) {
	engine, err := NewEngine(context.Background(), testConfig(t), quietLogger(), nil, nil)
	require.NoError(t, err)
	assert.Positive(t, engine.Knowledge.Len())

	res := engine.Manager.ProcessMessage(context.Background(), "u1", "s1", "What are the library hours?")
	assert.Equal(t, nlp.IntentLibraryHours, res.Intent)
	assert.Equal(t, entity.MethodNLPBased, res.ProcessingMethod)

	_, err = engine.Manager.Context(context.Background(), "u1", "s1")
	assert.NoError(t, err)
}

func TestNewEngine_KeywordOnly(t *testing.T) {
	cfg := testConfig(t)
	cfg.NLP.Classifier = ClassifierNone
	cfg.Embedding.Provider = EmbeddingNone

	engine, err := NewEngine(context.Background(), cfg, quietLogger(), nil, nil)
	require.NoError(t, err)

	res := engine.Manager.ProcessMessage(context.Background(), "u1", "s1", "xyzzy")
	assert.Equal(t, entity.MethodLowConfidenceClarification, res.ProcessingMethod)
}

func TestNewContextStore(t *testing.T) {
	log := quietLogger()
	cfg := DefaultChatbotConfig().Context

	_, ok := newContextStore(cfg, log, nil).(*dialogue.MemoryStore)
	assert.True(t, ok)

	mr := miniredis.RunT(t)
	client := redis.NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	_, ok = newContextStore(cfg, log, client).(*dialogue.RedisStore)
	assert.True(t, ok)

	cfg.Store = StoreMemory
	_, ok = newContextStore(cfg, log, client).(*dialogue.MemoryStore)
	assert.True(t, ok)
}
