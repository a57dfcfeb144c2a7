package dialogue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/nlp"
	"github.com/ohmatt160/library-AI-chatbot/pkg/redis"
)

func sampleContext() *entity.ConversationContext {
	conv := entity.NewConversationContext("u1", "s1", fixedNow)
	conv.Merge(entity.ContextUpdate{
		LastIntent: nlp.IntentBookSearch,
		State:      entity.StateSearching,
		Phase:      entity.PhaseQueryProcessing,
		Entities:   map[string]string{"author": "knuth"},
		Turns: []entity.Turn{
			{Role: entity.RoleUser, Text: "books by knuth", Intent: nlp.IntentBookSearch, Timestamp: fixedNow},
			{Role: entity.RoleAssistant, Text: "Here is what I found.", Timestamp: fixedNow},
		},
	}, 0, fixedNow)
	return conv
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client)
	ctx := context.Background()
	key := entity.ContextKey("u1", "s1")

	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrContextNotFound)

	want := sampleContext()
	require.NoError(t, store.Set(ctx, key, want, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL(key))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, want.LastIntent, got.LastIntent)
	assert.Equal(t, want.Entities, got.Entities)
	require.Len(t, got.History, 2)
	assert.True(t, want.History[0].Timestamp.Equal(got.History[0].Timestamp))

	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.Set(ctx, key, got, time.Hour))
	mr.FastForward(45 * time.Minute)
	assert.True(t, mr.Exists(key), "every save restarts the expiry")

	mr.FastForward(time.Hour)
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrContextNotFound)
}

func TestRedisStore_CorruptBlob(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client)

	require.NoError(t, mr.Set("conv:u1:s1", "{not json"))
	_, err := store.Get(context.Background(), "conv:u1:s1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrContextNotFound)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(2, time.Hour)
	ctx := context.Background()

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrContextNotFound)

	conv := sampleContext()
	require.NoError(t, store.Set(ctx, "a", conv, time.Minute))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, conv.ContextID, got.ContextID)

	got.History = nil
	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, again.History, 2, "stored value must not alias the caller's copy")

	require.NoError(t, store.Set(ctx, "b", conv, 0))
	require.NoError(t, store.Set(ctx, "c", conv, 0))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrContextNotFound, "least recently used entry is evicted")
}

func TestKeyLocks(t *testing.T) {
	locks := newKeyLocks()

	unlockA := locks.Lock("a")
	unlockB := locks.Lock("b")
	assert.Equal(t, 2, locks.size())

	acquired := make(chan struct{})
	go func() {
		unlock := locks.Lock("a")
		close(acquired)
		unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a locked key")
	case <-time.After(20 * time.Millisecond):
	}

	unlockA()
	<-acquired
	unlockB()
	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, time.Millisecond)
}
