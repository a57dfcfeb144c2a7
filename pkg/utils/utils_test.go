package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	id, err := u.NewULIDFromTimestamp(now)
	require.NoError(t, err)

	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(now), parsed.Time())
}

func TestNewSessionID(t *testing.T) {
	u := New()

	a, b := u.NewSessionID(), u.NewSessionID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestElapsedMillis(t *testing.T) {
	ms := New().ElapsedMillis(time.Now().Add(-1500 * time.Millisecond))
	assert.GreaterOrEqual(t, ms, 1500.0)
	assert.Less(t, ms, 60000.0)
}
