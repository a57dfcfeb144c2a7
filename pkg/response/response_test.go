package response

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	notFound := NewError(404, "conversation not found")
	wrapped := fmt.Errorf("load: %w", notFound)

	assert.ErrorIs(t, wrapped, notFound)
	assert.ErrorIs(t, wrapped, NewError(404, "conversation not found"))
	assert.NotErrorIs(t, wrapped, NewError(400, "conversation not found"))
	assert.Equal(t, 404, StatusOf(wrapped, 500))
	assert.Equal(t, 500, StatusOf(errors.New("plain"), 500))
}
