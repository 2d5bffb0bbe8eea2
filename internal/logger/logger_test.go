package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestWithContextAddsIDs(t *testing.T) {
	var buf bytes.Buffer
	InitTo(&buf, "debug", "json")

	ctx := ContextWithUserID(ContextWithRequestID(context.Background(), "req-1"), "u1")
	WithContext(ctx).Info("session: opened", "session_id", "s1")

	line := buf.String()
	require.True(t, gjson.Valid(line))
	assert.Equal(t, "req-1", gjson.Get(line, "request_id").String())
	assert.Equal(t, "u1", gjson.Get(line, "user_id").String())
	assert.Equal(t, "session: opened", gjson.Get(line, "msg").String())
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	InitTo(&buf, "warn", "text")
	Get().Info("hidden")
	assert.Empty(t, buf.String())
	Get().Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewRequestIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewRequestID(), NewRequestID())
	assert.Len(t, NewRequestID(), 36)
}
