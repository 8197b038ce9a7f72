package asynclog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptrIslam123/asyncio/ioevent"
)

func TestAdapter_LogWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	a := New(WithWriter(&buf))

	a.Log(ioevent.LogEntry{
		Level:    ioevent.LevelInfo,
		Category: "reactor",
		Message:  "subscribed",
		Context:  map[string]any{"fd": 3},
	})

	out := buf.String()
	assert.Contains(t, out, "subscribed")
	assert.Contains(t, out, "reactor")
}

func TestAdapter_MinLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	a := New(WithWriter(&buf), WithMinLevel(ioevent.LevelWarn))

	require.False(t, a.IsEnabled(ioevent.LevelDebug))
	require.True(t, a.IsEnabled(ioevent.LevelError))

	a.Log(ioevent.LogEntry{Level: ioevent.LevelDebug, Message: "should not appear"})
	assert.Empty(t, buf.String())

	a.Log(ioevent.LogEntry{Level: ioevent.LevelError, Message: "boom", Err: errors.New("failure")})
	assert.Contains(t, buf.String(), "boom")
}
