package dbglog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLoggerTail(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(&buf, 10)

	l.LogInfo("hello", "world")
	l.LogError("breakpoint.Resolve", "NotFound", "could not resolve location")

	tail := l.Tail()
	assert.Len(t, tail, 2)
	assert.True(t, strings.Contains(tail[1], "op=breakpoint.Resolve"))
	assert.True(t, strings.Contains(buf.String(), "could not resolve location"))
}

func TestSlogLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(&buf, 10)

	l.LogDebug("should not show by default")
	assert.Len(t, l.Tail(), 0)
}

func TestNullLogger(t *testing.T) {
	l := NewNullLogger()
	l.LogInfo("noop")
	l.LogError("op", "kind", "noop")
	l.LogDebug("noop")
}
