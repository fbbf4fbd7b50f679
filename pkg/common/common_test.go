package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("short text is stored verbatim", func(t *testing.T) {
		assert.Equal(t, "hello", Truncate("hello", TruncateLimit))
	})

	t.Run("text at the limit is stored verbatim", func(t *testing.T) {
		text := strings.Repeat("a", TruncateLimit)
		assert.Equal(t, text, Truncate(text, TruncateLimit))
	})

	t.Run("long text keeps the first 30 chars plus marker", func(t *testing.T) {
		text := strings.Repeat("a", TruncateLimit) + "tail"
		got := Truncate(text, TruncateLimit)
		assert.Equal(t, strings.Repeat("a", TruncateLimit)+"...", got)
		assert.NotEqual(t, len(text), len(got))
	})

	t.Run("limit counts runes, not bytes", func(t *testing.T) {
		text := strings.Repeat("ж", TruncateLimit+1)
		got := Truncate(text, TruncateLimit)
		assert.Equal(t, strings.Repeat("ж", TruncateLimit)+"...", got)
	})
}

func TestRandStringRunes(t *testing.T) {
	id := RandStringRunes(12)
	assert.Len(t, id, 12)
	assert.NotEqual(t, id, RandStringRunes(12))
}
