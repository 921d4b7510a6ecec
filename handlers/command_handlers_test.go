package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessage_ShortContentUntouched(t *testing.T) {
	chunks := splitMessage("Pong!", 1900)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Pong!", chunks[0])
}

func TestSplitMessage_PrefersNewlineBreaks(t *testing.T) {
	content := "line one\nline two\nline three"
	chunks := splitMessage(content, 12)

	require.Len(t, chunks, 3)
	assert.Equal(t, "line one", chunks[0])
	assert.Equal(t, "line two", chunks[1])
	assert.Equal(t, "line three", chunks[2])
}

func TestSplitMessage_NeverCutsInsideARune(t *testing.T) {
	// No newlines, so the fallback byte cut has to back off to a rune start.
	content := strings.Repeat("✅", 100)
	chunks := splitMessage(content, 10)

	var rebuilt strings.Builder
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk is not valid UTF-8: %q", c)
		assert.LessOrEqual(t, len(c), 10)
		rebuilt.WriteString(c)
	}
	assert.Equal(t, content, rebuilt.String())
}

func TestSplitMessage_ReassemblesLeaderboardText(t *testing.T) {
	lines := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		lines = append(lines, "1. **Pvt Ünïcøde** - 5/8 events ✅")
	}
	content := strings.Join(lines, "\n")
	chunks := splitMessage(content, 1900)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
		assert.LessOrEqual(t, len(c), 1900)
	}
	assert.Equal(t, content, strings.Join(chunks, "\n"))
}
