package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInputIsSingleChunk(t *testing.T) {
	chunks := SplitText("short text", 100, 20)
	assert.Equal(t, []string{"short text"}, chunks)
}

func TestSplitTextChunksOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 50) // 500 chars
	chunks := SplitText(text, 200, 50)

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, len(c), 200, "chunk %d too large", i)
	}

	// Each chunk after the first starts with the last 50 chars of its predecessor.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		overlap := prev[len(prev)-50:]
		assert.True(t, strings.HasPrefix(chunks[i], overlap), "chunk %d missing overlap", i)
	}
}

func TestSplitTextOverlapLargerThanChunkStillAdvances(t *testing.T) {
	text := strings.Repeat("x", 300)
	chunks := SplitText(text, 100, 100)

	require.NotEmpty(t, chunks)
	assert.Equal(t, 3, len(chunks))
}

func TestSplitTextPreservesAllContent(t *testing.T) {
	text := strings.Repeat("0123456789", 30)
	chunks := SplitText(text, 100, 0)

	assert.Equal(t, text, strings.Join(chunks, ""))
}
