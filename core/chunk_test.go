package core

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitContentEmpty(t *testing.T) {
	chunks := SplitContent("doc-1", "")
	assert.Empty(t, chunks)
}

func TestSplitContentShorterThanMax(t *testing.T) {
	chunks := SplitContent("doc-1", "hello world")
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, "doc-1", chunks[0].DocumentID)
}

func TestSplitContentExactMultiple(t *testing.T) {
	content := strings.Repeat("a", MaxChunkLength*3)
	chunks := SplitContent("doc-1", content)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.Len(t, chunk.Text, MaxChunkLength)
	}
}

func TestSplitContentCeiling(t *testing.T) {
	// 10,000 characters must yield ceil(10000/512) = 20 chunks.
	content := strings.Repeat("x", 10000)
	chunks := SplitContent("doc-1", content)
	require.Len(t, chunks, 20)

	// Spans must cover the content exactly, in order, with no overlap.
	var rebuilt strings.Builder
	for _, chunk := range chunks {
		rebuilt.WriteString(chunk.Text)
	}
	assert.Equal(t, content, rebuilt.String())

	// Last chunk is the remainder.
	assert.Len(t, chunks[19].Text, 10000-19*MaxChunkLength)
}

func TestSplitContentMultiByte(t *testing.T) {
	// 600 two-byte characters must yield ceil(600/512) = 2 chunks,
	// counted in characters rather than bytes.
	content := strings.Repeat("ü", 600)
	chunks := SplitContent("doc-1", content)
	require.Len(t, chunks, 2)

	assert.Equal(t, MaxChunkLength, utf8.RuneCountInString(chunks[0].Text))
	assert.Equal(t, 600-MaxChunkLength, utf8.RuneCountInString(chunks[1].Text))

	// Boundaries never split a character.
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk.Text))
	}
	assert.Equal(t, content, chunks[0].Text+chunks[1].Text)
}

func TestSplitContentFourByteRunes(t *testing.T) {
	content := strings.Repeat("\U0001F600", MaxChunkLength+1)
	chunks := SplitContent("doc-1", content)
	require.Len(t, chunks, 2)
	assert.True(t, utf8.ValidString(chunks[0].Text))
	assert.Equal(t, 1, utf8.RuneCountInString(chunks[1].Text))
}

func TestPreviewBounds(t *testing.T) {
	short := "short content"
	assert.Equal(t, short, Preview(short))

	long := strings.Repeat("y", 10000)
	preview := Preview(long)
	assert.Len(t, preview, PreviewLength)
	assert.Equal(t, long[:PreviewLength], preview)
}

func TestPreviewMultiByte(t *testing.T) {
	content := strings.Repeat("ü", 600)
	preview := Preview(content)

	assert.Equal(t, PreviewLength, utf8.RuneCountInString(preview))
	assert.True(t, utf8.ValidString(preview))
	assert.True(t, strings.HasPrefix(content, preview))
}

func TestExcerptMultiByte(t *testing.T) {
	content := strings.Repeat("世", ExcerptLength+100)
	excerpt := Excerpt(content)

	assert.Equal(t, ExcerptLength, utf8.RuneCountInString(excerpt))
	assert.True(t, utf8.ValidString(excerpt))
	assert.True(t, strings.HasPrefix(content, excerpt))
}

func TestExcerptBounds(t *testing.T) {
	long := strings.Repeat("z", 50000)
	excerpt := Excerpt(long)
	assert.Len(t, excerpt, ExcerptLength)
	assert.Equal(t, long[:ExcerptLength], excerpt)

	short := "tiny"
	assert.Equal(t, short, Excerpt(short))
}
