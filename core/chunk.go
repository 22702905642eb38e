package core

import "unicode/utf8"

const (
	// MaxChunkLength is the maximum number of characters per chunk.
	MaxChunkLength = 512

	// PreviewLength bounds the content preview stored with document metadata.
	PreviewLength = 500

	// ExcerptLength bounds the content handed to the graph extractor.
	ExcerptLength = 2000
)

// SplitContent splits document content into ordered, non-overlapping chunks
// of at most MaxChunkLength characters. The spans cover the content exactly
// and the final chunk may be shorter. Empty content yields no chunks.
// Splitting is purely by character count; no word or sentence boundaries
// are honored. Counts are runes, not bytes, so a boundary never lands
// inside a multi-byte character.
func SplitContent(documentID, content string) []Chunk {
	if len(content) == 0 {
		return nil
	}

	runes := []rune(content)
	chunks := make([]Chunk, 0, (len(runes)+MaxChunkLength-1)/MaxChunkLength)
	for start := 0; start < len(runes); start += MaxChunkLength {
		end := start + MaxChunkLength
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			DocumentID: documentID,
			Index:      len(chunks),
			Text:       string(runes[start:end]),
		})
	}
	return chunks
}

// Preview returns the bounded prefix of content stored alongside document
// metadata for fast listing. It is never used for embedding or extraction.
func Preview(content string) string {
	return truncateRunes(content, PreviewLength)
}

// Excerpt returns the bounded prefix of content handed to the graph
// extractor. Beyond this point extraction consistency is not guaranteed
// and inference cost is unbounded.
func Excerpt(content string) string {
	return truncateRunes(content, ExcerptLength)
}

// truncateRunes returns the first max characters of s without splitting
// a multi-byte character.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
