package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkRecordID(t *testing.T) {
	assert.Equal(t, "doc-1-0", ChunkRecordID("doc-1", 0))
	assert.Equal(t, "doc-1-19", ChunkRecordID("doc-1", 19))

	// Ids must be unique per (document, index).
	assert.NotEqual(t, ChunkRecordID("doc-1", 1), ChunkRecordID("doc-1", 2))
	assert.NotEqual(t, ChunkRecordID("doc-1", 1), ChunkRecordID("doc-2", 1))
}

func TestEdgeIDDeterministic(t *testing.T) {
	a := EdgeID("Go", "created by", "Google")
	b := EdgeID("Go", "created by", "Google")
	assert.Equal(t, a, b)
}

func TestEdgeIDCollapsesWhitespace(t *testing.T) {
	a := EdgeID("Go", "created by", "Google")
	b := EdgeID("Go", "created \n  by", "Google")
	assert.Equal(t, a, b)
	assert.Equal(t, "Go-created-by-Google", a)
}

func TestDocumentNodeID(t *testing.T) {
	assert.Equal(t, "DOC:abc", DocumentNodeID("abc"))
}

func TestMentionEdgeIDDeterministic(t *testing.T) {
	a := MentionEdgeID("doc-1", "Kubernetes")
	b := MentionEdgeID("doc-1", "Kubernetes")
	assert.Equal(t, a, b)
	assert.Equal(t, "DOC:doc-1-mentions-Kubernetes", a)
}

func TestContentHashStable(t *testing.T) {
	assert.Equal(t, ContentHash("same content"), ContentHash("same content"))
	assert.NotEqual(t, ContentHash("one"), ContentHash("two"))
	assert.Len(t, ContentHash("anything"), 16)
}
