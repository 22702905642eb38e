package core

import (
	"strconv"
	"strings"
)

// DocumentNodePrefix marks synthetic graph nodes that anchor a document.
const DocumentNodePrefix = "DOC:"

// DocumentNodeType is the node type of synthetic document nodes.
const DocumentNodeType = "Document"

// MentionsRelation links a document node to entities extracted from it.
const MentionsRelation = "mentions"

// ChunkRecordID builds the vector record id for a document chunk.
// Ids are unique per (documentID, chunkIndex), so re-ingesting a document
// overwrites its records instead of duplicating them.
func ChunkRecordID(documentID string, chunkIndex int) string {
	return documentID + "-" + strconv.Itoa(chunkIndex)
}

// DocumentNodeID builds the id of the synthetic graph node for a document.
func DocumentNodeID(documentID string) string {
	return DocumentNodePrefix + documentID
}

// EdgeID derives a deterministic edge id from its endpoints and relation.
// Whitespace is collapsed so that cosmetic differences in extractor output
// do not produce distinct edges.
func EdgeID(source, relation, target string) string {
	return collapseWhitespace(source + "-" + relation + "-" + target)
}

// MentionEdgeID derives the id of a document-to-entity mentions edge.
func MentionEdgeID(documentID, nodeID string) string {
	return collapseWhitespace(DocumentNodeID(documentID) + "-" + MentionsRelation + "-" + nodeID)
}

// collapseWhitespace joins all whitespace-separated runs with single dashes.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "-")
}
