// Copyright 2025 Quarry Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"unicode/utf8"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Title must not be empty
//   - ContentPreview must not exceed PreviewLength
//   - Status must be one of the known values
//
// NOT validated (populated by the pipeline):
//   - ChunkCount (0 is valid for empty documents)
//   - Metadata (open mapping, any shape allowed)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentID)
	}
	if doc.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyTitle)
	}
	if utf8.RuneCountInString(doc.ContentPreview) > PreviewLength {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrPreviewTooLong)
	}
	if err := ValidateStatus(doc.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}

// ValidateStatus checks that a DocumentStatus is one of the known values.
func ValidateStatus(status DocumentStatus) error {
	switch status {
	case StatusProcessing, StatusIndexed, StatusError:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}

// ValidateGraphNode validates a GraphNode according to domain rules.
// The node id doubles as the dedup key, so it must be present.
func ValidateGraphNode(node *GraphNode) error {
	if node == nil {
		return fmt.Errorf("%w: node is nil", ErrInvalidGraphNode)
	}
	if node.ID == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidGraphNode)
	}
	return nil
}

// ValidateGraphEdge validates a GraphEdge according to domain rules.
func ValidateGraphEdge(edge *GraphEdge) error {
	if edge == nil {
		return fmt.Errorf("%w: edge is nil", ErrInvalidGraphEdge)
	}
	if edge.Source == "" || edge.Target == "" {
		return fmt.Errorf("%w: source and target are required", ErrInvalidGraphEdge)
	}
	if edge.Relation == "" {
		return fmt.Errorf("%w: relation cannot be empty", ErrInvalidGraphEdge)
	}
	return nil
}
