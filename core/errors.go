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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyDocumentID indicates the document ID field is empty.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrEmptyTitle indicates the document Title field is empty.
	ErrEmptyTitle = errors.New("document title cannot be empty")

	// ErrPreviewTooLong indicates the content preview exceeds the bound.
	ErrPreviewTooLong = errors.New("content preview exceeds maximum length")

	// ErrInvalidStatus indicates an unknown DocumentStatus value.
	ErrInvalidStatus = errors.New("invalid document status")

	// ErrInvalidGraphNode indicates a GraphNode failed validation.
	ErrInvalidGraphNode = errors.New("invalid graph node")

	// ErrInvalidGraphEdge indicates a GraphEdge failed validation.
	ErrInvalidGraphEdge = errors.New("invalid graph edge")
)
