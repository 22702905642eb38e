// Copyright 2025 Quarry Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graph provides the read-only graph view for visualization
// consumers.
package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quarrylabs/lodestone/core"
	"github.com/quarrylabs/lodestone/storage"
)

// Display caps. These bound payload size for the visualization
// consumer, they are not correctness constraints.
const (
	MaxNodes = 100
	MaxEdges = 150
)

// Visual weights for graph nodes. Document nodes render larger.
const (
	documentNodeWeight = 8
	entityNodeWeight   = 3
)

// ErrGraphRepositoryRequired is returned when a graph repository is not provided.
var ErrGraphRepositoryRequired = errors.New("graph repository required")

// Node is a graph node shaped for display.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
	Val   int    `json:"val"`
}

// Edge is a graph edge shaped for display.
type Edge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// View is a capped snapshot of the knowledge graph.
type View struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Viewer reads the persisted graph and reshapes it for display.
type Viewer struct {
	repository storage.GraphRepository
	logger     *slog.Logger
}

// NewViewer creates a new graph viewer.
func NewViewer(repository storage.GraphRepository) (*Viewer, error) {
	if repository == nil {
		return nil, ErrGraphRepositoryRequired
	}
	return &Viewer{
		repository: repository,
		logger:     slog.Default().With("component", "graph"),
	}, nil
}

// View returns up to MaxNodes nodes and MaxEdges edges. Read-only.
func (v *Viewer) View(ctx context.Context) (*View, error) {
	nodes, err := v.repository.ListNodes(ctx, MaxNodes)
	if err != nil {
		return nil, fmt.Errorf("listing graph nodes: %w", err)
	}
	edges, err := v.repository.ListEdges(ctx, MaxEdges)
	if err != nil {
		return nil, fmt.Errorf("listing graph edges: %w", err)
	}

	view := &View{
		Nodes: make([]Node, 0, len(nodes)),
		Edges: make([]Edge, 0, len(edges)),
	}
	for _, node := range nodes {
		view.Nodes = append(view.Nodes, reshapeNode(node))
	}
	for _, edge := range edges {
		view.Edges = append(view.Edges, Edge{
			Source:   edge.Source,
			Target:   edge.Target,
			Relation: edge.Relation,
		})
	}
	return view, nil
}

func reshapeNode(node core.GraphNode) Node {
	val := entityNodeWeight
	if node.Type == core.DocumentNodeType {
		val = documentNodeWeight
	}
	label := node.Label
	if label == "" {
		label = node.ID
	}
	return Node{
		ID:    node.ID,
		Label: label,
		Group: node.Type,
		Val:   val,
	}
}
