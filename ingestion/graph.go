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

package ingestion

import (
	"github.com/quarrylabs/lodestone/ai"
	"github.com/quarrylabs/lodestone/core"
	"github.com/quarrylabs/lodestone/storage"
)

// maxMentionEdges caps how many extracted entities the document node
// links to.
const maxMentionEdges = 3

// BuildGraphBatch converts an extracted graph into a persistence batch
// for one document. The batch always contains a synthetic document node
// so that every ingested document is discoverable in the graph, plus a
// mentions edge to each of the first few extracted entities. All ids
// are deterministic, so re-building the batch for the same input yields
// the same rows.
func BuildGraphBatch(documentID, title string, graph *ai.ExtractedGraph) *storage.GraphBatch {
	if graph == nil {
		graph = ai.EmptyGraph()
	}

	batch := &storage.GraphBatch{}
	seen := make(map[string]bool, len(graph.Nodes))

	for _, node := range graph.Nodes {
		if node.ID == "" || seen[node.ID] {
			continue
		}
		seen[node.ID] = true
		batch.Nodes = append(batch.Nodes, core.GraphNode{
			ID:      node.ID,
			Label:   node.ID,
			Type:    node.Type,
			Summary: node.Summary,
		})
	}

	docNodeID := core.DocumentNodeID(documentID)
	label := title
	if label == "" {
		label = documentID
	}
	batch.Nodes = append(batch.Nodes, core.GraphNode{
		ID:      docNodeID,
		Label:   label,
		Type:    core.DocumentNodeType,
		Summary: "Ingested document: " + label,
	})

	edgeSeen := make(map[string]bool, len(graph.Edges))
	for _, edge := range graph.Edges {
		if edge.Source == "" || edge.Target == "" || edge.Relation == "" {
			continue
		}
		id := core.EdgeID(edge.Source, edge.Relation, edge.Target)
		if edgeSeen[id] {
			continue
		}
		edgeSeen[id] = true
		batch.Edges = append(batch.Edges, core.GraphEdge{
			ID:       id,
			Source:   edge.Source,
			Target:   edge.Target,
			Relation: edge.Relation,
		})
	}

	mentions := len(batch.Nodes) - 1 // exclude the document node itself
	if mentions > maxMentionEdges {
		mentions = maxMentionEdges
	}
	for _, node := range batch.Nodes[:mentions] {
		batch.Edges = append(batch.Edges, core.GraphEdge{
			ID:       core.MentionEdgeID(documentID, node.ID),
			Source:   docNodeID,
			Target:   node.ID,
			Relation: core.MentionsRelation,
		})
	}

	return batch
}
