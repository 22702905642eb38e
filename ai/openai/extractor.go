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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/quarrylabs/lodestone/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// GraphExtractor implements ai.GraphExtractor using OpenAI-compatible chat APIs.
//
// Extraction never fails the caller: network errors, truncated output, and
// malformed JSON all degrade to an empty graph. The distinct failure modes
// are logged separately so they remain observable even though they behave
// identically.
type GraphExtractor struct {
	client    llms.Model
	maxTokens int
	logger    *slog.Logger
}

// newGraphExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGraphExtractor(config *ai.Config) (*GraphExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &GraphExtractor{
		client:    client,
		maxTokens: config.MaxTokens,
		logger:    slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewGraphExtractor creates a new graph extractor using the provided configuration.
//
// Returns ai.GraphExtractor interface to enforce abstraction.
func NewGraphExtractor(config *ai.Config) (ai.GraphExtractor, error) {
	return newGraphExtractor(config)
}

// ExtractGraph prompts the model for a node/edge graph describing the excerpt.
func (e *GraphExtractor) ExtractGraph(ctx context.Context, excerpt string) (*ai.ExtractedGraph, error) {
	if strings.TrimSpace(excerpt) == "" {
		return ai.EmptyGraph(), nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(extractionSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(excerpt)},
		},
	}

	response, err := e.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(e.maxTokens),
		llms.WithJSONMode())
	if err != nil {
		e.logger.Warn("extraction service unreachable, returning empty graph", "err", err)
		return ai.EmptyGraph(), nil
	}

	if len(response.Choices) < 1 {
		e.logger.Debug("no choices returned from model")
		return ai.EmptyGraph(), nil
	}

	graph, perr := ParseGraphResponse(response.Choices[0].Content)
	if perr != nil {
		e.logger.Warn("malformed extraction response, returning empty graph",
			"response", response.Choices[0].Content,
			"err", perr)
		return ai.EmptyGraph(), nil
	}

	e.logger.Debug("extracted graph", "nodes", len(graph.Nodes), "edges", len(graph.Edges))
	return graph, nil
}

// ParseGraphResponse parses model output into a graph. The response text may
// be wrapped in a markdown code fence; fencing is stripped before parsing.
// Structurally invalid elements (nodes without an id, edges missing an
// endpoint or relation) are dropped rather than rejected wholesale.
func ParseGraphResponse(text string) (*ai.ExtractedGraph, error) {
	text = stripCodeFences(text)
	text = repairJSON(text)

	var raw ai.ExtractedGraph
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}

	graph := ai.EmptyGraph()
	for _, node := range raw.Nodes {
		if strings.TrimSpace(node.ID) == "" {
			continue
		}
		graph.Nodes = append(graph.Nodes, node)
	}
	for _, edge := range raw.Edges {
		if strings.TrimSpace(edge.Source) == "" ||
			strings.TrimSpace(edge.Target) == "" ||
			strings.TrimSpace(edge.Relation) == "" {
			continue
		}
		graph.Edges = append(graph.Edges, edge)
	}
	return graph, nil
}

// stripCodeFences removes markdown code fencing around a model response.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
