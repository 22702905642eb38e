// Package mock provides test double implementations of the ai interfaces.
//
// The mocks allow tests to run without external inference services and
// enable controlled, deterministic behavior:
//
//   - MockEmbedder: returns deterministic vectors based on text hash
//   - MockGraphExtractor: builds a trivial graph from capitalized words
//   - MockProvider: aggregates both
//
// Custom behavior is injected through function fields:
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("service down")
//	}
package mock
