// Package ai provides abstractions for the inference services Lodestone
// depends on.
//
// Two interfaces define the contract between the pipeline and the outside
// world:
//
//   - Embedder: turns text spans into fixed-dimension vectors
//   - GraphExtractor: turns a document excerpt into an entity/relation graph
//
// Implementations live in sub-packages:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; mock constructors return concrete types so tests can inject
// behavior and assert on call counts.
//
// The two services have deliberately different failure contracts. Embedding
// failures are fatal to their caller: either every span of a document is
// embedded or none are. Graph extraction is best-effort: a malformed model
// response degrades to an empty graph instead of an error, so extraction can
// never fail an ingestion whose vector path succeeded.
package ai
