package embedding

// EmbeddingProvider generates text embeddings for dialogue history and
// memory retrieval. taskType distinguishes query from document embeddings
// for providers that support asymmetric retrieval.
//
// Callers treat a provider failure as a degradation signal: messages and
// memories are stored without an embedding and fall back to keyword
// retrieval, they are never dropped.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
