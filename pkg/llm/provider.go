package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// ChunkHandler receives raw text fragments as the model produces them.
// Returning an error aborts the stream.
type ChunkHandler func(chunk string) error

// StreamingProvider is implemented by backends that can deliver the response
// incrementally. Callers that need streaming should type-assert and fall back
// to a single Chat call when the provider does not support it.
type StreamingProvider interface {
	LLMProvider

	// ChatStream sends a chat history and invokes onChunk for every
	// fragment. It returns the full accumulated response once the model
	// is done.
	ChatStream(ctx context.Context, history []Message, onChunk ChunkHandler, options ...Option) (string, error)
}
