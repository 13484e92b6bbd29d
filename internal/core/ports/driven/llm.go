package driven

import "context"

// LLMService produces chat completions as an incremental token stream.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI-compatible inference servers
type LLMService interface {
	// ChatStream conducts a conversation and streams the reply.
	//
	// The tokens channel carries content fragments in order and is
	// closed when the model signals completion or ctx is cancelled.
	// The errs channel carries at most one terminal error and is
	// closed with the stream. Fragments must be forwarded as they
	// arrive, not batched.
	ChatStream(ctx context.Context, messages []ChatMessage, opts ChatOptions) (<-chan string, <-chan error)

	// ModelName returns the name of the chat model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
