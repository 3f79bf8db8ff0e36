package schema

import "context"

// ChatOptions configures a single LLM chat request.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

func NewChatOptions(model string, maxTokens int, temperature float64) ChatOptions {
	return ChatOptions{Model: model, MaxTokens: maxTokens, Temperature: temperature}
}

// ToolCallRequest is one function invocation requested by the LLM in place
// of, or alongside, free text. Args is an untyped payload straight off the
// wire; callers must coerce it into typed arguments before acting on it.
type ToolCallRequest struct {
	Name string
	Args map[string]any
}

// LLMResponse is the normalised response from the generative backend.
type LLMResponse struct {
	Text      string
	ToolCalls []ToolCallRequest
}

// HasToolCalls reports whether the response contains at least one tool call.
func (r LLMResponse) HasToolCalls() bool { return len(r.ToolCalls) > 0 }

// LLMProvider is the interface the generative backend must satisfy.
//
// Chat runs one conversational turn with function-calling tools attached.
// GenerateVision runs a single-shot prompt over an inline image.
// Generate runs a single-shot text prompt with no tools.
type LLMProvider interface {
	Chat(ctx context.Context, messages Messages, tools []map[string]any, opts ChatOptions) (LLMResponse, error)
	GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
}
