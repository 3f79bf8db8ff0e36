package schema

import (
	"context"
	"encoding/json"
)

// Tool is the interface all LLM-callable mutation tools must satisfy.
// Execute returns the human-readable status fragment folded into the reply.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema (as raw JSON bytes) for this tool's parameters.
	Parameters() json.RawMessage
	Execute(ctx context.Context, args map[string]any) (string, error)
}
