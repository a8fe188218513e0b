package ai

import "context"

// Options tune a single completion call.
type Options struct {
	Temperature     float32
	MaxOutputTokens int32
}

// Completer is the generative text collaborator used by every pipeline
// stage. Implementations must honor ctx cancellation.
type Completer interface {
	Complete(ctx context.Context, system, prompt string, opts Options) (string, error)
}
