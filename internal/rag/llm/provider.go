package llm

import "context"

// Provider is the language-model contract. GenerateJSON asks the provider for
// a JSON-only response (structured output); callers still validate the payload
// because providers occasionally return garbage anyway.
type Provider interface {
	Generate(ctx context.Context, systemInstruction string, prompt string) (string, error)
	GenerateJSON(ctx context.Context, systemInstruction string, prompt string) (string, error)
}
