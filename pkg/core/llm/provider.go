// Package llm abstracts the chat-completion providers the agent can drive.
// Gemini supports native function calling; the others get tool use through
// a prompted JSON protocol in the agent loop.
package llm

import "context"

// Provider is a plain text-in text-out chat completion backend.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]any) (string, error)
	// AdaptInstructions reshapes a raw system prompt into the form the
	// model responds to best.
	AdaptInstructions(rawInstructions string) string
}
