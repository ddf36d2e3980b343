// Package inference turns questions into answers using a local LLM runtime.
package inference

import "context"

// Generator produces raw model output for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Ready returns nil once the model can serve requests
	Ready(ctx context.Context) error
}

// Answer formats question, runs it through g and extracts the answer text
func Answer(ctx context.Context, g Generator, question string) (string, error) {
	generated, err := g.Generate(ctx, FormatPrompt(question))
	if err != nil {
		return "", err
	}
	return ExtractAnswer(generated), nil
}
