package model

import "context"

// EmbedderInterface maps texts to fixed-length vectors, one per input in
// input order. Any failure in the underlying model is fatal for the calling
// request and is propagated, not retried.
type EmbedderInterface interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMClient is the language-model collaborator used by the answer composer.
type LLMClient interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}
