package ai

import "context"

// TodoClassifier is the interface for optional AI-backed scoring of emails
// the rule chain leaves unclassified. It is never load-bearing: callers
// must treat errors as "no opinion".
// Implement this interface to add new AI providers (Gemini, Ollama, OpenAI, etc.)
type TodoClassifier interface {
	// IsActionable reports whether the email asks the reader to do
	// something with a deadline or obligation attached
	IsActionable(ctx context.Context, subject, body string) (bool, error)
	Name() string
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
