package ai

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
)

// FallbackClassifier routes between providers: Ollama first (local, free),
// Gemini as the fallback when Ollama is unreachable or undecided.
type FallbackClassifier struct {
	gemini TodoClassifier
	ollama *OllamaService
}

// NewFallbackClassifier creates a new fallback classifier with both providers
func NewFallbackClassifier(gemini TodoClassifier, ollama *OllamaService) *FallbackClassifier {
	return &FallbackClassifier{
		gemini: gemini,
		ollama: ollama,
	}
}

func (f *FallbackClassifier) Name() string { return "fallback" }

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(net.Error); ok {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// IsActionable tries Ollama first (free, local), falls back to Gemini
func (f *FallbackClassifier) IsActionable(ctx context.Context, subject, body string) (bool, error) {
	if f.ollama != nil {
		actionable, err := f.ollama.IsActionable(ctx, subject, body)
		if err == nil {
			return actionable, nil
		}

		if isConnectionError(err) {
			log.Printf("[AI] Ollama connection failed: %v, falling back to Gemini", err)
		} else {
			log.Printf("[AI] Ollama error: %v, falling back to Gemini", err)
		}
	}

	if f.gemini != nil {
		actionable, err := f.gemini.IsActionable(ctx, subject, body)
		if err == nil {
			return actionable, nil
		}

		// Quota exhaustion on Gemini may be transient on Ollama's side too,
		// so give the local model one more chance.
		if isQuotaError(err) && f.ollama != nil {
			log.Printf("[AI] Gemini quota exhausted: %v, retrying Ollama", err)
			return f.ollama.IsActionable(ctx, subject, body)
		}

		return false, fmt.Errorf("gemini classification failed: %w", err)
	}

	return false, fmt.Errorf("no AI provider available")
}
