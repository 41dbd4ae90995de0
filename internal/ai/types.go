package ai

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned by the Unconfigured generator.
	ErrNotConfigured = errors.New("generation service not configured")
	// ErrEmptyResponse means the service answered without any text.
	ErrEmptyResponse = errors.New("generation service returned no text")
)

// Prompt is one request to the generation service.
type Prompt struct {
	System      string  // Fixed system instruction
	Instruction string  // Per-call command text
	Temperature float32 // Sampling temperature
	Search      bool    // Enable real-time web search grounding
}

// Generator turns a Prompt into freeform text.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	// Configured reports whether Generate can reach a real service.
	Configured() bool
}

// Unconfigured is the Generator used when no credential is available.
// Callers are expected to check Configured and skip the call entirely.
type Unconfigured struct{}

func (Unconfigured) Generate(context.Context, Prompt) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) Configured() bool { return false }
