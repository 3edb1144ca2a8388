// Package textgen wraps the external text-generation provider used for
// secret admirer notes and blog prompts.
//
// The provider is opaque: a prompt goes in, a string or an error comes out.
// Writer sits on top and guarantees callers always get usable text back.
package textgen

import (
	"context"
	"fmt"
)

// Provider generates text for a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f ProviderFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ProviderError wraps any failure from the provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
