package textgen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Fallback texts. The "empty" variants replace a successful but blank
// response; the "failed" variants replace an error or timeout.
const (
	AdmirerNoteEmpty  = "I've been watching your profile from afar... you're amazing!"
	AdmirerNoteFailed = "You have a new secret admirer! They think you're pretty cool."
	BlogPromptEmpty   = "1. My thoughts on this! 2. Why this matters 3. A cool story"
	BlogPromptFailed  = "1. Life update! 2. Check this out 3. Random thoughts"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 10 * time.Second

// Writer produces feature text through a Provider. Its methods never fail.
type Writer struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) WriterOption {
	return func(w *Writer) { w.timeout = d }
}

// WithLogger sets the logger used for provider failures.
func WithLogger(l *slog.Logger) WriterOption {
	return func(w *Writer) { w.logger = l }
}

// NewWriter creates a Writer. A nil provider is allowed; every call then
// returns the failure fallback.
func NewWriter(p Provider, opts ...WriterOption) *Writer {
	w := &Writer{provider: p, timeout: DefaultTimeout, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SecretAdmirerNote writes a short anonymous note addressed to name.
func (w *Writer) SecretAdmirerNote(ctx context.Context, name string) string {
	prompt := fmt.Sprintf("Write a mysterious, polite, and slightly poetic secret admirer note for someone named %s. "+
		"Keep it short (under 50 words) and classic MySpace vibes.", name)
	return w.generate(ctx, "admirer_note", prompt, AdmirerNoteEmpty, AdmirerNoteFailed)
}

// BlogPrompt suggests blog post titles about topic.
func (w *Writer) BlogPrompt(ctx context.Context, topic string) string {
	prompt := fmt.Sprintf("Give me 3 creative and funny blog post titles about %s for a retro social media platform.", topic)
	return w.generate(ctx, "blog_prompt", prompt, BlogPromptEmpty, BlogPromptFailed)
}

func (w *Writer) generate(ctx context.Context, site, prompt, emptyFallback, failedFallback string) (text string) {
	if w == nil || w.provider == nil {
		return failedFallback
	}

	defer func() {
		if r := recover(); r != nil {
			w.logger.Warn("text provider panicked", "site", site, "panic", r)
			text = failedFallback
		}
	}()

	callCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	out, err := w.provider.Generate(callCtx, prompt)
	if err != nil {
		w.logger.Warn("text generation failed, using fallback", "site", site, "error", err)
		return failedFallback
	}
	if strings.TrimSpace(out) == "" {
		return emptyFallback
	}
	return out
}
