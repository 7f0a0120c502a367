// Package embedding wraps the embedding provider behind a contract that
// never fails: every input text gets a vector slot in order, and any
// provider failure yields empty vectors instead of an error. This is the
// single seam by which semantic scoring can be disabled system-wide.
package embedding

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Provider is the raw embedding transport. It may fail; the Client
// absorbs those failures.
type Provider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// Client resolves embeddings with graceful degradation. A nil provider
// means embeddings are not configured in this deployment.
type Client struct {
	provider Provider
	logger   *zap.Logger
	warnOnce sync.Once
}

// New creates a Client. provider may be nil.
func New(provider Provider, logger *zap.Logger) *Client {
	return &Client{provider: provider, logger: logger}
}

// Configured reports whether an embedding provider is wired in.
func (c *Client) Configured() bool { return c.provider != nil }

// Model returns the provider's model name, or "" when unconfigured.
func (c *Client) Model() string {
	if c.provider == nil {
		return ""
	}
	return c.provider.Model()
}

// EmbedTexts returns exactly len(texts) vectors in input order. Failed or
// unconfigured lookups come back as empty vectors, never an error.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) [][]float32 {
	out := make([][]float32, len(texts))

	if c.provider == nil {
		c.warnOnce.Do(func() {
			c.logger.Warn("embedding provider not configured; semantic scoring disabled")
		})
		return out
	}
	if len(texts) == 0 {
		return out
	}

	vecs, err := c.provider.EmbedBatch(ctx, texts)
	if err != nil {
		c.logger.Warn("embedding batch failed; returning empty vectors",
			zap.Int("texts", len(texts)), zap.Error(err))
		return out
	}
	if len(vecs) != len(texts) {
		c.logger.Warn("embedding count mismatch; returning empty vectors",
			zap.Int("texts", len(texts)), zap.Int("vectors", len(vecs)))
		return out
	}

	copy(out, vecs)
	return out
}

// EmbedText embeds a single text; empty slice on failure or absence.
func (c *Client) EmbedText(ctx context.Context, text string) []float32 {
	return c.EmbedTexts(ctx, []string{text})[0]
}
