// Package embedding selects and constructs the embedding service named in
// configuration.
package embedding

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/rivergate-labs/chunksync/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/rivergate-labs/chunksync/internal/adapters/driven/embedding/openai"
	"github.com/rivergate-labs/chunksync/internal/core/domain"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// NewFromConfig creates the embedding service named by embedding.provider.
// An empty provider defaults to a local Ollama instance.
func NewFromConfig(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	switch provider := cfg.GetString("embedding.provider"); provider {
	case "", "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil

	case "openai":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.GetString("embedding.api_key"),
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q", domain.ErrInvalidInput, provider)
	}
}

// Validate pings the service with a short timeout so misconfiguration
// surfaces before a sync cycle starts embedding chunks.
func Validate(svc driven.EmbeddingService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s unreachable: %v", domain.ErrEmbedding, svc.ModelName(), err)
	}
	return nil
}
