package imagegen

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/aigram/server/internal/apperrors"
	"codeberg.org/aigram/server/internal/logger"
)

// shared HTTP client for image provider calls
// reuses connection pool and timeout configuration
var imageHTTPClient = &http.Client{
	Timeout: 60 * time.Second, // total request timeout
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// a single image-generation backend
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// calls the configured providers with a single bounded fallback hop:
// the primary (when configured) is tried once, then the fallback once;
// the primary is never retried after falling back
type Invoker struct {
	primary  Provider // nil when no primary is configured
	fallback Provider
}

// creates an invoker with an optional primary provider
func NewInvoker(primary, fallback Provider) *Invoker {
	return &Invoker{primary: primary, fallback: fallback}
}

// creates an invoker from config values; primaryURL may be empty
func NewInvokerFromConfig(primaryURL, primaryKey string) *Invoker {
	var primary Provider
	if primaryURL != "" {
		primary = NewPrimaryProvider(primaryURL, primaryKey)
	}

	return NewInvoker(primary, NewPollinationsProvider())
}

// generates image bytes for the prompt, falling back once on any failure
func (i *Invoker) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if i.primary != nil {
		img, err := i.primary.Generate(ctx, prompt)
		if err == nil {
			return img, nil
		}

		logger.Warn("primary image provider failed, falling back",
			"provider", i.primary.Name(),
			"error", err,
		)
	}

	img, err := i.fallback.Generate(ctx, prompt)
	if err != nil {
		return nil, &apperrors.ProviderError{Provider: i.fallback.Name(), Err: err}
	}

	return img, nil
}
