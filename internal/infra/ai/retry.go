package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/contract-compliance/internal/domain/analysis"
)

const (
	maxAttempts     = 3
	initialInterval = 4 * time.Second
	maxInterval     = 10 * time.Second
)

// RetryingGenerator decorates a Generator with exponential backoff: three
// attempts, delays growing from 4s up to a 10s cap. An empty prompt fails
// fast without touching the transport.
type RetryingGenerator struct {
	inner domain.Generator
	log   *zap.Logger

	// interval overrides for tests
	initial time.Duration
	max     time.Duration
}

func NewRetryingGenerator(inner domain.Generator, log *zap.Logger) *RetryingGenerator {
	return &RetryingGenerator{inner: inner, log: log, initial: initialInterval, max: maxInterval}
}

func (g *RetryingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: empty prompt", domain.ErrModelCall)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = g.initial
	policy.MaxInterval = g.max
	policy.MaxElapsedTime = 0 // attempt count bounds us, not wall time

	var out string
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		completion, err := g.inner.Generate(ctx, prompt)
		if err != nil {
			if attempt >= maxAttempts {
				return backoff.Permanent(err)
			}
			g.log.Warn("model call failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		out = completion
		return nil
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return "", fmt.Errorf("%w after %d attempts: %v", domain.ErrModelCall, attempt, err)
	}
	return out, nil
}
