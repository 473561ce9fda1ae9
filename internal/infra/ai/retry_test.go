package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/contract-compliance/internal/domain/analysis"
)

type flakyGenerator struct {
	calls    int
	failures int
	response string
}

func (g *flakyGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.calls <= g.failures {
		return "", errors.New("transient transport error")
	}
	return g.response, nil
}

func newTestRetrying(inner domain.Generator) *RetryingGenerator {
	g := NewRetryingGenerator(inner, zap.NewNop())
	g.initial = time.Millisecond
	g.max = 2 * time.Millisecond
	return g
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	inner := &flakyGenerator{failures: 2, response: `{"ok": true}`}
	g := newTestRetrying(inner)

	out, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryGivesUpAfterThreeAttempts(t *testing.T) {
	inner := &flakyGenerator{failures: 10}
	g := newTestRetrying(inner)

	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelCall)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryEmptyPromptFailsFast(t *testing.T) {
	inner := &flakyGenerator{response: "never reached"}
	g := newTestRetrying(inner)

	_, err := g.Generate(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrModelCall)
	assert.Zero(t, inner.calls)
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	inner := &flakyGenerator{failures: 10}
	g := newTestRetrying(inner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, "prompt")
	require.Error(t, err)
	assert.LessOrEqual(t, inner.calls, 1)
}
