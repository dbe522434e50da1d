// Package llm wraps chat-style completion providers behind one interface.
package llm

import (
	"context"
	"fmt"

	"github.com/deusflow/speedread/internal/config"
	"github.com/deusflow/speedread/internal/metrics"
	"github.com/deusflow/speedread/internal/ratelimit"
)

// Request is a single chat completion: one system turn, one user turn.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Completer returns the model's raw text for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Provider is a Completer that holds resources until closed.
type Provider interface {
	Completer
	Close() error
}

// New creates the provider selected by cfg. Requests that reach the model are
// counted on m; a non-nil budget refuses requests before they are counted.
func New(ctx context.Context, cfg *config.Config, budget *ratelimit.Budget, m *metrics.Metrics) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		p = NewOpenAI(cfg.OpenAIAPIKey, cfg.Model)
	case config.ProviderGemini:
		p, err = NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model)
	default:
		err = fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	if m != nil {
		p = WithMetrics(p, m)
	}
	if budget != nil {
		p = WithBudget(p, budget)
	}
	return p, nil
}

type counted struct {
	Provider
	metrics *metrics.Metrics
}

// WithMetrics counts every request passed on to p.
func WithMetrics(p Provider, m *metrics.Metrics) Provider {
	return &counted{Provider: p, metrics: m}
}

func (c *counted) Complete(ctx context.Context, req Request) (string, error) {
	c.metrics.IncrementModelCalls()
	return c.Provider.Complete(ctx, req)
}

type budgeted struct {
	Provider
	budget *ratelimit.Budget
}

// WithBudget refuses requests with ratelimit.ErrBudgetExhausted once the budget is spent.
func WithBudget(p Provider, budget *ratelimit.Budget) Provider {
	return &budgeted{Provider: p, budget: budget}
}

func (b *budgeted) Complete(ctx context.Context, req Request) (string, error) {
	if err := b.budget.Use(); err != nil {
		return "", err
	}
	return b.Provider.Complete(ctx, req)
}
