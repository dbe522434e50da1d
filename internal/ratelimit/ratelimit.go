package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBudgetExhausted is returned by Budget.Use once the per-run cap is reached.
var ErrBudgetExhausted = errors.New("request budget exhausted")

// Budget caps the number of model requests made during one run.
type Budget struct {
	mu    sync.Mutex
	used  int
	limit int // 0 = unlimited
}

// NewBudget creates a budget allowing limit requests; limit <= 0 means unlimited.
func NewBudget(limit int) *Budget {
	if limit < 0 {
		limit = 0
	}
	return &Budget{limit: limit}
}

// Use reserves one request or returns ErrBudgetExhausted.
func (b *Budget) Use() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limit > 0 && b.used >= b.limit {
		return ErrBudgetExhausted
	}
	b.used++
	return nil
}

// GetStats returns current budget statistics
func (b *Budget) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"used":  b.used,
		"limit": b.limit,
	}
}

// Pacer holds back successive operations. Each Wait after the first sleeps
// the full interval, so the gap is measured from when the caller got back
// to it rather than from the previous start.
type Pacer struct {
	interval time.Duration
	started  bool
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks for the interval, except on the first call, or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.started || p.interval <= 0 {
		p.started = true
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.interval):
		return nil
	}
}
