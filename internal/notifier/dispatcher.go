package notifier

import (
	"context"
	"fmt"
	"sync/atomic"
)

var (
	ErrNoHealthy = fmt.Errorf("no healthy providers")
	ErrNoAcquire = fmt.Errorf("provider not acquired")
)

// Dispatcher fans a Send over the configured providers, round-robin
// across the ones whose breaker is closed. One Send makes exactly one
// delivery attempt against one provider; a failed attempt surfaces to
// the caller and the item is retried on a later scan tick.
type Dispatcher struct {
	providers         []Provider
	roundRobinCounter atomic.Uint64
}

func NewDispatcher(provs []Provider) *Dispatcher {
	return &Dispatcher{providers: provs}
}

func (d *Dispatcher) selectProvider() (Provider, error) {
	healthy := make([]Provider, 0, len(d.providers))
	for _, p := range d.providers {
		if p.Ready() {
			healthy = append(healthy, p)
		}
	}

	if len(healthy) == 0 {
		return nil, ErrNoHealthy
	}

	x := d.roundRobinCounter.Add(1)
	idx := int((x - 1) % uint64(len(healthy)))

	return healthy[idx], nil
}

func (d *Dispatcher) Send(ctx context.Context, recipient, subject, body string) error {
	p, err := d.selectProvider()
	if err != nil {
		return err
	}

	if !p.Acquire() {
		return ErrNoAcquire
	}

	return p.Send(ctx, recipient, subject, body)
}

// Configured is true when at least one provider has endpoint and
// credentials set.
func (d *Dispatcher) Configured() bool {
	for _, p := range d.providers {
		if p.Configured() {
			return true
		}
	}
	return false
}
