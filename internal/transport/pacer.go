package transport

import (
	"context"
	"sync"
	"time"
)

// pacer enforces a minimum interval between requests to the same host.
type pacer struct {
	mu          sync.Mutex
	minInterval time.Duration
	next        map[string]time.Time
}

func newPacer(minInterval time.Duration) *pacer {
	return &pacer{
		minInterval: minInterval,
		next:        make(map[string]time.Time),
	}
}

// reserve books the next slot for key and returns how long to wait for it.
func (p *pacer) reserve(key string, now time.Time) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	slot, ok := p.next[key]
	if !ok || !slot.After(now) {
		p.next[key] = now.Add(p.minInterval)
		return 0
	}
	p.next[key] = slot.Add(p.minInterval)
	return slot.Sub(now)
}

func (p *pacer) wait(ctx context.Context, key string) error {
	delay := p.reserve(key, time.Now())
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
