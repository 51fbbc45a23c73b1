// Package ratelimit paces requests to RapidAPI hosts. RapidAPI plans meter
// calls per host, so every source sharing a host shares one limiter.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/autotouch/outbound/internal/model"
)

// HostPacer enforces a minimum delay between requests to the same host.
type HostPacer struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	minDelay time.Duration
}

// NewHostPacer creates a pacer that spaces requests to one host at least
// minDelay apart. A zero or negative delay disables pacing.
func NewHostPacer(minDelay time.Duration) *HostPacer {
	return &HostPacer{
		limiters: make(map[string]*rate.Limiter),
		minDelay: minDelay,
	}
}

func (p *HostPacer) limiter(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.limiters[host]
	if !ok {
		limit := rate.Inf
		if p.minDelay > 0 {
			limit = rate.Every(p.minDelay)
		}
		l = rate.NewLimiter(limit, 1)
		p.limiters[host] = l
	}
	return l
}

// Wait blocks until a request to host may proceed. The first request to a
// host never waits.
func (p *HostPacer) Wait(ctx context.Context, host string) error {
	if err := p.limiter(host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", host, err)
	}
	return nil
}

// PacedSource is a model.JobSource decorator that waits on a shared pacer
// before every search.
type PacedSource struct {
	inner model.JobSource
	pacer *HostPacer
	host  string
}

var _ model.JobSource = (*PacedSource)(nil)

// NewPacedSource wraps inner. Sources on the same host should share a pacer.
func NewPacedSource(inner model.JobSource, pacer *HostPacer, host string) *PacedSource {
	return &PacedSource{inner: inner, pacer: pacer, host: host}
}

// Name returns the wrapped source's name.
func (s *PacedSource) Name() string { return s.inner.Name() }

// SearchJobs waits for the pacer, then delegates.
func (s *PacedSource) SearchJobs(ctx context.Context, q model.JobQuery) (*model.APIResponse, error) {
	if err := s.pacer.Wait(ctx, s.host); err != nil {
		return nil, err
	}
	return s.inner.SearchJobs(ctx, q)
}
