package http

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// DomainLimiter spaces out requests to each host. Hosts do not share a
// budget, so a slow site never delays fetches from another one.
type DomainLimiter struct {
	limit rate.Limit

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDomainLimiter allows rps requests per second to each host with a burst
// of one. A non-positive rps means no limit.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &DomainLimiter{limit: limit, hosts: make(map[string]*rate.Limiter)}
}

// Wait blocks until host may be requested again or ctx is done. Host names
// are compared case-insensitively.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.forHost(strings.ToLower(host)).Wait(ctx)
}

func (d *DomainLimiter) forHost(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.hosts[host]
	if !ok {
		l = rate.NewLimiter(d.limit, 1)
		d.hosts[host] = l
	}
	return l
}
