// Package rate implements a per-client request limiter on top of
// golang.org/x/time/rate. Clients are tracked by an opaque key and forgotten
// after a period of inactivity.
package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Limiter struct {
	Expiry   time.Duration
	Burst    int
	LimitRPS float64

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewLimiter(burst int, expiry time.Duration, limitRPS float64) *Limiter {
	lm := &Limiter{
		Expiry:   expiry,
		Burst:    burst,
		LimitRPS: limitRPS,
		clients:  make(map[string]*clientLimiter),
	}
	go lm.sweep()
	return lm
}

// Check reports whether the client identified by key is allowed to proceed.
func (l *Limiter) Check(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.LimitRPS), l.Burst)}
		l.clients[key] = cl
	}
	cl.lastAccess = time.Now()
	return cl.limiter.Allow()
}

func (l *Limiter) sweep() {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()

	for range tick.C {
		l.mu.Lock()
		for key, cl := range l.clients {
			if time.Since(cl.lastAccess) > l.Expiry {
				delete(l.clients, key)
			}
		}
		l.mu.Unlock()
	}
}

// Every converts a minimum interval between requests to a rate in RPS.
func Every(interval time.Duration) float64 {
	return float64(rate.Every(interval))
}
