package controller

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClientRateLimiter keeps one token bucket per client IP.
//
// The client IP is the socket peer. Forwarding headers are only honoured when
// the peer is one of the trusted proxies.
type ClientRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	rate      rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	trusted   []netip.Prefix
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// DefaultIdleTTL is how long an unused client bucket is kept.
const DefaultIdleTTL = 10 * time.Minute

// NewClientRateLimiter returns a limiter allowing rps requests per second with
// the given burst per client. Non-positive values are raised to one.
func NewClientRateLimiter(rps float64, burst int) *ClientRateLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &ClientRateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		idle:     DefaultIdleTTL,
		now:      time.Now,
	}
}

// TrustProxies sets the proxies whose X-Forwarded-For and X-Real-IP headers
// are used as the client IP. Entries are CIDR prefixes or single addresses.
func (l *ClientRateLimiter) TrustProxies(proxies ...string) error {
	trusted := make([]netip.Prefix, 0, len(proxies))
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.Contains(p, "/") {
			prefix, err := netip.ParsePrefix(p)
			if err != nil {
				return fmt.Errorf("invalid trusted proxy %q: %w", p, err)
			}
			trusted = append(trusted, prefix.Masked())

			continue
		}

		addr, err := netip.ParseAddr(p)
		if err != nil {
			return fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		addr = addr.Unmap()
		trusted = append(trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}

	l.mu.Lock()
	l.trusted = trusted
	l.mu.Unlock()

	return nil
}

// ClientKey returns the IP the request is accounted to.
func (l *ClientRateLimiter) ClientKey(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}

	l.mu.Lock()
	trusted := l.trusted
	l.mu.Unlock()

	if len(trusted) == 0 {
		return peer
	}

	addr, err := netip.ParseAddr(peer)
	if err != nil {
		return peer
	}
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return GetClientIP(r)
		}
	}

	return peer
}

// Allow reports whether client may make a request now.
func (l *ClientRateLimiter) Allow(client string) bool {
	if l == nil {
		return true
	}

	return l.get(client).Allow()
}

// Len returns the number of tracked clients.
func (l *ClientRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.limiters)
}

func (l *ClientRateLimiter) get(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		for key, cl := range l.limiters {
			if now.Sub(cl.lastSeen) > l.idle {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.limiters[client]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[client] = cl
	}
	cl.lastSeen = now

	return cl.limiter
}

// WithRateLimit returns a middleware rejecting requests over the per-client
// budget with 429 and a JSON error body. A nil limiter disables limiting.
func WithRateLimit(l *ClientRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(l.ClientKey(r)) {
				retry := time.Second
				if l.rate < 1 {
					retry = time.Duration(float64(time.Second) / float64(l.rate))
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"code":"RATE_LIMITED","message":"too many requests"}`))

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
