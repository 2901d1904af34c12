package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP. The client is the connection
// peer in r.RemoteAddr; forwarding headers count only after chi's RealIP has
// rewritten RemoteAddr, which the router does for trusted proxies. A background
// loop evicts idle
// clients until the context passed to NewRateLimiter is cancelled or Shutdown
// is called.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	clientTTL time.Duration
	message   func(r *http.Request) string
	now       func() time.Time

	cancel context.CancelFunc
}

// NewRateLimiter allows limit requests per second with the given burst.
func NewRateLimiter(ctx context.Context, limit float64, burst int, cleanupPeriod, clientTTL time.Duration) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	if cleanupPeriod <= 0 {
		cleanupPeriod = time.Minute
	}
	if clientTTL <= 0 {
		clientTTL = 3 * time.Minute
	}
	rl := &RateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(limit),
		burst:     burst,
		clientTTL: clientTTL,
		now:       time.Now,
	}
	ctx, rl.cancel = context.WithCancel(ctx)
	go rl.cleanupLoop(ctx, cleanupPeriod)
	return rl
}

// SetMessage localizes the rejection body.
func (rl *RateLimiter) SetMessage(fn func(r *http.Request) string) { rl.message = fn }

// Middleware rejects requests over the limit with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.visitor(peerIP(r)).Allow() {
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
			msg := http.StatusText(http.StatusTooManyRequests)
			if rl.message != nil {
				msg = rl.message(r)
			}
			writeError(w, r, http.StatusTooManyRequests, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// peerIP strips the port from RemoteAddr. RealIP leaves a bare address.
func peerIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (rl *RateLimiter) visitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

func (rl *RateLimiter) retryAfter() int {
	if rl.limit <= 0 {
		return 60
	}
	secs := int(1/float64(rl.limit) + 0.999)
	if secs < 1 {
		secs = 1
	}
	return secs
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.clientTTL)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// Len reports the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// Shutdown stops the cleanup goroutine.
func (rl *RateLimiter) Shutdown() { rl.cancel() }
