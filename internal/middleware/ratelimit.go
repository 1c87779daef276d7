package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"tradehub-api/pkg/apierror"

	"golang.org/x/time/rate"
)

// limiterStore keeps one token bucket per client IP, evicting idle
// entries lazily on each hit.
type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	r        rate.Limit
	b        int
	ttl      time.Duration
}

type clientLimiter struct {
	lim     *rate.Limiter
	lastHit time.Time
}

func (s *limiterStore) allow(ip string) bool {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	// lazy cleanup
	for k, v := range s.limiters {
		if now.Sub(v.lastHit) > s.ttl {
			delete(s.limiters, k)
		}
	}

	cl, ok := s.limiters[ip]
	if !ok {
		cl = &clientLimiter{lim: rate.NewLimiter(s.r, s.b)}
		s.limiters[ip] = cl
	}
	cl.lastHit = now

	return cl.lim.Allow()
}

// NewRateLimiter returns a per-IP rate limiting middleware.
func NewRateLimiter(r float64, burst int) func(http.Handler) http.Handler {
	store := &limiterStore{
		limiters: make(map[string]*clientLimiter),
		r:        rate.Limit(r),
		b:        burst,
		ttl:      10 * time.Minute,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !store.allow(ip) {
				writeError(w, apierror.TooManyRequests(""))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
