package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/apikit/internal/http/response"
)

const visitorIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	rejected int
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов с одного IP. Клиент, который продолжает
// слать запросы после evilAfter отказов подряд, получает 444.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	evilAfter int
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter создаёт RateLimiter. evilAfter <= 0 отключает ответ 444.
func NewRateLimiter(rps float64, burst, evilAfter int) *RateLimiter {
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		rps:       rate.Limit(rps),
		burst:     burst,
		evilAfter: evilAfter,
		now:       time.Now,
	}
}

// verdict результат проверки одного запроса.
type verdict int

const (
	allowed verdict = iota
	limited
	evil
)

func (l *RateLimiter) check(ip string) verdict {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		v.rejected = 0
		return allowed
	}
	v.rejected++
	if l.evilAfter > 0 && v.rejected > l.evilAfter {
		return evil
	}
	return limited
}

func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < time.Minute {
		return
	}
	l.lastSweep = now
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(l.visitors, ip)
		}
	}
}

// Middleware возвращает HTTP middleware с этим ограничителем.
func (l *RateLimiter) Middleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			switch l.check(ip) {
			case allowed:
				next.ServeHTTP(w, r)
			case limited:
				log.Info("too many requests",
					slog.String("ip", ip),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Client("too many requests").Response())
			case evil:
				log.Warn("evil request, client ignores rate limit",
					slog.String("ip", ip),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, response.StatusEvilRequest)
				render.JSON(w, r, response.WithCode(response.CodeClientEvilRequest).Response())
			}
		})
	}
}

// clientIP адрес соединения. Заголовки X-Forwarded-For и X-Real-IP не учитываются,
// клиент может подставить в них что угодно.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
