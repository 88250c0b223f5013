package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const visitorTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors holds one token bucket per client ip. Idle entries are swept
// lazily, at most once per ttl.
type visitors struct {
	mu        sync.Mutex
	byIP      map[string]*visitor
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newVisitors(rps float64, burst int) *visitors {
	return &visitors{
		byIP:  make(map[string]*visitor),
		limit: rate.Limit(rps),
		burst: burst,
		ttl:   visitorTTL,
		now:   time.Now,
	}
}

func (v *visitors) get(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	if now.Sub(v.lastSweep) > v.ttl {
		for k, vis := range v.byIP {
			if now.Sub(vis.lastSeen) > v.ttl {
				delete(v.byIP, k)
			}
		}
		v.lastSweep = now
	}

	vis, ok := v.byIP[ip]
	if !ok {
		vis = &visitor{limiter: rate.NewLimiter(v.limit, v.burst)}
		v.byIP[ip] = vis
	}
	vis.lastSeen = now
	return vis.limiter
}

// RateLimit enforces a per-client token bucket and answers 429 when it is empty.
func RateLimit(rps float64, burst int, log logrus.FieldLogger) gin.HandlerFunc {
	store := newVisitors(rps, burst)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.get(ip).Allow() {
			log.WithFields(logrus.Fields{
				"client_ip": ip,
				"path":      c.Request.URL.Path,
			}).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
