package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "resume-api/internal/transport/http/response"
)

// RateLimit 全局令牌桶
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if !lim.Allow() {
			tooMany(c, rps)
			return
		}
		c.Next()
	}
}

// 超过该数量时清理闲置的 IP 桶
const maxIPBuckets = 10000

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimitPerIP 每 IP 一个令牌桶（注册 / 登录 / 刷新防爆破）
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	buckets := make(map[string]*ipBucket)
	idle := time.Duration(float64(burst)/float64(rps)*float64(time.Second)) + time.Minute

	return func(c *gin.Context) {
		now := time.Now()
		ip := c.ClientIP()

		mu.Lock()
		if len(buckets) >= maxIPBuckets {
			for k, b := range buckets {
				if now.Sub(b.seen) > idle {
					delete(buckets, k)
				}
			}
		}
		b, ok := buckets[ip]
		if !ok {
			b = &ipBucket{lim: rate.NewLimiter(rps, burst)}
			buckets[ip] = b
		}
		b.seen = now
		allowed := b.lim.AllowN(now, 1)
		mu.Unlock()

		if !allowed {
			tooMany(c, rps)
			return
		}
		c.Next()
	}
}

func tooMany(c *gin.Context, rps rate.Limit) {
	wait := 1
	if rps > 0 {
		wait = max(1, int(math.Ceil(1/float64(rps))))
	}
	c.Header("Retry-After", strconv.Itoa(wait))
	abort(c, resp.CodeTooManyRequests, "too many requests")
}
