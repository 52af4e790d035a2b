package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// LoginRateLimit 登录/注册表单限流中间件
// 每 IP 在 window 内最多 maxAttempts 次提交，超过则返回 429
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	limiter := newAttemptLimiter(maxAttempts, window)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.String(http.StatusTooManyRequests, "Too many attempts, please wait a minute and try again.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// attemptLimiter 按 IP 记录窗口内的提交时间
// 过期数据在请求中顺带清理，不启动后台 goroutine
type attemptLimiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	store       map[string][]time.Time
	lastSweep   time.Time
}

func newAttemptLimiter(maxAttempts int, window time.Duration) *attemptLimiter {
	return &attemptLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		store:       make(map[string][]time.Time),
	}
}

func (l *attemptLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	ts := pruneBefore(l.store[ip], cutoff)
	if len(ts) >= l.maxAttempts {
		l.store[ip] = ts
		return false
	}
	l.store[ip] = append(ts, now)
	return true
}

// sweep 删除窗口内已无记录的 IP
func (l *attemptLimiter) sweep(cutoff time.Time) {
	for ip, ts := range l.store {
		ts = pruneBefore(ts, cutoff)
		if len(ts) == 0 {
			delete(l.store, ip)
			continue
		}
		l.store[ip] = ts
	}
}

// pruneBefore 移除窗口外的记录
func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
