package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fakhrymubarak/weather-app/internal/config"
	"golang.org/x/time/rate"
)

// visitor holds the rate limiter and last seen time for a client key.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limit describes a token bucket in requests per minute.
type Limit struct {
	PerMinute float64
	Burst     int
}

func (l Limit) limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(l.PerMinute/60.0), l.Burst)
}

// RateLimiter enforces a per-IP global limit and a per-(IP, location) limit on
// weather lookups.
type RateLimiter struct {
	global  Limit
	param   Limit
	maxIdle time.Duration

	muGlobal       sync.Mutex
	globalVisitors map[string]*visitor // key: ip

	muParam       sync.Mutex
	paramVisitors map[string]map[string]*visitor // key: ip -> location
}

// NewRateLimiter builds a limiter from explicit limits. Visitors idle for longer
// than maxIdle are dropped by Sweep.
func NewRateLimiter(global, param Limit, maxIdle time.Duration) *RateLimiter {
	return &RateLimiter{
		global:         global,
		param:          param,
		maxIdle:        maxIdle,
		globalVisitors: make(map[string]*visitor),
		paramVisitors:  make(map[string]map[string]*visitor),
	}
}

// NewRateLimiterFromConfig builds a limiter from the rate_limiter.* config keys.
func NewRateLimiterFromConfig() *RateLimiter {
	gRate, gBurst := config.GetGlobalRateLimiterConfig()
	pRate, pBurst := config.GetParamRateLimiterConfig()
	return NewRateLimiter(
		Limit{PerMinute: gRate, Burst: gBurst},
		Limit{PerMinute: pRate, Burst: pBurst},
		config.GetRateLimiterCleanupTimeout(),
	)
}

// getGlobalLimiter returns the rate limiter for the given IP address, creating one if it does not exist.
func (rl *RateLimiter) getGlobalLimiter(ip string) *rate.Limiter {
	rl.muGlobal.Lock()
	defer rl.muGlobal.Unlock()
	v, exists := rl.globalVisitors[ip]
	if !exists {
		limiter := rl.global.limiter()
		rl.globalVisitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// getParamLimiter returns the rate limiter for the given IP address and parameter value, creating one if it does not exist.
func (rl *RateLimiter) getParamLimiter(ip, param string) *rate.Limiter {
	rl.muParam.Lock()
	defer rl.muParam.Unlock()
	if _, ok := rl.paramVisitors[ip]; !ok {
		rl.paramVisitors[ip] = make(map[string]*visitor)
	}
	v, exists := rl.paramVisitors[ip][param]
	if !exists {
		limiter := rl.param.limiter()
		rl.paramVisitors[ip][param] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Sweep removes visitors that have not been seen for longer than the idle timeout.
func (rl *RateLimiter) Sweep(now time.Time) {
	rl.muGlobal.Lock()
	for ip, v := range rl.globalVisitors {
		if now.Sub(v.lastSeen) > rl.maxIdle {
			delete(rl.globalVisitors, ip)
		}
	}
	rl.muGlobal.Unlock()

	rl.muParam.Lock()
	for ip, paramMap := range rl.paramVisitors {
		for param, v := range paramMap {
			if now.Sub(v.lastSeen) > rl.maxIdle {
				delete(paramMap, param)
			}
		}
		if len(paramMap) == 0 {
			delete(rl.paramVisitors, ip)
		}
	}
	rl.muParam.Unlock()
}

// StartCleanup sweeps stale visitors every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.Sweep(now)
			}
		}
	}()
}

// getIP returns the host part of RemoteAddr. Forwarded headers are only honoured
// when chi's RealIP middleware has already rewritten RemoteAddr from them.
func getIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

// Allow reports whether a lookup of location from r's client may proceed. When it
// may not, msg is the text for the 429 body.
func (rl *RateLimiter) Allow(r *http.Request, location string) (ok bool, msg string) {
	ip := getIP(r)
	if !rl.getGlobalLimiter(ip).Allow() {
		config.GetLogger().Infow("rate limited", "ip", ip, "limit", "global")
		return false, fmt.Sprintf("Rate limit exceeded: max %g requests per minute per user/IP", rl.global.PerMinute)
	}
	if !rl.getParamLimiter(ip, strings.ToLower(location)).Allow() {
		config.GetLogger().Infow("rate limited", "ip", ip, "limit", "param")
		return false, fmt.Sprintf("Rate limit exceeded: max %g requests per minute per location per user/IP", rl.param.PerMinute)
	}
	return true, ""
}
