package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"

	"catalog-api/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map; the least recently seen client
// is evicted when it is full.
const maxTrackedClients = 10000

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen uint64
}

type limiterCache struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	capacity int
	clock    uint64
}

func newLimiterCache(rps float64, burst, capacity int) *limiterCache {
	return &limiterCache{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(rps),
		burst:    burst,
		capacity: capacity,
	}
}

// get returns the limiter for key, creating one when needed.
func (lc *limiterCache) get(key string) *rate.Limiter {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	lc.clock++
	now := lc.clock
	if entry, exists := lc.limiters[key]; exists {
		entry.lastSeen = now
		return entry.limiter
	}

	if len(lc.limiters) >= lc.capacity {
		lc.evictOldest()
	}

	entry := &limiterEntry{limiter: rate.NewLimiter(lc.rate, lc.burst), lastSeen: now}
	lc.limiters[key] = entry
	return entry.limiter
}

// evictOldest drops the least recently seen client. Caller holds mu.
func (lc *limiterCache) evictOldest() {
	var oldestKey string
	var oldest uint64
	for key, entry := range lc.limiters {
		if oldestKey == "" || entry.lastSeen < oldest {
			oldestKey, oldest = key, entry.lastSeen
		}
	}
	delete(lc.limiters, oldestKey)
}

// IPResolver derives the client address of a request. Forwarding headers
// are honoured only when the direct peer is a trusted proxy.
type IPResolver struct {
	trusted []netip.Prefix
}

// NewIPResolver accepts IPs and CIDRs. Invalid entries are logged and skipped.
func NewIPResolver(trustedProxies []string, logger *zap.Logger) *IPResolver {
	res := &IPResolver{}
	for _, raw := range trustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(raw); err == nil {
			res.trusted = append(res.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			logger.Warn("Ignoring invalid trusted proxy", zap.String("value", raw))
			continue
		}
		addr = addr.Unmap()
		res.trusted = append(res.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return res
}

func (res *IPResolver) isTrusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range res.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the peer address, or the nearest untrusted hop of
// X-Forwarded-For (then X-Real-IP) when the peer is a trusted proxy.
func (res *IPResolver) ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	peer, err := netip.ParseAddr(host)
	if err != nil || !res.isTrusted(peer) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			if !res.isTrusted(hop) {
				return hop.Unmap().String()
			}
		}
	}

	if realIP, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return realIP.Unmap().String()
	}

	return host
}

// RateLimit throttles requests per client IP. A non-positive rps disables it.
func RateLimit(rps float64, burst int, ips *IPResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	return rateLimit(newLimiterCache(rps, burst, maxTrackedClients), ips, logger)
}

func rateLimit(cache *limiterCache, ips *IPResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ips.ClientIP(r)
			if !cache.get(ip).Allow() {
				logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
				utils.ResponseError(w, utils.NewTooManyRequests("Too many requests",
					"Rate limit exceeded. Please wait a moment and try again."), false)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
