package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func get(h http.Handler, remoteAddr string, headers map[string]string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(0.0001, 2, NewIPResolver(nil, zap.NewNop()), zap.NewNop())(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, get(h, "10.0.0.1:5000", nil))
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.2:5000", nil))
}

func TestRateLimit_ForwardedHeadersFromUntrustedPeerAreIgnored(t *testing.T) {
	h := RateLimit(0.0001, 2, NewIPResolver(nil, zap.NewNop()), zap.NewNop())(okHandler)

	passed := 0
	for i := 0; i < 20; i++ {
		spoofed := fmt.Sprintf("203.0.113.%d", i)
		if get(h, "10.0.0.1:5000", map[string]string{"X-Forwarded-For": spoofed, "X-Real-IP": spoofed}) == http.StatusOK {
			passed++
		}
	}
	assert.Equal(t, 2, passed)
}

func TestRateLimit_EvictsOldestClientOnly(t *testing.T) {
	cache := newLimiterCache(0.0001, 1, 2)
	h := rateLimit(cache, NewIPResolver(nil, zap.NewNop()), zap.NewNop())(okHandler)

	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:1", nil))
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.2:1", nil))
	assert.Equal(t, http.StatusTooManyRequests, get(h, "10.0.0.2:1", nil))

	// A third client evicts 10.0.0.1, the least recently seen
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.3:1", nil))
	assert.Len(t, cache.limiters, 2)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "10.0.0.2:1", nil), "surviving client keeps its bucket")
}

func TestIPResolver(t *testing.T) {
	res := NewIPResolver([]string{"10.0.0.0/8", "192.168.1.10", "garbage"}, zap.NewNop())

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"untrusted peer", "198.51.100.7:4000", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "198.51.100.7"},
		{"trusted peer, no headers", "10.1.2.3:4000", nil, "10.1.2.3"},
		{"trusted peer, forwarded", "10.1.2.3:4000", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "1.2.3.4"},
		{"skips trusted hops", "192.168.1.10:80", map[string]string{"X-Forwarded-For": "9.9.9.9, 5.6.7.8, 10.0.0.5"}, "5.6.7.8"},
		{"real ip fallback", "10.1.2.3:4000", map[string]string{"X-Real-IP": "5.6.7.8"}, "5.6.7.8"},
		{"malformed forwarded", "10.1.2.3:4000", map[string]string{"X-Forwarded-For": "not-an-ip"}, "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, res.ClientIP(req))
		})
	}
}

func TestRateLimit_DisabledWithZeroRate(t *testing.T) {
	h := RateLimit(0, 0, NewIPResolver(nil, zap.NewNop()), zap.NewNop())(okHandler)
	for i := 0; i < 100; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://shop.example.com"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, rec.Code)
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"An error occurred","error":"An unexpected error occurred. Please try again later."}`, rec.Body.String())
}
