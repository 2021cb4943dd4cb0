package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders(t *testing.T) {
	handler := Security(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Content-Security-Policy", "default-src 'none'"},
		{"Referrer-Policy", "no-referrer"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := w.Header().Get(tt.header); got != tt.want {
				t.Errorf("%s header = %s, want %s", tt.header, got, tt.want)
			}
		})
	}
}

func TestRateLimit_Basic(t *testing.T) {
	handler := RateLimit(2, 2)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.1:1234"

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Request %d should pass, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Third request should be rate limited, got %d", w.Code)
	}
}

func TestRateLimit_PerIP(t *testing.T) {
	handler := RateLimit(1, 1)(okHandler())

	for _, addr := range []string{"192.168.1.1:1234", "192.168.1.2:1234"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("First request from %s should pass, got %d", addr, w.Code)
		}
	}
}

func TestRateLimit_Refill(t *testing.T) {
	handler := RateLimit(5, 1)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.1:1234"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("First request should pass, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Second request should be rate limited, got %d", w.Code)
	}

	time.Sleep(250 * time.Millisecond)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Request after refill should pass, got %d", w.Code)
	}
}

func TestConcurrencyLimit(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	handler := ConcurrencyLimit(2)(slow)

	var success, rejected int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
			switch w.Code {
			case http.StatusOK:
				atomic.AddInt32(&success, 1)
			case http.StatusServiceUnavailable:
				atomic.AddInt32(&rejected, 1)
			}
		}()
	}
	wg.Wait()

	if success > 2 {
		t.Errorf("Expected at most 2 successful requests, got %d", success)
	}
	if rejected < 3 {
		t.Errorf("Expected at least 3 rejected requests, got %d", rejected)
	}
}

func TestConcurrencyLimit_Sequential(t *testing.T) {
	handler := ConcurrencyLimit(2)(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Sequential request %d should pass, got %d", i, w.Code)
		}
	}
}

func TestRecovery(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := Recovery(panicky)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500 after panic, got %d", w.Code)
	}
}

func TestLogger_PassesThrough(t *testing.T) {
	handler := Logger(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestGetIPPrefix(t *testing.T) {
	tests := []struct {
		ip   string
		want string
	}{
		{"192.168.1.1:1234", "192.0.0.0"},
		{"10.0.0.1", "10.0.0.0"},
		{"[::1]:80", "[:"},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := getIPPrefix(tt.ip); got != tt.want {
				t.Errorf("getIPPrefix(%q) = %q, want %q", tt.ip, got, tt.want)
			}
		})
	}
}
