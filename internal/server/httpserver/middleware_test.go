package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/deskshare-go/internal/core/service"
	"github.com/yndnr/deskshare-go/internal/telemetry/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// staticAuthorizer authorizes a fixed set of addresses.
type staticAuthorizer map[string]bool

func (a staticAuthorizer) IsAuthorized(address string) bool { return a[address] }

// observation is one ObserveRequest call.
type observation struct {
	method, path string
	status       int
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []observation
}

func (o *recordingObserver) ObserveRequest(method, path string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, observation{method, path, status})
}

func (o *recordingObserver) snapshot() []observation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]observation(nil), o.calls...)
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) failure {
	t.Helper()
	var body failure
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

// TestRequestID tests the RequestID middleware.
func TestRequestID(t *testing.T) {
	t.Run("generates request ID if not provided", func(t *testing.T) {
		var seen string
		handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = logger.RequestIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/status", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !strings.HasPrefix(seen, "req-") {
			t.Errorf("request ID = %q, want req- prefix", seen)
		}
		if got := rec.Header().Get(RequestIDHeader); got != seen {
			t.Errorf("response header = %q, want %q", got, seen)
		}
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		var seen string
		handler := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = logger.RequestIDFromContext(r.Context())
		}))

		req := httptest.NewRequest("GET", "/status", nil)
		req.Header.Set(RequestIDHeader, "custom-id-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen != "custom-id-123" {
			t.Errorf("request ID = %q, want custom-id-123", seen)
		}
	})

	t.Run("replaces oversized request ID", func(t *testing.T) {
		var seen string
		handler := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = logger.RequestIDFromContext(r.Context())
		}))

		req := httptest.NewRequest("GET", "/status", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if !strings.HasPrefix(seen, "req-") {
			t.Errorf("request ID = %q, want generated", seen)
		}
	})
}

// TestChain tests the middleware chaining.
func TestChain(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+"-before")
				next.ServeHTTP(w, r)
				order = append(order, name+"-after")
			})
		}
	}

	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
	}), mw("first"), mw("second"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	want := []string{"first-before", "second-before", "handler", "second-after", "first-after"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestRequireSession(t *testing.T) {
	gate := staticAuthorizer{"10.0.0.5": true}
	log := slog.New(slog.DiscardHandler)

	called := false
	handler := RequireSession(gate, ClientIP(false), log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("rejects unknown address", func(t *testing.T) {
		called = false
		req := httptest.NewRequest("POST", "/click", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if called {
			t.Error("next handler ran for unauthorized address")
		}
		body := decodeFailure(t, rec)
		if body.Success || body.Error != "Session active by another user or unauthorized IP" {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("passes session address", func(t *testing.T) {
		called = false
		req := httptest.NewRequest("POST", "/click", nil)
		req.RemoteAddr = "10.0.0.5:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || !called {
			t.Errorf("status = %d, called = %v", rec.Code, called)
		}
	})

	t.Run("ignores forwarded header when untrusted", func(t *testing.T) {
		called = false
		req := httptest.NewRequest("POST", "/click", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		req.Header.Set("X-Forwarded-For", "10.0.0.5")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized || called {
			t.Errorf("status = %d, called = %v", rec.Code, called)
		}
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("limits requests from same IP", func(t *testing.T) {
		handler := RateLimit(service.NewRateLimiterRegistry(2), ClientIP(false))(okHandler())

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("GET", "/status", nil)
			req.RemoteAddr = "10.0.0.99:12345"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("request %d: status = %d, want 200", i+1, rec.Code)
			}
		}

		req := httptest.NewRequest("GET", "/status", nil)
		req.RemoteAddr = "10.0.0.99:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("status = %d, want 429", rec.Code)
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Error("missing Retry-After header")
		}
		if body := decodeFailure(t, rec); body.Success || body.Error != "too many requests" {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("different IPs have separate limits", func(t *testing.T) {
		handler := RateLimit(service.NewRateLimiterRegistry(1), ClientIP(false))(okHandler())

		for _, addr := range []string{"192.168.100.1:1", "192.168.100.2:1"} {
			req := httptest.NewRequest("GET", "/status", nil)
			req.RemoteAddr = addr
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("%s: status = %d, want 200", addr, rec.Code)
			}
		}
	})

	t.Run("tokens refill over time", func(t *testing.T) {
		handler := RateLimit(service.NewRateLimiterRegistry(10), ClientIP(false))(okHandler())
		send := func() int {
			req := httptest.NewRequest("GET", "/status", nil)
			req.RemoteAddr = "10.0.0.88:12345"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			return rec.Code
		}

		for i := 0; i < 10; i++ {
			send()
		}
		if code := send(); code != http.StatusTooManyRequests {
			t.Fatalf("status = %d, want 429", code)
		}

		time.Sleep(200 * time.Millisecond)

		if code := send(); code != http.StatusOK {
			t.Errorf("after refill: status = %d, want 200", code)
		}
	})
}

func TestRateLimitConcurrency(t *testing.T) {
	handler := RateLimit(service.NewRateLimiterRegistry(5), ClientIP(false))(okHandler())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest("GET", "/status", nil)
			req.RemoteAddr = "10.1.1.1:5000"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code == http.StatusOK {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Burst is 5; a refill during the run may admit one more.
	if allowed < 5 || allowed > 6 {
		t.Errorf("allowed = %d, want 5 or 6", allowed)
	}
}

// TestRecover tests the Recover middleware.
func TestRecover(t *testing.T) {
	log := slog.New(slog.DiscardHandler)

	t.Run("recovers from panic", func(t *testing.T) {
		handler := Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("test panic")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/click", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
		if body := decodeFailure(t, rec); body.Success || body.Error != "internal server error" {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("passes through normal requests", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Recover(log)(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

// TestCORS tests the CORS middleware.
func TestCORS(t *testing.T) {
	t.Run("adds CORS headers for allowed origin", func(t *testing.T) {
		handler := CORS([]string{"https://viewer.example"})(okHandler())

		req := httptest.NewRequest("GET", "/status", nil)
		req.Header.Set("Origin", "https://viewer.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://viewer.example" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})

	t.Run("omits headers for other origins", func(t *testing.T) {
		handler := CORS([]string{"https://viewer.example"})(okHandler())

		req := httptest.NewRequest("GET", "/status", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("answers preflight", func(t *testing.T) {
		called := false
		handler := CORS([]string{"*"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))

		req := httptest.NewRequest("OPTIONS", "/click", nil)
		req.Header.Set("Origin", "https://any.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
		if called {
			t.Error("preflight reached the handler")
		}
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", false, "192.168.1.1:12345", nil, "192.168.1.1"},
		{"ipv6 remote addr", false, "[::1]:12345", nil, "::1"},
		{"remote addr without port", false, "192.168.1.1", nil, "192.168.1.1"},
		{"untrusted forwarded for", false, "192.168.1.1:1", map[string]string{"X-Forwarded-For": "10.0.0.1"}, "192.168.1.1"},
		{"trusted forwarded for", true, "192.168.1.1:1", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "10.0.0.1"},
		{"trusted real ip", true, "192.168.1.1:1", map[string]string{"X-Real-IP": "10.0.0.3"}, "10.0.0.3"},
		{"trusted without headers", true, "192.168.1.1:1", nil, "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(tt.trustProxy)(req); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAudit(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
	}{
		{"client error", http.StatusUnauthorized, "request completed with client error"},
		{"server error", http.StatusInternalServerError, "request completed with error"},
		{"success", http.StatusOK, "request completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			observer := &recordingObserver{}

			handler := Audit(log, ClientIP(false), observer)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest("POST", "/click", nil)
			req = req.WithContext(logger.WithRequestID(req.Context(), "req-audit"))
			handler.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			if !strings.Contains(out, tt.message) || !strings.Contains(out, "request_id=req-audit") {
				t.Errorf("log = %s", out)
			}

			calls := observer.snapshot()
			want := observation{"POST", "unmatched", tt.status}
			if len(calls) != 1 || calls[0] != want {
				t.Errorf("observations = %+v, want [%+v]", calls, want)
			}
		})
	}
}

// TestResponseWriter tests the responseWriter wrapper.
func TestResponseWriter(t *testing.T) {
	t.Run("captures first status code", func(t *testing.T) {
		wrapped := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

		wrapped.WriteHeader(http.StatusCreated)
		wrapped.WriteHeader(http.StatusTeapot)

		if wrapped.statusCode != http.StatusCreated {
			t.Errorf("status = %d, want 201", wrapped.statusCode)
		}
	})

	t.Run("hijack requires support", func(t *testing.T) {
		wrapped := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

		if _, _, err := wrapped.Hijack(); err == nil {
			t.Error("Hijack on a recorder should fail")
		}
	})

	t.Run("unwraps", func(t *testing.T) {
		rec := httptest.NewRecorder()
		wrapped := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

		if wrapped.Unwrap() != rec {
			t.Error("Unwrap did not return the underlying writer")
		}
	})
}
