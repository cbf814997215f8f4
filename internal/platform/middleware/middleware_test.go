package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medilog/medilog/internal/platform/auth"
)

func TestRequestID_Generated(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		if c.Get("request_id") == "" {
			t.Error("request_id not set on context")
		}
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("response missing request id header")
	}
}

func TestRequestID_PreservesClientID(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get(RequestIDHeader); got != "client-supplied-id" {
		t.Errorf("request id = %q, want client-supplied-id", got)
	}
}

func TestLogger_LevelsByStatus(t *testing.T) {
	e := echo.New()

	cases := []struct {
		name    string
		handler echo.HandlerFunc
		level   string
	}{
		{"ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") }, `"level":"info"`},
		{"client error", func(c echo.Context) error {
			return echo.NewHTTPError(http.StatusNotFound, "missing")
		}, `"level":"warn"`},
		{"server error", func(c echo.Context) error {
			return echo.NewHTTPError(http.StatusInternalServerError, errors.New("boom"))
		}, `"level":"error"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := Logger(zerolog.New(&buf))(tc.handler)

			req := httptest.NewRequest(http.MethodGet, "/api/visits", nil)
			rec := httptest.NewRecorder()
			_ = handler(e.NewContext(req, rec))

			line := buf.String()
			if !strings.Contains(line, tc.level) {
				t.Errorf("log line missing %s: %s", tc.level, line)
			}
			if !strings.Contains(line, `"path":"/api/visits"`) {
				t.Errorf("log line missing path: %s", line)
			}
		})
	}
}

func TestLogger_IncludesUserID(t *testing.T) {
	e := echo.New()
	var buf bytes.Buffer
	handler := Logger(zerolog.New(&buf))(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, "u1"))
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"user_id":"u1"`) {
		t.Errorf("log line missing user id: %s", buf.String())
	}
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	e := echo.New()
	var buf bytes.Buffer
	handler := Recovery(zerolog.New(&buf))(func(c echo.Context) error {
		panic("handler exploded")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/visits", nil)
	rec := httptest.NewRecorder()
	err := handler(e.NewContext(req, rec))

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T (%v)", err, err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", httpErr.Code)
	}
	line := buf.String()
	if !strings.Contains(line, "handler exploded") || !strings.Contains(line, `"path":"/api/visits"`) {
		t.Errorf("panic log missing detail: %s", line)
	}
}

func TestRateLimit_WithinBurst(t *testing.T) {
	e := echo.New()
	handler := RateLimit(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		if err := handler(e.NewContext(req, rec)); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i+1, err)
		}
	}
}

func TestRateLimit_ExceedsBurst(t *testing.T) {
	e := echo.New()
	handler := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		if err := handler(e.NewContext(req, rec)); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i+1, err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	err := handler(e.NewContext(req, rec))
	if err == nil {
		t.Fatal("expected error for rate-limited request")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", httpErr.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}
