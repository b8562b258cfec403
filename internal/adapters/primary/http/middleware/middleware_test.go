package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lorrc/task-analytics/internal/adapters/primary/http/middleware"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/overview", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/overview", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(middleware.RequestIDHeader))
	})
}

func TestFetchRequest(t *testing.T) {
	var fetch bool
	h := middleware.FetchRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetch = middleware.IsFetch(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/outstanding?ajaxSection=criticalTasks", nil)
	req.Header.Set(middleware.RequestedWithHeader, middleware.RequestedWithFetch)
	req.Header.Set(middleware.RequestSeqHeader, "7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, fetch)
	assert.Equal(t, "7", rec.Header().Get(middleware.RequestSeqHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/outstanding", nil))

	assert.False(t, fetch)
	assert.Empty(t, rec.Header().Get(middleware.RequestSeqHeader))
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := middleware.NewRateLimiter(ctx, middleware.RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 2})
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/overview", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
	assert.True(t, rl.Allow("10.0.0.3"))
}

func TestRecoveryLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := middleware.RecoveryLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/completed", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := middleware.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users?ajaxSection=assigned", nil))

	assert.Contains(t, buf.String(), `"status":404`)
	assert.Contains(t, buf.String(), `"ajax_section":"assigned"`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}
