package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	chiMid "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"anhdu.dev/wyd-web/internal/i18n"
	"anhdu.dev/wyd-web/internal/observability"
)

func loadBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	b, err := i18n.Load("../../locales", "vi", []string{"vi", "en"})
	require.NoError(t, err)
	return b
}

func TestLocaleResolution(t *testing.T) {
	t.Parallel()

	var got string
	h := Locale(loadBundle(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Lang(r)
	}))

	tests := []struct {
		name       string
		target     string
		cookie     string
		accept     string
		want       string
		wantCookie bool
	}{
		{name: "default", target: "/", want: "vi"},
		{name: "accept language", target: "/", accept: "en-GB,en;q=0.8", want: "en"},
		{name: "cookie beats header", target: "/", cookie: "vi", accept: "en", want: "vi"},
		{name: "query beats cookie", target: "/?hl=en", cookie: "vi", want: "en", wantCookie: true},
		{name: "unsupported query ignored", target: "/?hl=ja", accept: "en", want: "en"},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, tc.target, nil)
		if tc.cookie != "" {
			req.AddCookie(&http.Cookie{Name: "hl", Value: tc.cookie})
		}
		if tc.accept != "" {
			req.Header.Set("Accept-Language", tc.accept)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, tc.want, got, tc.name)
		require.Equal(t, tc.want, rec.Header().Get("Content-Language"), tc.name)
		require.Equal(t, tc.wantCookie, len(rec.Result().Cookies()) > 0, tc.name)
	}
}

func TestLangDefault(t *testing.T) {
	t.Parallel()
	require.Equal(t, "vi", Lang(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestHTMXMarksContext(t *testing.T) {
	t.Parallel()

	var is bool
	h := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { is = IsHTMX(r.Context()) }))

	req := httptest.NewRequest(http.MethodGet, "/gallery", nil)
	req.Header.Set("HX-Request", "true")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, is)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/gallery", nil))
	require.False(t, is)
}

func TestLoggerEmitsOneEntry(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	var fromCtx *zap.Logger
	h := chiMid.RequestID(Logger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = observability.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 203.0.113.7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, fromCtx)
	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	require.Equal(t, zapcore.WarnLevel, e.Level)
	fields := e.ContextMap()
	require.Equal(t, "/about", fields["path"])
	require.EqualValues(t, http.StatusTeapot, fields["status"])
	require.EqualValues(t, 5, fields["bytes"])
	require.Equal(t, "203.0.113.7", fields["remote_ip"])
	require.NotEmpty(t, fields["request_id"])
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	rl := NewRateLimiter(ctx, 0.001, 2, time.Hour, time.Hour)
	rl.SetMessage(func(*http.Request) string { return "chậm lại" })
	t.Cleanup(rl.Shutdown)

	h := HTMX(rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/gallery", nil)
		req.RemoteAddr = ip + ":1234"
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, do("192.0.2.1").Code)
	require.Equal(t, http.StatusNoContent, do("192.0.2.1").Code)
	rec := do("192.0.2.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "chậm lại", body.Error)

	require.Equal(t, http.StatusNoContent, do("192.0.2.2").Code, "limits are per client")
	require.Equal(t, 2, rl.Len())
}

func TestRateLimiterKeysOnConnectionPeer(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(context.Background(), 1, 1, time.Hour, time.Hour)
	t.Cleanup(rl.Shutdown)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	allowed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/gallery", nil)
		req.RemoteAddr = "198.51.100.9:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("192.0.2.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusNoContent {
			allowed++
		} else {
			require.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}
	require.Equal(t, 1, allowed)
	require.Equal(t, 1, rl.Len())
}

func TestRateLimiterBehindTrustedProxy(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(context.Background(), 1, 1, time.Hour, time.Hour)
	t.Cleanup(rl.Shutdown)
	h := chiMid.RealIP(rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	do := func(xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/menu", nil)
		req.RemoteAddr = "10.0.0.2:5000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusNoContent, do("203.0.113.7"))
	require.Equal(t, http.StatusTooManyRequests, do("203.0.113.7"))
	require.Equal(t, http.StatusNoContent, do("203.0.113.8"), "each forwarded client has its own bucket")
	require.Equal(t, 2, rl.Len())
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(context.Background(), 1, 1, time.Hour, time.Minute)
	t.Cleanup(rl.Shutdown)
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.visitor("a")
	now = now.Add(2 * time.Minute)
	rl.visitor("b")
	rl.cleanup()
	require.Equal(t, 1, rl.Len())
}

func TestAssetsWithCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{}"), 0o644))

	h := AssetsWithCache("/assets", dir)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "body{}", rec.Body.String())
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	require.Contains(t, rec.Header().Get("Cache-Control"), "max-age")

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
