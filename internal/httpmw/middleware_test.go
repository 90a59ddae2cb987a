package httpmw

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "h") }), mw("a"), mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "h"}, order)
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		keep   string
	}{
		{name: "caller id is kept", header: "board-7f3a", keep: "board-7f3a"},
		{name: "caller id is trimmed", header: "  board-7f3a ", keep: "board-7f3a"},
		{name: "missing id is generated"},
		{name: "overlong id is replaced", header: strings.Repeat("x", maxRequestIDLen+1)},
		{name: "control characters are replaced", header: "board\x00id"},
		{name: "non-ascii id is replaced", header: "tâche-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/board/state", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}
			h.ServeHTTP(rec, req)

			assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))
			if tt.keep != "" {
				assert.Equal(t, tt.keep, seen)
				return
			}
			_, err := uuid.Parse(seen)
			assert.NoError(t, err, "generated id %q", seen)
		})
	}
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	ctx := ContextWithRequestID(context.Background(), "board-1")
	assert.Equal(t, "board-1", RequestIDFromContext(ctx))
	assert.Equal(t, "board-1", ctx.Value(requestIDKey))
	assert.Nil(t, ctx.Value("taskboard.request_id"), "plain string keys do not collide")
}

func TestWithAccessLog_CarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}),
		WithRequestID, WithAccessLog(jsonLogger(&buf)))

	req := httptest.NewRequest(http.MethodGet, "/api/board/state", nil)
	req.Header.Set(HeaderRequestID, "board-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	recs := records(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "board-42", recs[0]["request_id"])
	assert.Equal(t, float64(http.StatusOK), recs[0]["status"])
}

func TestStatusWriter_KeepsFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}
	sw.WriteHeader(http.StatusCreated)
	sw.WriteHeader(http.StatusInternalServerError)
	_, _ = sw.Write([]byte("ok"))

	assert.Equal(t, http.StatusCreated, sw.status)
	assert.Equal(t, 2, sw.bytes)
	assert.Same(t, rec, sw.Unwrap())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		realIP string
		remote string
		want   string
	}{
		{name: "forwarded first hop", xff: "10.0.0.1, 10.0.0.2", remote: "192.0.2.1:80", want: "10.0.0.1"},
		{name: "bad forwarded falls to real ip", xff: "unknown", realIP: "10.0.0.9", remote: "192.0.2.1:80", want: "10.0.0.9"},
		{name: "remote addr", remote: "192.0.2.1:80", want: "192.0.2.1"},
		{name: "ipv6 remote addr", remote: "[::1]:80", want: "::1"},
		{name: "unparsable remote addr", remote: "pipe", want: "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-Ip", tt.realIP)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}

func TestWithRecover(t *testing.T) {
	var buf bytes.Buffer
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
		WithRequestID, WithRecover(jsonLogger(&buf)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/board/state", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())

	recs := records(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "panic_recovered", recs[0]["msg"])
	assert.Equal(t, "boom", recs[0]["panic"])
	assert.NotEmpty(t, recs[0]["request_id"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestWithAccessLog(t *testing.T) {
	var buf bytes.Buffer
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}), WithAccessLog(jsonLogger(&buf)))

	req := httptest.NewRequest(http.MethodPost, "/api/board/cmd", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	h.ServeHTTP(httptest.NewRecorder(), req)

	recs := records(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "http_request", recs[0]["msg"])
	assert.Equal(t, "POST", recs[0]["method"])
	assert.Equal(t, float64(http.StatusTeapot), recs[0]["status"])
	assert.Equal(t, float64(len("short and stout")), recs[0]["bytes"])
	assert.Equal(t, "10.0.0.1", recs[0]["remote_ip"])
}
