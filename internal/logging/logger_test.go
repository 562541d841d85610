package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNew_Format(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "json").Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	New(&buf, "info", "text").Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	New(&buf, "warn", "text").Info("dropped")
	assert.Empty(t, buf.String())
}

func TestFromContext_StoredLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(context.Background(), New(&buf, "debug", "text"))

	WithFields(ctx, "file", "a.csv").Debug("stage")

	assert.Contains(t, buf.String(), "file=a.csv")
	assert.Contains(t, buf.String(), "msg=stage")
}

func TestFromContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "text")

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(NewContext(r.Context(), logger)).Info("handled")
	})
	handler = middleware.RequestID(handler)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), "request_id=")
}
