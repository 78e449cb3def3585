package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name           string
		checks         map[string]Check
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:           "без проверок",
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"status":"ok"`},
		},
		{
			name:           "все зависимости доступны",
			checks:         map[string]Check{"postgres": ok, "redis": ok},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"postgres":"up"`, `"redis":"up"`},
		},
		{
			name:           "redis недоступен",
			checks:         map[string]Check{"postgres": ok, "redis": down},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   []string{`"status":"degraded"`, `"redis":"down"`, `"postgres":"up"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			New(logger, tt.checks).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, part := range tt.expectedBody {
				assert.Contains(t, w.Body.String(), part)
			}
		})
	}
}
