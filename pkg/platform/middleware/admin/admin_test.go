package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireOpsToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		expected string
		header   string
		want     int
	}{
		{"matching token", "ops-secret", "ops-secret", http.StatusNoContent},
		{"wrong token", "ops-secret", "ops-guess", http.StatusUnauthorized},
		{"missing token", "ops-secret", "", http.StatusUnauthorized},
		{"disabled when unset", "", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/ops/outbox/drain", nil)
			if tt.header != "" {
				r.Header.Set("X-Ops-Token", tt.header)
			}
			w := httptest.NewRecorder()
			RequireOpsToken(tt.expected, logger)(ok).ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
