package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	id "propledger/pkg/domain"
	"propledger/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return v.claims, v.err
}

func serve(v JWTValidator, header string) (*httptest.ResponseRecorder, id.Address) {
	var caller id.Address
	h := RequireAuth(v, slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller = requestcontext.Caller(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w, caller
}

func TestRequireAuth(t *testing.T) {
	t.Run("sets the caller from the subject", func(t *testing.T) {
		w, caller := serve(stubValidator{claims: &JWTClaims{Subject: "0x00000000000000000000000000000000000000A1"}}, "Bearer tok")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, id.Address("0x00000000000000000000000000000000000000a1"), caller)
	})

	t.Run("missing header", func(t *testing.T) {
		w, _ := serve(stubValidator{}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w, _ := serve(stubValidator{err: errors.New("expired")}, "Bearer tok")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("subject is not an address", func(t *testing.T) {
		w, _ := serve(stubValidator{claims: &JWTClaims{Subject: "user-123"}}, "Bearer tok")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("subject is the null address", func(t *testing.T) {
		w, _ := serve(stubValidator{claims: &JWTClaims{Subject: string(id.NilAddress)}}, "Bearer tok")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
