package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	request "propledger/pkg/platform/middleware/request"
)

// RequireOpsToken guards operational endpoints with a shared X-Ops-Token.
// An empty expected token disables the endpoints entirely.
func RequireOpsToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Ops-Token")
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "ops token mismatch",
					"request_id", request.GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthenticated","error_description":"ops token required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
