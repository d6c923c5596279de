package metadata

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// Context keys for client metadata.
type contextKeyClientIP struct{}
type contextKeyClient struct{}

// ClientMetadata extracts the client IP and a short client description from
// the request and adds them to the context for request logs.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithClientMetadata(r.Context(), ClientIPFromRequest(r), DescribeClient(r.UserAgent()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIP retrieves the client IP address from the context.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(contextKeyClientIP{}).(string); ok {
		return ip
	}
	return ""
}

// GetClient retrieves the client description from the context.
func GetClient(ctx context.Context) string {
	if c, ok := ctx.Value(contextKeyClient{}).(string); ok {
		return c
	}
	return ""
}

// WithClientMetadata injects client IP and description into a context.
// Useful for tests that don't run the full HTTP middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, client string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIP)
	ctx = context.WithValue(ctx, contextKeyClient{}, client)
	return ctx
}

// DescribeClient condenses a User-Agent header into "browser version (os)",
// "bot name" or the raw product token for API clients.
func DescribeClient(header string) string {
	if header == "" {
		return "unknown"
	}
	ua := useragent.New(header)
	name, version := ua.Browser()
	if ua.Bot() {
		return "bot " + name
	}
	if os := ua.OS(); os != "" {
		return strings.TrimSpace(name + " " + version + " (" + os + ")")
	}
	// API clients such as curl or Go-http-client have no OS token.
	if product, _, ok := strings.Cut(header, " "); ok {
		return product
	}
	return header
}

// ClientIPFromRequest extracts the client IP, preferring proxy headers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For lists client, proxy1, proxy2, ...
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}
	return "unknown"
}
