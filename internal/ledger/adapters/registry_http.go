package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	id "propledger/pkg/domain"
	"propledger/pkg/platform/circuit"
	"propledger/pkg/platform/sentinel"
	"propledger/pkg/requestcontext"
)

const defaultRemoteTimeout = 2 * time.Second

// RemoteRegistry queries a registry served over HTTP. A circuit breaker stops
// calls after repeated failures; while it is open every query fails fast with
// sentinel.ErrUnavailable.
type RemoteRegistry struct {
	baseURL *url.URL
	client  *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type RemoteOption func(*RemoteRegistry)

func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *RemoteRegistry) {
		r.client = c
	}
}

func WithBreaker(b *circuit.Breaker) RemoteOption {
	return func(r *RemoteRegistry) {
		r.breaker = b
	}
}

func WithLogger(logger *slog.Logger) RemoteOption {
	return func(r *RemoteRegistry) {
		r.logger = logger
	}
}

func NewRemoteRegistry(baseURL string, opts ...RemoteOption) (*RemoteRegistry, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid registry url %q", baseURL)
	}
	r := &RemoteRegistry{
		baseURL: u,
		client:  &http.Client{Timeout: defaultRemoteTimeout},
		breaker: circuit.New("registry"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type verifiedResponse struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
}

func (r *RemoteRegistry) IsVerified(ctx context.Context, addr id.Address) (bool, error) {
	if !r.breaker.Allow() {
		return false, fmt.Errorf("registry circuit open: %w", sentinel.ErrUnavailable)
	}

	verified, err := r.query(ctx, addr)
	if err != nil {
		_, change := r.breaker.RecordFailure()
		if change.Opened {
			r.logger.WarnContext(ctx, "registry circuit opened",
				"request_id", requestcontext.RequestID(ctx),
				"breaker", r.breaker.Name(),
			)
		}
		return false, err
	}
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "registry circuit closed",
			"request_id", requestcontext.RequestID(ctx),
			"breaker", r.breaker.Name(),
		)
	}
	return verified, nil
}

func (r *RemoteRegistry) query(ctx context.Context, addr id.Address) (bool, error) {
	endpoint := r.baseURL.JoinPath("registry", "investors", addr.String(), "verified")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return false, fmt.Errorf("build registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqID := requestcontext.RequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("registry returned status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}
	var body verifiedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode registry response: %w", err)
	}
	if body.Address != addr.String() {
		return false, fmt.Errorf("registry answered for %q, asked for %q", body.Address, addr)
	}
	return body.Verified, nil
}
