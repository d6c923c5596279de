package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"propledger/internal/registry/models"
	id "propledger/pkg/domain"
	dErrors "propledger/pkg/domain-errors"
	"propledger/pkg/platform/httputil"
	"propledger/pkg/platform/middleware/auth"
	request "propledger/pkg/platform/middleware/request"
	"propledger/pkg/requestcontext"
)

// Service defines the registry operations exposed over HTTP.
type Service interface {
	Register(ctx context.Context, addr id.Address, level id.VerificationLevel, country uint16, validDays uint32) (*models.Investor, error)
	UpdateLevel(ctx context.Context, addr id.Address, level id.VerificationLevel) (*models.Investor, error)
	Revoke(ctx context.Context, addr id.Address) error
	IsVerified(ctx context.Context, addr id.Address) bool
	MeetsLevel(ctx context.Context, addr id.Address, required id.VerificationLevel) bool
	Investor(ctx context.Context, addr id.Address) (*models.Investor, error)
	ActiveInvestorCount(ctx context.Context) (int, error)
}

// Handler serves the registry routes. Queries are public; mutations require
// a caller token.
type Handler struct {
	logger       *slog.Logger
	registry     Service
	jwtValidator auth.JWTValidator
}

// New creates a new registry Handler.
func New(registry Service, jwtValidator auth.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:       logger,
		registry:     registry,
		jwtValidator: jwtValidator,
	}
}

// Register registers the registry routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/registry", func(r chi.Router) {
		r.Get("/investors/{address}", h.handleGetInvestor)
		r.Get("/investors/{address}/verified", h.handleIsVerified)
		r.Get("/investors/{address}/meets/{level}", h.handleMeetsLevel)
		r.Get("/stats", h.handleStats)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(h.jwtValidator, h.logger))
			r.Post("/investors", h.handleRegister)
			r.Patch("/investors/{address}", h.handleUpdateLevel)
			r.Delete("/investors/{address}", h.handleRevoke)
		})
	})
}

type registerRequest struct {
	Address   string `json:"address" validate:"required,eth_addr"`
	Level     string `json:"level" validate:"required"`
	Country   uint16 `json:"country"`
	ValidDays uint32 `json:"valid_days"`
}

type updateLevelRequest struct {
	Level string `json:"level" validate:"required"`
}

type investorResponse struct {
	Address      string    `json:"address"`
	Checksum     string    `json:"checksum_address"`
	Level        string    `json:"level"`
	Country      uint16    `json:"country"`
	ExpiresAt    time.Time `json:"expires_at"`
	Active       bool      `json:"active"`
	Verified     bool      `json:"verified"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type verifiedResponse struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
}

type meetsLevelResponse struct {
	Address string `json:"address"`
	Level   string `json:"level"`
	Meets   bool   `json:"meets"`
}

type statsResponse struct {
	ActiveInvestors int `json:"active_investors"`
}

func toInvestorResponse(inv *models.Investor, now time.Time) investorResponse {
	return investorResponse{
		Address:      inv.Address.String(),
		Checksum:     inv.Address.Checksum(),
		Level:        inv.Level.String(),
		Country:      inv.Country,
		ExpiresAt:    inv.ExpiresAt,
		Active:       inv.Active,
		Verified:     inv.IsVerified(now),
		RegisteredAt: inv.RegisteredAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req registerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.warn(ctx, "invalid register request", err)
		httputil.WriteError(w, err)
		return
	}
	addr, err := id.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	level, err := id.ParseVerificationLevel(req.Level)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	inv, err := h.registry.Register(ctx, addr, level, req.Country, req.ValidDays)
	if err != nil {
		h.writeServiceError(w, r, "failed to register investor", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toInvestorResponse(inv, requestcontext.Now(ctx)))
}

func (h *Handler) handleUpdateLevel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	var req updateLevelRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.warn(ctx, "invalid update level request", err)
		httputil.WriteError(w, err)
		return
	}
	level, err := id.ParseVerificationLevel(req.Level)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	inv, err := h.registry.UpdateLevel(ctx, addr, level)
	if err != nil {
		h.writeServiceError(w, r, "failed to update investor level", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toInvestorResponse(inv, requestcontext.Now(ctx)))
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	if err := h.registry.Revoke(r.Context(), addr); err != nil {
		h.writeServiceError(w, r, "failed to revoke investor", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetInvestor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	inv, err := h.registry.Investor(ctx, addr)
	if err != nil {
		h.writeServiceError(w, r, "failed to load investor", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toInvestorResponse(inv, requestcontext.Now(ctx)))
}

func (h *Handler) handleIsVerified(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, verifiedResponse{
		Address:  addr.String(),
		Verified: h.registry.IsVerified(r.Context(), addr),
	})
}

func (h *Handler) handleMeetsLevel(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.addressParam(w, r, "address")
	if !ok {
		return
	}
	level, err := id.ParseVerificationLevel(chi.URLParam(r, "level"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, meetsLevelResponse{
		Address: addr.String(),
		Level:   level.String(),
		Meets:   h.registry.MeetsLevel(r.Context(), addr, level),
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	n, err := h.registry.ActiveInvestorCount(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "failed to count investors", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statsResponse{ActiveInvestors: n})
}

func (h *Handler) addressParam(w http.ResponseWriter, r *http.Request, name string) (id.Address, bool) {
	addr, err := id.ParseAddress(chi.URLParam(r, name))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return addr, true
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", request.GetRequestID(ctx),
		"error", err.Error(),
	)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", request.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
