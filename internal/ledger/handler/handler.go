package handler

import (
	"context"
	"log/slog"
	"math/big"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"propledger/internal/compliance"
	"propledger/internal/ledger/models"
	id "propledger/pkg/domain"
	dErrors "propledger/pkg/domain-errors"
	"propledger/pkg/platform/httputil"
	"propledger/pkg/platform/middleware/auth"
	request "propledger/pkg/platform/middleware/request"
	"propledger/pkg/requestcontext"
)

// Service defines the ledger operations exposed over HTTP.
type Service interface {
	Transfer(ctx context.Context, to id.Address, amount uint64) error
	Approve(ctx context.Context, spender id.Address, amount uint64) error
	TransferFrom(ctx context.Context, from, to id.Address, amount uint64) error
	ForceTransfer(ctx context.Context, from, to id.Address, amount uint64) error
	FreezeAccount(ctx context.Context, addr id.Address, reason string) error
	UnfreezeAccount(ctx context.Context, addr id.Address) error
	SetInvestmentLimits(ctx context.Context, minInvestment, maxInvestment uint64) error
	SetLegalDocument(ctx context.Context, ref string) error
	CanTransfer(ctx context.Context, from, to id.Address, amount uint64) compliance.Decision
	GetOwnershipPercent(addr id.Address) uint64
	GetUnitValue() uint64
	BalanceOf(addr id.Address) uint64
	Allowance(owner, spender id.Address) uint64
	TotalSupply() uint64
	IsFrozen(addr id.Address) bool
	InvestmentLimits() models.Limits
	Asset() models.Asset
	Token() models.Token
	Holders() []id.Address
}

// Handler serves the ledger routes. Reads are public; every mutation runs as
// the caller named by the bearer token.
type Handler struct {
	logger       *slog.Logger
	ledger       Service
	jwtValidator auth.JWTValidator
}

// New creates a new ledger Handler.
func New(ledger Service, jwtValidator auth.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:       logger,
		ledger:       ledger,
		jwtValidator: jwtValidator,
	}
}

// Register registers the ledger routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/ledger", func(r chi.Router) {
		r.Get("/transfers/check", h.handleCheckTransfer)
		r.Get("/accounts/{address}", h.handleGetAccount)
		r.Get("/allowances/{owner}/{spender}", h.handleGetAllowance)
		r.Get("/asset", h.handleGetAsset)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(h.jwtValidator, h.logger))
			r.Post("/transfers", h.handleTransfer)
			r.Post("/transfers/delegated", h.handleTransferFrom)
			r.Post("/transfers/forced", h.handleForceTransfer)
			r.Post("/approvals", h.handleApprove)
			r.Post("/freezes", h.handleFreeze)
			r.Delete("/freezes/{address}", h.handleUnfreeze)
			r.Put("/limits", h.handleSetLimits)
			r.Put("/asset/document", h.handleSetDocument)
		})
	})
}

type transferRequest struct {
	To     string `json:"to" validate:"required,eth_addr"`
	Amount uint64 `json:"amount"`
}

type delegatedTransferRequest struct {
	From   string `json:"from" validate:"required,eth_addr"`
	To     string `json:"to" validate:"required,eth_addr"`
	Amount uint64 `json:"amount"`
}

type approveRequest struct {
	Spender string `json:"spender" validate:"required,eth_addr"`
	Amount  uint64 `json:"amount"`
}

type freezeRequest struct {
	Address string `json:"address" validate:"required,eth_addr"`
	Reason  string `json:"reason" validate:"max=512"`
}

type limitsRequest struct {
	Min uint64 `json:"min"`
	Max uint64 `json:"max" validate:"gt=0"`
}

type documentRequest struct {
	Reference string `json:"reference" validate:"required,max=2048"`
}

type transferResponse struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      uint64 `json:"amount"`
	FromBalance uint64 `json:"from_balance"`
	ToBalance   uint64 `json:"to_balance"`
}

type checkResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type accountResponse struct {
	Address          string `json:"address"`
	Checksum         string `json:"checksum_address"`
	Balance          uint64 `json:"balance"`
	DisplayBalance   string `json:"display_balance"`
	Frozen           bool   `json:"frozen"`
	OwnershipBps     uint64 `json:"ownership_bps"`
	OwnershipPercent string `json:"ownership_percent"`
}

type allowanceResponse struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  uint64 `json:"amount"`
}

type assetResponse struct {
	Token       models.Token  `json:"token"`
	Asset       models.Asset  `json:"asset"`
	Limits      models.Limits `json:"limits"`
	TotalSupply uint64        `json:"total_supply"`
	UnitValue   uint64        `json:"unit_value"`
	Holders     int           `json:"holders"`
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req transferRequest
	if !h.decode(w, r, &req) {
		return
	}
	to := id.MustParseAddress(req.To)
	if err := h.ledger.Transfer(ctx, to, req.Amount); err != nil {
		h.writeServiceError(w, r, "transfer failed", err)
		return
	}
	from := requestcontext.Caller(ctx)
	httputil.WriteJSON(w, http.StatusOK, h.transferResult(from, to, req.Amount))
}

func (h *Handler) handleTransferFrom(w http.ResponseWriter, r *http.Request) {
	var req delegatedTransferRequest
	if !h.decode(w, r, &req) {
		return
	}
	from, to := id.MustParseAddress(req.From), id.MustParseAddress(req.To)
	if err := h.ledger.TransferFrom(r.Context(), from, to, req.Amount); err != nil {
		h.writeServiceError(w, r, "delegated transfer failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.transferResult(from, to, req.Amount))
}

func (h *Handler) handleForceTransfer(w http.ResponseWriter, r *http.Request) {
	var req delegatedTransferRequest
	if !h.decode(w, r, &req) {
		return
	}
	from, to := id.MustParseAddress(req.From), id.MustParseAddress(req.To)
	if err := h.ledger.ForceTransfer(r.Context(), from, to, req.Amount); err != nil {
		h.writeServiceError(w, r, "forced transfer failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.transferResult(from, to, req.Amount))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req approveRequest
	if !h.decode(w, r, &req) {
		return
	}
	spender := id.MustParseAddress(req.Spender)
	if err := h.ledger.Approve(ctx, spender, req.Amount); err != nil {
		h.writeServiceError(w, r, "approve failed", err)
		return
	}
	owner := requestcontext.Caller(ctx)
	httputil.WriteJSON(w, http.StatusOK, allowanceResponse{
		Owner:   owner.String(),
		Spender: spender.String(),
		Amount:  h.ledger.Allowance(owner, spender),
	})
}

func (h *Handler) handleFreeze(w http.ResponseWriter, r *http.Request) {
	var req freezeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.ledger.FreezeAccount(r.Context(), id.MustParseAddress(req.Address), req.Reason); err != nil {
		h.writeServiceError(w, r, "freeze failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUnfreeze(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	if err := h.ledger.UnfreezeAccount(r.Context(), addr); err != nil {
		h.writeServiceError(w, r, "unfreeze failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetLimits(w http.ResponseWriter, r *http.Request) {
	var req limitsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.ledger.SetInvestmentLimits(r.Context(), req.Min, req.Max); err != nil {
		h.writeServiceError(w, r, "set limits failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.ledger.InvestmentLimits())
}

func (h *Handler) handleSetDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.ledger.SetLegalDocument(r.Context(), req.Reference); err != nil {
		h.writeServiceError(w, r, "set legal document failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCheckTransfer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := id.ParseAddress(q.Get("from"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	to, err := id.ParseAddress(q.Get("to"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	amount, err := strconv.ParseUint(q.Get("amount"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "amount must be a non-negative integer"))
		return
	}

	d := h.ledger.CanTransfer(r.Context(), from, to, amount)
	httputil.WriteJSON(w, http.StatusOK, checkResponse{
		Allowed: d.Allowed,
		Reason:  string(d.Reason),
		Message: d.Reason.Message(),
	})
}

func (h *Handler) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, r, "address")
	if !ok {
		return
	}
	balance := h.ledger.BalanceOf(addr)
	bps := h.ledger.GetOwnershipPercent(addr)
	httputil.WriteJSON(w, http.StatusOK, accountResponse{
		Address:          addr.String(),
		Checksum:         addr.Checksum(),
		Balance:          balance,
		DisplayBalance:   displayUnits(balance, h.ledger.Token().Decimals),
		Frozen:           h.ledger.IsFrozen(addr),
		OwnershipBps:     bps,
		OwnershipPercent: displayUnits(bps, 2),
	})
}

func (h *Handler) handleGetAllowance(w http.ResponseWriter, r *http.Request) {
	owner, ok := addressParam(w, r, "owner")
	if !ok {
		return
	}
	spender, ok := addressParam(w, r, "spender")
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, allowanceResponse{
		Owner:   owner.String(),
		Spender: spender.String(),
		Amount:  h.ledger.Allowance(owner, spender),
	})
}

func (h *Handler) handleGetAsset(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, assetResponse{
		Token:       h.ledger.Token(),
		Asset:       h.ledger.Asset(),
		Limits:      h.ledger.InvestmentLimits(),
		TotalSupply: h.ledger.TotalSupply(),
		UnitValue:   h.ledger.GetUnitValue(),
		Holders:     len(h.ledger.Holders()),
	})
}

func (h *Handler) transferResult(from, to id.Address, amount uint64) transferResponse {
	return transferResponse{
		From:        from.String(),
		To:          to.String(),
		Amount:      amount,
		FromBalance: h.ledger.BalanceOf(from),
		ToBalance:   h.ledger.BalanceOf(to),
	}
}

// decode reads and validates the body; address fields are validated by tag,
// so MustParseAddress on them afterwards cannot panic.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		ctx := r.Context()
		h.logger.WarnContext(ctx, "invalid ledger request",
			"request_id", request.GetRequestID(ctx),
			"path", r.URL.Path,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return false
	}
	return true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", request.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	reason, ok := compliance.ReasonOf(err)
	if !ok {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error":             string(code),
		"error_description": reason.Message(),
		"reason":            string(reason),
	})
}

func addressParam(w http.ResponseWriter, r *http.Request, name string) (id.Address, bool) {
	addr, err := id.ParseAddress(chi.URLParam(r, name))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return addr, true
}

// displayUnits renders v with the given number of implied decimal places.
func displayUnits(v uint64, decimals uint8) string {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(v), -int32(decimals))
	return d.StringFixed(int32(decimals))
}
