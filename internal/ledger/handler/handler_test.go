package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"propledger/internal/compliance"
	"propledger/internal/ledger/handler/mocks"
	"propledger/internal/ledger/models"
	id "propledger/pkg/domain"
	dErrors "propledger/pkg/domain-errors"
	"propledger/pkg/platform/middleware/auth"
	"propledger/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/ledger-mocks.go -package=mocks Service

var (
	adminAddr = id.MustParseAddress("0x00000000000000000000000000000000000000ad")
	aliceAddr = id.MustParseAddress("0x00000000000000000000000000000000000000a1")
	bobAddr   = id.MustParseAddress("0x00000000000000000000000000000000000000b0")
)

type subjectValidator struct{}

func (subjectValidator) ValidateToken(token string) (*auth.JWTClaims, error) {
	return &auth.JWTClaims{Subject: token}, nil
}

type LedgerHandlerSuite struct {
	suite.Suite
	ledger *mocks.MockService
	router chi.Router
}

func TestLedgerHandlerSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerSuite))
}

func (s *LedgerHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.ledger = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.ledger, subjectValidator{}, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *LedgerHandlerSuite) do(method, path string, caller id.Address, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		req.Header.Set("Authorization", "Bearer "+caller.String())
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *LedgerHandlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *LedgerHandlerSuite) TestTransfer() {
	s.Run("transfers as the token subject", func() {
		s.ledger.EXPECT().Transfer(gomock.Any(), bobAddr, uint64(25)).
			DoAndReturn(func(ctx context.Context, _ id.Address, _ uint64) error {
				s.Equal(aliceAddr, requestcontext.Caller(ctx))
				return nil
			})
		s.ledger.EXPECT().BalanceOf(aliceAddr).Return(uint64(75))
		s.ledger.EXPECT().BalanceOf(bobAddr).Return(uint64(25))

		w := s.do(http.MethodPost, "/ledger/transfers", aliceAddr, map[string]any{"to": bobAddr.String(), "amount": 25})
		s.Equal(http.StatusOK, w.Code)
		resp := s.decode(w)
		s.Equal(aliceAddr.String(), resp["from"])
		s.Equal(float64(75), resp["from_balance"])
	})

	s.Run("denial carries the reason", func() {
		denied := compliance.Decision{Allowed: false, Reason: compliance.ReasonReceiverFrozen}
		s.ledger.EXPECT().Transfer(gomock.Any(), bobAddr, uint64(1)).Return(denied.Err())

		w := s.do(http.MethodPost, "/ledger/transfers", aliceAddr, map[string]any{"to": bobAddr.String(), "amount": 1})
		s.Equal(http.StatusUnprocessableEntity, w.Code)
		resp := s.decode(w)
		s.Equal("account_frozen", resp["error"])
		s.Equal("receiver_frozen", resp["reason"])
	})

	s.Run("null recipient", func() {
		s.ledger.EXPECT().Transfer(gomock.Any(), id.NilAddress, uint64(1)).
			Return(dErrors.New(dErrors.CodeInvalidRecipient, "recipient must not be the null address"))
		w := s.do(http.MethodPost, "/ledger/transfers", aliceAddr, map[string]any{"to": id.NilAddress.String(), "amount": 1})
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("invalid_recipient", s.decode(w)["error"])
	})

	s.Run("requires a token", func() {
		w := s.do(http.MethodPost, "/ledger/transfers", "", map[string]any{"to": bobAddr.String(), "amount": 1})
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("rejects a malformed recipient", func() {
		w := s.do(http.MethodPost, "/ledger/transfers", aliceAddr, map[string]any{"to": "bob", "amount": 1})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("internal failure hides details", func() {
		s.ledger.EXPECT().Transfer(gomock.Any(), bobAddr, uint64(1)).
			Return(dErrors.Wrap(errors.New("kafka down"), dErrors.CodeInternal, "failed to record audit event"))
		w := s.do(http.MethodPost, "/ledger/transfers", aliceAddr, map[string]any{"to": bobAddr.String(), "amount": 1})
		s.Equal(http.StatusInternalServerError, w.Code)
		s.NotContains(w.Body.String(), "kafka")
	})
}

func (s *LedgerHandlerSuite) TestDelegatedAndForced() {
	s.Run("delegated transfer", func() {
		s.ledger.EXPECT().TransferFrom(gomock.Any(), aliceAddr, bobAddr, uint64(10)).Return(nil)
		s.ledger.EXPECT().BalanceOf(gomock.Any()).Return(uint64(0)).Times(2)
		w := s.do(http.MethodPost, "/ledger/transfers/delegated", bobAddr,
			map[string]any{"from": aliceAddr.String(), "to": bobAddr.String(), "amount": 10})
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("insufficient allowance", func() {
		s.ledger.EXPECT().TransferFrom(gomock.Any(), aliceAddr, bobAddr, uint64(10)).
			Return(dErrors.New(dErrors.CodeInsufficientAllowance, "allowance is below the transfer amount"))
		w := s.do(http.MethodPost, "/ledger/transfers/delegated", bobAddr,
			map[string]any{"from": aliceAddr.String(), "to": bobAddr.String(), "amount": 10})
		s.Equal(http.StatusUnprocessableEntity, w.Code)
		s.Equal("insufficient_allowance", s.decode(w)["error"])
	})

	s.Run("forced transfer by non-admin", func() {
		s.ledger.EXPECT().ForceTransfer(gomock.Any(), aliceAddr, bobAddr, uint64(10)).
			Return(dErrors.New(dErrors.CodeUnauthorized, "caller is not the ledger admin"))
		w := s.do(http.MethodPost, "/ledger/transfers/forced", bobAddr,
			map[string]any{"from": aliceAddr.String(), "to": bobAddr.String(), "amount": 10})
		s.Equal(http.StatusForbidden, w.Code)
	})
}

func (s *LedgerHandlerSuite) TestAdministration() {
	s.Run("approve", func() {
		s.ledger.EXPECT().Approve(gomock.Any(), bobAddr, uint64(40)).Return(nil)
		s.ledger.EXPECT().Allowance(aliceAddr, bobAddr).Return(uint64(40))
		w := s.do(http.MethodPost, "/ledger/approvals", aliceAddr, map[string]any{"spender": bobAddr.String(), "amount": 40})
		s.Equal(http.StatusOK, w.Code)
		s.Equal(float64(40), s.decode(w)["amount"])
	})

	s.Run("freeze and unfreeze", func() {
		s.ledger.EXPECT().FreezeAccount(gomock.Any(), bobAddr, "sanctions hit").Return(nil)
		w := s.do(http.MethodPost, "/ledger/freezes", adminAddr, map[string]any{"address": bobAddr.String(), "reason": "sanctions hit"})
		s.Equal(http.StatusNoContent, w.Code)

		s.ledger.EXPECT().UnfreezeAccount(gomock.Any(), bobAddr).Return(nil)
		w = s.do(http.MethodDelete, "/ledger/freezes/"+bobAddr.String(), adminAddr, nil)
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("limits", func() {
		s.ledger.EXPECT().SetInvestmentLimits(gomock.Any(), uint64(10), uint64(500)).Return(nil)
		s.ledger.EXPECT().InvestmentLimits().Return(models.Limits{Min: 10, Max: 500})
		w := s.do(http.MethodPut, "/ledger/limits", adminAddr, map[string]any{"min": 10, "max": 500})
		s.Equal(http.StatusOK, w.Code)
		s.Equal(float64(500), s.decode(w)["max"])
	})

	s.Run("invalid limits", func() {
		s.ledger.EXPECT().SetInvestmentLimits(gomock.Any(), uint64(500), uint64(10)).
			Return(dErrors.New(dErrors.CodeInvalidLimits, "minimum investment must be below maximum investment"))
		w := s.do(http.MethodPut, "/ledger/limits", adminAddr, map[string]any{"min": 500, "max": 10})
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("invalid_limits", s.decode(w)["error"])
	})

	s.Run("legal document", func() {
		s.ledger.EXPECT().SetLegalDocument(gomock.Any(), "ipfs://bafy-deed").Return(nil)
		w := s.do(http.MethodPut, "/ledger/asset/document", adminAddr, map[string]any{"reference": "ipfs://bafy-deed"})
		s.Equal(http.StatusNoContent, w.Code)
	})
}

func (s *LedgerHandlerSuite) TestQueries() {
	s.Run("pre-flight check", func() {
		s.ledger.EXPECT().CanTransfer(gomock.Any(), adminAddr, aliceAddr, uint64(1001)).
			Return(compliance.Decision{Allowed: false, Reason: compliance.ReasonExceedsMaximum})
		w := s.do(http.MethodGet, "/ledger/transfers/check?from="+adminAddr.String()+"&to="+aliceAddr.String()+"&amount=1001", "", nil)
		s.Equal(http.StatusOK, w.Code)
		resp := s.decode(w)
		s.Equal(false, resp["allowed"])
		s.Equal("exceeds_maximum", resp["reason"])
	})

	s.Run("pre-flight with a bad amount", func() {
		w := s.do(http.MethodGet, "/ledger/transfers/check?from="+adminAddr.String()+"&to="+aliceAddr.String()+"&amount=-1", "", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("account", func() {
		s.ledger.EXPECT().BalanceOf(aliceAddr).Return(uint64(1000))
		s.ledger.EXPECT().GetOwnershipPercent(aliceAddr).Return(uint64(1000))
		s.ledger.EXPECT().Token().Return(models.Token{Symbol: "HVR", Decimals: 2})
		s.ledger.EXPECT().IsFrozen(aliceAddr).Return(false)

		w := s.do(http.MethodGet, "/ledger/accounts/"+aliceAddr.String(), "", nil)
		s.Equal(http.StatusOK, w.Code)
		resp := s.decode(w)
		s.Equal("10.00", resp["display_balance"])
		s.Equal("10.00", resp["ownership_percent"])
	})

	s.Run("allowance", func() {
		s.ledger.EXPECT().Allowance(aliceAddr, bobAddr).Return(uint64(7))
		w := s.do(http.MethodGet, "/ledger/allowances/"+aliceAddr.String()+"/"+bobAddr.String(), "", nil)
		s.Equal(http.StatusOK, w.Code)
		s.Equal(float64(7), s.decode(w)["amount"])
	})

	s.Run("asset", func() {
		s.ledger.EXPECT().Token().Return(models.Token{Name: "Harbor View", Symbol: "HVR"})
		s.ledger.EXPECT().Asset().Return(models.Asset{Name: "Harbor View", TotalValue: 1_000_000, TotalUnits: 10_000})
		s.ledger.EXPECT().InvestmentLimits().Return(models.Limits{Min: 1, Max: 1000})
		s.ledger.EXPECT().TotalSupply().Return(uint64(10_000))
		s.ledger.EXPECT().GetUnitValue().Return(uint64(100))
		s.ledger.EXPECT().Holders().Return([]id.Address{adminAddr, aliceAddr})

		w := s.do(http.MethodGet, "/ledger/asset", "", nil)
		s.Equal(http.StatusOK, w.Code)
		resp := s.decode(w)
		s.Equal(float64(100), resp["unit_value"])
		s.Equal(float64(2), resp["holders"])
	})
}

func TestDisplayUnits(t *testing.T) {
	assert.Equal(t, "10000", displayUnits(10_000, 0))
	assert.Equal(t, "100.00", displayUnits(10_000, 2))
	assert.Equal(t, "0.000001", displayUnits(1, 6))
	assert.Equal(t, "18446744073709551615", displayUnits(^uint64(0), 0))
}
