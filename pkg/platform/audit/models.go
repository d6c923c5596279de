package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "propledger/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose so sinks can
// apply different retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers identity and account-restriction changes with
	// legal significance: registrations, revocations, freezes.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers privileged overrides that bypass the compliance gate.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine value movement and configuration.
	CategoryOperations EventCategory = "operations"
)

// Action names the operation an event records.
type Action string

const (
	// Registry events
	ActionInvestorRegistered   Action = "investor_registered"
	ActionInvestorLevelUpdated Action = "investor_level_updated"
	ActionInvestorRevoked      Action = "investor_revoked"

	// Ledger events
	ActionTransfer                Action = "transfer"
	ActionForcedTransfer          Action = "forced_transfer"
	ActionApproval                Action = "approval"
	ActionAccountFrozen           Action = "account_frozen"
	ActionAccountUnfrozen         Action = "account_unfrozen"
	ActionInvestmentLimitsUpdated Action = "investment_limits_updated"
	ActionLegalDocumentUpdated    Action = "legal_document_updated"
)

var actionCategories = map[Action]EventCategory{
	ActionInvestorRegistered:   CategoryCompliance,
	ActionInvestorLevelUpdated: CategoryCompliance,
	ActionInvestorRevoked:      CategoryCompliance,
	ActionAccountFrozen:        CategoryCompliance,
	ActionAccountUnfrozen:      CategoryCompliance,
	ActionLegalDocumentUpdated: CategoryCompliance,

	ActionForcedTransfer: CategorySecurity,

	ActionTransfer:                CategoryOperations,
	ActionApproval:                CategoryOperations,
	ActionInvestmentLimitsUpdated: CategoryOperations,
}

// Category returns the EventCategory for this action.
// Unknown actions default to CategoryOperations.
func (a Action) Category() EventCategory {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryOperations
}

// Source names the component that emitted an event.
type Source string

const (
	SourceRegistry Source = "registry"
	SourceLedger   Source = "ledger"
)

// Event is an immutable record of one successful mutating operation. Only the
// fields relevant to Action are populated.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Sequence  uint64    `json:"sequence"`
	Source    Source    `json:"source"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`

	// Actor is the caller that performed the operation.
	Actor id.Address `json:"actor"`
	// Subject is the primary identity: the investor, the sender, the owner
	// of an allowance, or the frozen account.
	Subject id.Address `json:"subject,omitempty"`
	// Counterparty is the receiver of a transfer or the spender of an allowance.
	Counterparty id.Address `json:"counterparty,omitempty"`
	// Spender is set on delegated transfers.
	Spender id.Address `json:"spender,omitempty"`
	Amount  uint64     `json:"amount,omitempty"`

	Level     string    `json:"level,omitempty"`
	Country   uint16    `json:"country,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`

	Reason        string `json:"reason,omitempty"`
	MinInvestment uint64 `json:"min_investment,omitempty"`
	MaxInvestment uint64 `json:"max_investment,omitempty"`
	Document      string `json:"document,omitempty"`
}

// Category derives the event category from its action.
func (e Event) Category() EventCategory {
	return e.Action.Category()
}

// Store persists events. Append must be all-or-nothing.
type Store interface {
	Append(ctx context.Context, event Event) error
}
