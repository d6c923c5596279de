// Package ports defines the ledger's view of collaborators it does not own.
package ports

import (
	"context"

	id "propledger/pkg/domain"
)

//go:generate mockgen -destination=mocks/registry_mock.go -package=mocks propledger/internal/ledger/ports VerificationRegistry

// VerificationRegistry is the single registry capability the ledger consumes.
// Implementations return an error when the answer is unknown; the ledger
// reads any error as "not verified".
type VerificationRegistry interface {
	IsVerified(ctx context.Context, addr id.Address) (bool, error)
}
