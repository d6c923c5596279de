package adapters

import (
	"context"

	id "propledger/pkg/domain"
)

// LocalVerifier is the in-process registry query surface.
type LocalVerifier interface {
	IsVerified(ctx context.Context, addr id.Address) bool
}

// LocalRegistry adapts an in-process registry service to ports.VerificationRegistry.
type LocalRegistry struct {
	registry LocalVerifier
}

func NewLocalRegistry(registry LocalVerifier) *LocalRegistry {
	return &LocalRegistry{registry: registry}
}

func (a *LocalRegistry) IsVerified(ctx context.Context, addr id.Address) (bool, error) {
	return a.registry.IsVerified(ctx, addr), nil
}
