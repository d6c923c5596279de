package models

import (
	"time"

	id "propledger/pkg/domain"
	dErrors "propledger/pkg/domain-errors"
)

// SecondsPerDay converts a validity period in days into an expiry offset.
const SecondsPerDay = 24 * 60 * 60

// Investor is the registry's record of one participant.
//
// Invariants:
//   - A record with Active=false or Level=NONE is never verified, whatever its expiry.
//   - Registration requires Active=false (new or previously revoked).
//   - Level updates and revocation require Active=true.
//   - Expiry is a derived predicate; nothing writes an "expired" state.
//
// State machine:
//
//	Unregistered --Register--> Active --UpdateLevel--> Active
//	Active --Revoke--> Revoked --Register--> Active
type Investor struct {
	Address      id.Address           `json:"address"`
	Level        id.VerificationLevel `json:"level"`
	Country      uint16               `json:"country"`
	ExpiresAt    time.Time            `json:"expires_at"`
	Active       bool                 `json:"active"`
	RegisteredAt time.Time            `json:"registered_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ExpiryFor returns the expiry for a registration made at now.
func ExpiryFor(now time.Time, validDays uint32) time.Time {
	return now.Add(time.Duration(validDays) * SecondsPerDay * time.Second)
}

// IsVerified reports whether the record is active, has a level, and has not
// expired at now. Expiry is inclusive: now == ExpiresAt is still verified.
func (i *Investor) IsVerified(now time.Time) bool {
	if i == nil || !i.Active || i.Level == id.LevelNone {
		return false
	}
	return !now.After(i.ExpiresAt)
}

// MeetsLevel reports whether the record is verified at now with a level at
// least required.
func (i *Investor) MeetsLevel(required id.VerificationLevel, now time.Time) bool {
	return i.IsVerified(now) && i.Level.AtLeast(required)
}

// CanRegister checks the Unregistered/Revoked -> Active transition.
func (i *Investor) CanRegister() error {
	if i != nil && i.Active {
		return dErrors.New(dErrors.CodeAlreadyRegistered, "investor is already registered")
	}
	return nil
}

// ApplyRegistration (re)activates the record. Call CanRegister first.
func (i *Investor) ApplyRegistration(level id.VerificationLevel, country uint16, expiresAt, now time.Time) {
	i.Level = level
	i.Country = country
	i.ExpiresAt = expiresAt
	i.Active = true
	i.RegisteredAt = now
	i.UpdatedAt = now
}

// RequireActive checks that UpdateLevel or Revoke may run.
func (i *Investor) RequireActive() error {
	if i == nil || !i.Active {
		return dErrors.New(dErrors.CodeNotRegistered, "investor is not registered")
	}
	return nil
}

// ApplyLevel replaces the level in place; expiry and country are unchanged.
// Setting LevelNone is allowed and leaves the record unverified.
func (i *Investor) ApplyLevel(level id.VerificationLevel, now time.Time) {
	i.Level = level
	i.UpdatedAt = now
}

// ApplyRevocation deactivates the record. The address stays addressable for
// re-registration.
func (i *Investor) ApplyRevocation(now time.Time) {
	i.Active = false
	i.UpdatedAt = now
}

// Clone returns a copy safe to hand out of a store.
func (i *Investor) Clone() *Investor {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
