package compliance

import (
	"errors"

	dErrors "propledger/pkg/domain-errors"
)

// Reason explains a Decision. Values are stable and appear in API responses.
type Reason string

const (
	ReasonTransferAllowed     Reason = "transfer_allowed"
	ReasonSenderFrozen        Reason = "sender_frozen"
	ReasonReceiverFrozen      Reason = "receiver_frozen"
	ReasonSenderNotVerified   Reason = "sender_not_verified"
	ReasonReceiverNotVerified Reason = "receiver_not_verified"
	ReasonInsufficientBalance Reason = "insufficient_balance"
	ReasonExceedsMaximum      Reason = "exceeds_maximum"
)

var reasonMessages = map[Reason]string{
	ReasonTransferAllowed:     "transfer allowed",
	ReasonSenderFrozen:        "sender account is frozen",
	ReasonReceiverFrozen:      "receiver account is frozen",
	ReasonSenderNotVerified:   "sender is not verified",
	ReasonReceiverNotVerified: "receiver is not verified",
	ReasonInsufficientBalance: "insufficient balance",
	ReasonExceedsMaximum:      "transfer exceeds maximum investment",
}

var reasonCodes = map[Reason]dErrors.Code{
	ReasonSenderFrozen:        dErrors.CodeAccountFrozen,
	ReasonReceiverFrozen:      dErrors.CodeAccountFrozen,
	ReasonSenderNotVerified:   dErrors.CodeNotVerified,
	ReasonReceiverNotVerified: dErrors.CodeNotVerified,
	ReasonInsufficientBalance: dErrors.CodeInsufficientBalance,
	ReasonExceedsMaximum:      dErrors.CodeExceedsMaximum,
}

// Message is a human-readable description of the reason.
func (r Reason) Message() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return string(r)
}

// Code maps a denial reason to its error code.
func (r Reason) Code() dErrors.Code {
	if code, ok := reasonCodes[r]; ok {
		return code
	}
	return dErrors.CodeInternal
}

// Denial is the cause attached to errors returned for a denied transfer.
type Denial struct {
	Reason Reason
}

func (d *Denial) Error() string {
	return d.Reason.Message()
}

// Err turns a denied decision into a coded error carrying the Denial.
// Allowed decisions return nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &dErrors.Error{Code: d.Reason.Code(), Message: "transfer denied", Err: &Denial{Reason: d.Reason}}
}

// ReasonOf extracts the denial reason from err, if any.
func ReasonOf(err error) (Reason, bool) {
	var d *Denial
	if errors.As(err, &d) {
		return d.Reason, true
	}
	return "", false
}
