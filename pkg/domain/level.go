package domain

import (
	"strings"

	dErrors "propledger/pkg/domain-errors"
)

// VerificationLevel is the ordinal depth of the identity check completed for
// an investor. Levels compare with the ordinary integer operators.
type VerificationLevel uint8

const (
	LevelNone VerificationLevel = iota
	LevelBasic
	LevelVerified
	LevelAccredited
)

var levelNames = map[VerificationLevel]string{
	LevelNone:       "none",
	LevelBasic:      "basic",
	LevelVerified:   "verified",
	LevelAccredited: "accredited",
}

// ParseVerificationLevel accepts the level name in any case.
func ParseVerificationLevel(s string) (VerificationLevel, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for level, name := range levelNames {
		if name == needle {
			return level, nil
		}
	}
	return LevelNone, dErrors.New(dErrors.CodeInvalidInput, "unknown verification level: "+s)
}

// IsValid reports whether the level is one of the defined tiers.
func (l VerificationLevel) IsValid() bool {
	_, ok := levelNames[l]
	return ok
}

// AtLeast reports whether l is ordinally greater than or equal to required.
func (l VerificationLevel) AtLeast(required VerificationLevel) bool {
	return l >= required
}

func (l VerificationLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}
