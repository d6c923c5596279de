package models

import (
	"math"
	"math/bits"

	dErrors "propledger/pkg/domain-errors"
)

// MaxDecimals keeps the unit scale (10^decimals) within uint64.
const MaxDecimals = 18

// Token describes the unit being transferred.
type Token struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// UnitScale is the number of smallest units in one whole unit.
func (t Token) UnitScale() uint64 {
	scale := uint64(1)
	for i := uint8(0); i < t.Decimals; i++ {
		scale *= 10
	}
	return scale
}

// Asset is the real-world property the units represent. TotalUnits is the
// issued supply in smallest units; TotalValue is the declared value in the
// asset's currency.
type Asset struct {
	Name          string `json:"name"`
	Location      string `json:"location"`
	TotalValue    uint64 `json:"total_value"`
	TotalUnits    uint64 `json:"total_units"`
	LegalDocument string `json:"legal_document"`
	Active        bool   `json:"active"`
}

// Limits bound a receiver's resulting balance after an ordinary transfer.
// Only Max is enforced; Min is configuration carried for reporting.
type Limits struct {
	Min uint64 `json:"min"`
	Max uint64 `json:"max"`
}

// NewLimits validates min < max.
func NewLimits(minInvestment, maxInvestment uint64) (Limits, error) {
	if minInvestment >= maxInvestment {
		return Limits{}, dErrors.New(dErrors.CodeInvalidLimits, "minimum investment must be below maximum investment")
	}
	return Limits{Min: minInvestment, Max: maxInvestment}, nil
}

// OwnershipBps returns balance as basis points of supply, truncated. Zero
// supply yields zero.
func OwnershipBps(balance, supply uint64) uint64 {
	if supply == 0 {
		return 0
	}
	return mulDiv(balance, 10_000, supply)
}

// UnitValue is the declared value per whole unit, truncated at each step.
func UnitValue(a Asset, t Token) uint64 {
	wholeUnits := a.TotalUnits / t.UnitScale()
	if wholeUnits == 0 {
		return 0
	}
	return a.TotalValue / wholeUnits
}

// mulDiv computes a*b/c with a 128-bit intermediate. Results that do not fit
// in uint64 saturate.
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, c)
	return q
}
