package domain

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	dErrors "propledger/pkg/domain-errors"
)

// AddressLength is the byte length of a participant address.
const AddressLength = 20

// Address identifies a participant (investor, spender, administrator).
// The canonical form is "0x" followed by 40 lowercase hex characters.
type Address string

// NilAddress is the null identity. It can be parsed and compared but never
// holds a registry record or receives units.
const NilAddress Address = "0x0000000000000000000000000000000000000000"

// ParseAddress validates and canonicalizes an address string.
// The null address is accepted here; services decide whether it is allowed.
func ParseAddress(s string) (Address, error) {
	raw, ok := strings.CutPrefix(s, "0x")
	if !ok {
		raw, ok = strings.CutPrefix(s, "0X")
	}
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address must start with 0x")
	}
	if len(raw) != AddressLength*2 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address must be 20 bytes of hex")
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address contains non-hex characters")
	}
	return Address("0x" + strings.ToLower(raw)), nil
}

// MustParseAddress panics on invalid input. Intended for tests and constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsNil reports whether the address is the null identity or unset.
func (a Address) IsNil() bool {
	return a == "" || a == NilAddress
}

func (a Address) String() string {
	return string(a)
}

// Checksum returns the mixed-case EIP-55 form used when displaying addresses.
// Letters are uppercased where the matching nibble of the Keccak-256 hash of
// the lowercase hex is 8 or above.
func (a Address) Checksum() string {
	raw := strings.TrimPrefix(string(a), "0x")
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(raw))
	sum := h.Sum(nil)

	out := []byte(raw)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := sum[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(out)
}
