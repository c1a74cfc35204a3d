// Package types defines the ledger value types referenced by generated
// blueprint stubs, plus the wire DTOs spoken by the simulator management API.
//
// Value types intentionally stay thin: addresses are validated opaque strings,
// Decimal and PreciseDecimal keep their canonical string form and only parse
// into big.Rat on demand, and the 128-bit integers wrap big.Int. All of them
// round-trip through canonical CBOR for call payloads.
package types

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// Address prefixes used by the simulator's bech32-style identifiers.
const (
	PackageAddressPrefix   = "package_"
	ComponentAddressPrefix = "component_"
	ResourceAddressPrefix  = "resource_"
)

// PackageAddress identifies a deployed package on the ledger.
type PackageAddress string

func (a PackageAddress) String() string { return string(a) }

// Validate checks the address carries the package prefix and a non-empty body.
func (a PackageAddress) Validate() error {
	return validateAddress(string(a), PackageAddressPrefix)
}

// ComponentAddress identifies a live component instance on the ledger.
type ComponentAddress string

func (a ComponentAddress) String() string { return string(a) }

func (a ComponentAddress) Validate() error {
	return validateAddress(string(a), ComponentAddressPrefix)
}

// ResourceAddress identifies a resource manager on the ledger.
type ResourceAddress string

func (a ResourceAddress) String() string { return string(a) }

func (a ResourceAddress) Validate() error {
	return validateAddress(string(a), ResourceAddressPrefix)
}

func validateAddress(s, prefix string) error {
	if !strings.HasPrefix(s, prefix) {
		return fmt.Errorf("address %q: missing %q prefix", s, prefix)
	}
	if len(s) == len(prefix) {
		return fmt.Errorf("address %q: empty body", s)
	}
	return nil
}

// Decimal is a fixed-precision decimal number in its canonical string form
// (optional sign, digits, optional fractional part).
type Decimal string

func (d Decimal) String() string { return string(d) }

// Rat parses the decimal into an exact rational. Returns an error for any
// string big.Rat cannot parse or that uses exponent notation.
func (d Decimal) Rat() (*big.Rat, error) {
	s := string(d)
	if strings.ContainsAny(s, "eE/") {
		return nil, fmt.Errorf("decimal %q: exponent and rational forms are not accepted", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("decimal %q: malformed", s)
	}
	return r, nil
}

func (d Decimal) Validate() error {
	_, err := d.Rat()
	return err
}

// PreciseDecimal is a wider-precision decimal, same canonical string form.
type PreciseDecimal string

func (d PreciseDecimal) String() string { return string(d) }

func (d PreciseDecimal) Validate() error {
	_, err := Decimal(d).Rat()
	return err
}

// Hash is a 32-byte hash rendered as lowercase hex.
type Hash [32]byte

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// ParseHash decodes a 64-character hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("hash %q: %w", s, err)
	}
	if len(b) != len(h) {
		return h, fmt.Errorf("hash %q: expected %d bytes, got %d", s, len(h), len(b))
	}
	copy(h[:], b)
	return h, nil
}

// NonFungibleID is the opaque identifier of a non-fungible unit.
type NonFungibleID string

func (id NonFungibleID) String() string { return string(id) }

// Bucket, Proof and Vault are transient node identifiers assigned by the
// ledger during a call frame.
type (
	Bucket uint32
	Proof  uint32
	Vault  uint32
)

// I128 is a signed 128-bit integer.
type I128 struct{ Int big.Int }

// U128 is an unsigned 128-bit integer.
type U128 struct{ Int big.Int }

var (
	i128Min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	i128Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	u128Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// NewI128 parses a base-10 string, rejecting values outside the 128-bit range.
func NewI128(s string) (I128, error) {
	var v I128
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return v, fmt.Errorf("i128 %q: malformed", s)
	}
	if n.Cmp(i128Min) < 0 || n.Cmp(i128Max) > 0 {
		return v, fmt.Errorf("i128 %q: out of range", s)
	}
	v.Int.Set(n)
	return v, nil
}

// NewU128 parses a base-10 string, rejecting negatives and overflow.
func NewU128(s string) (U128, error) {
	var v U128
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return v, fmt.Errorf("u128 %q: malformed", s)
	}
	if n.Sign() < 0 || n.Cmp(u128Max) > 0 {
		return v, fmt.Errorf("u128 %q: out of range", s)
	}
	v.Int.Set(n)
	return v, nil
}

func (v I128) String() string { return v.Int.String() }
func (v U128) String() string { return v.Int.String() }

// MarshalText/UnmarshalText keep the big.Int payload in its decimal string
// form for both JSON and CBOR.

func (v I128) MarshalText() ([]byte, error) { return []byte(v.Int.String()), nil }

func (v *I128) UnmarshalText(b []byte) error {
	parsed, err := NewI128(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v U128) MarshalText() ([]byte, error) { return []byte(v.Int.String()), nil }

func (v *U128) UnmarshalText(b []byte) error {
	parsed, err := NewU128(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
