package memmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Value is a numeric field as printed in the report.
//
// Raw keeps the literal so the byte width of hex fields (0x08000000 is a
// 4 byte address) survives parsing. The zero Value means "absent".
type Value struct {
	Raw string
	N   uint64
}

// ParseValue parses a hex (0x prefixed) or decimal literal.
func ParseValue(s string) (Value, error) {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return Value{}, errors.Wrapf(err, "invalid numeric field %q", s)
	}
	return Value{Raw: s, N: n}, nil
}

// MustValue is ParseValue for literals known to be valid, e.g. in tests.
func MustValue(s string) Value {
	v, err := ParseValue(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsHex reports whether s is a 0x prefixed hex literal.
func IsHex(s string) bool {
	if len(s) < 3 || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := strconv.ParseUint(s[2:], 16, 64)
	return err == nil
}

// Valid reports whether the value was present in the report.
func (v Value) Valid() bool {
	return v.Raw != ""
}

// Width returns the byte width implied by a hex literal, 0 otherwise.
func (v Value) Width() int {
	if !strings.HasPrefix(v.Raw, "0x") {
		return 0
	}
	return (len(v.Raw) - 2) / 2
}

func (v Value) String() string {
	if !v.Valid() {
		return "-"
	}
	return v.Raw
}

// Hex formats the value with %#x, or "-" when absent.
func (v Value) Hex() string {
	if !v.Valid() {
		return "-"
	}
	return fmt.Sprintf("%#x", v.N)
}
