package cash

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/iov-one/tokenswap/errors"
)

// ParseAmount converts a display amount, such as "12.5", into base units of a
// mint with given decimals. More fractional digits than decimals are
// rejected, as is any value that does not fit into an uint64.
func ParseAmount(s string, decimals uint32) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Wrap(errors.ErrAmount, "empty amount")
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > int(decimals) {
		return 0, errors.Wrapf(errors.ErrAmount, "at most %d fractional digits allowed", decimals)
	}
	for _, part := range []string{whole, frac} {
		for _, c := range part {
			if c < '0' || c > '9' {
				return 0, errors.Wrapf(errors.ErrAmount, "invalid amount %q", s)
			}
		}
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	digits := strings.TrimLeft(whole+frac, "0")
	if digits == "" {
		return 0, nil
	}
	if len(digits) > 20 {
		return 0, errors.Wrapf(errors.ErrOverflow, "amount %q", s)
	}
	n, err := uint256.FromDecimal(digits)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrAmount, "invalid amount %q", s)
	}
	if !n.IsUint64() {
		return 0, errors.Wrapf(errors.ErrOverflow, "amount %q", s)
	}
	return n.Uint64(), nil
}

// FormatAmount converts base units into the display representation of a
// mint with given decimals. Trailing fractional zeros are dropped.
func FormatAmount(amount uint64, decimals uint32) string {
	s := uint256.NewInt(amount).Dec()
	if decimals == 0 {
		return s
	}
	d := int(decimals)
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}
	whole, frac := s[:len(s)-d], strings.TrimRight(s[len(s)-d:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// add returns a + b or an error if the result does not fit into an uint64.
func add(a, b uint64) (uint64, error) {
	var sum uint256.Int
	sum.Add(uint256.NewInt(a), uint256.NewInt(b))
	if !sum.IsUint64() {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return sum.Uint64(), nil
}
