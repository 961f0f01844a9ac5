/*
Package coin implements the unsigned amounts moved by the ledger.

All arithmetic is checked. An operation that would overflow or go below
zero fails with an error instead of wrapping around.
*/
package coin

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/iov-one/ledger/errors"
)

// Amount is a quantity of the smallest indivisible unit of an asset.
type Amount uint64

// IsZero returns true if nothing is held.
func (a Amount) IsZero() bool {
	return a == 0
}

// Add returns a + b or ErrOverflow.
func (a Amount) Add(b Amount) (Amount, error) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return Amount(sum), nil
}

// Sub returns a - b. Going below zero is reported as ErrInsufficientAmount,
// because in every ledger use it means the source does not hold enough.
func (a Amount) Sub(b Amount) (Amount, error) {
	diff, borrow := bits.Sub64(uint64(a), uint64(b), 0)
	if borrow != 0 {
		return 0, errors.Wrapf(errors.ErrInsufficientAmount, "%d - %d", a, b)
	}
	return Amount(diff), nil
}

// Mul returns a * b or ErrOverflow.
func (a Amount) Mul(b Amount) (Amount, error) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %d", a, b)
	}
	return Amount(lo), nil
}

// Format renders the amount with given number of decimal places, for
// example 1500 with 3 decimals is "1.5".
func (a Amount) Format(decimals uint8) string {
	s := strconv.FormatUint(uint64(a), 10)
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

// ParseAmount parses a human readable decimal like "1.5" into the number of
// smallest units for an asset with given decimals.
func ParseAmount(h string, decimals uint8) (Amount, error) {
	h = strings.TrimSpace(h)
	parts := strings.SplitN(h, ".", 2)
	whole := parts[0]
	var frac string
	if len(parts) == 2 {
		frac = parts[1]
	}
	if whole == "" && frac == "" {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "amount %q", h)
	}
	if len(frac) > int(decimals) {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "amount %q has more than %d decimals", h, decimals)
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, errors.Wrapf(errors.ErrInvalidInput, "amount %q", h)
		}
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrOverflow, "amount %q", h)
	}
	return Amount(n), nil
}
