// Package core holds the ledger domain model: transactions, money and
// calendar-date handling. It has no dependencies on storage or transport.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is a currency magnitude in cents. Amounts are kept in integer
// cents internally but travel as a plain JSON number of currency units,
// so persisted blobs stay compatible with records written as 40 or 40.5.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal string to Money with half-up rounding
// on the third decimal place. Accepts dot and comma separators.
// Negative values are rejected; zero is allowed.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	s = strings.TrimPrefix(s, "+")

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return parseAmountFloat(s)
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return parseAmountFloat(s)
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return Money{}, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return Money{Cents: iv*100 + fracCents}, nil
}

// parseAmountFloat handles forms the digit scanner rejects, such as
// exponent notation produced by lenient JSON writers.
func parseAmountFloat(s string) (Money, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: int64(math.Round(f * 100))}, nil
}

// Units returns the value in currency units for display purposes.
// Use cents for calculations to avoid floating-point drift.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the exact decimal value without a trailing zero tail.
func (m Money) String() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	whole, rem := c/100, c%100
	switch {
	case rem == 0:
		return fmt.Sprintf("%s%d", sign, whole)
	case rem%10 == 0:
		return fmt.Sprintf("%s%d.%d", sign, whole, rem/10)
	default:
		return fmt.Sprintf("%s%d.%02d", sign, whole, rem)
	}
}

// MarshalJSON emits a bare JSON number, matching the persisted layout.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts any JSON number (or numeric string, for
// tolerance toward hand-edited blobs). Negative values decode to
// negative cents; rejecting them is the validation layer's job, which
// can report the precise reason instead of a generic decode error.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "null" {
		m.Cents = 0
		return nil
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	m.Cents = parsed.Cents
	if neg {
		m.Cents = -m.Cents
	}
	return nil
}
