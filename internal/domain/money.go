package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents. Prices and booking totals are stored and
// multiplied as integers so that 50.00 x 3 is exactly 150.00.
type Money int64

// errMoneyFormat is returned by ParseMoney for anything that is not a plain
// decimal with at most two fractional digits.
var errMoneyFormat = errors.New("must be a number with at most 2 decimal places")

// ParseMoney parses a decimal string such as "50", "50.5" or "-3.25".
// Exponents, more than two fractional digits, and empty input are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errMoneyFormat
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" && (!hasDot || frac == "") {
		return 0, errMoneyFormat
	}
	if len(frac) > 2 || !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, errMoneyFormat
	}
	if hasDot && frac == "" {
		return 0, errMoneyFormat
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > (math.MaxInt64-99)/100 {
		return 0, errors.New("is out of range")
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)

	m := Money(units*100 + cents)
	if neg {
		m = -m
	}
	return m, nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Times returns m multiplied by n.
// Returns an error if the product does not fit in an int64.
func (m Money) Times(n int) (Money, error) {
	if n == 0 || m == 0 {
		return 0, nil
	}
	p := int64(m) * int64(n)
	if p/int64(n) != int64(m) {
		return 0, fmt.Errorf("money overflow: %d x %d", m, n)
	}
	return Money(p), nil
}

// String formats m with exactly two decimals, e.g. "150.00" or "-0.05".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes m as a string ("150.00") so clients never see a float
// rounding artefact.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
