package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// cleanNumber strips currency symbols, thousands separators and spaces that
// users type into mobile number fields.
func cleanNumber(raw string) string {
	r := strings.NewReplacer("₦", "", "NGN", "", "ngn", "", ",", "", " ", "", "_", "")
	return r.Replace(strings.TrimSpace(raw))
}

// ParseAmount parses a required, strictly positive money value.
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	d, err := parseDecimal(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fieldErr(field, ErrNotPositive)
	}
	return d, nil
}

// ParseOptionalAmount parses a money value that may be blank (zero) but not negative.
func ParseOptionalAmount(field, raw string) (decimal.Decimal, error) {
	if cleanNumber(raw) == "" {
		return decimal.Zero, nil
	}
	d, err := parseDecimal(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fieldErr(field, ErrInvalidAmount)
	}
	return d, nil
}

// ParseQuantity parses a required, strictly positive quantity. Fractions are allowed
// (half a bag, 1.5 litres).
func ParseQuantity(field, raw string) (decimal.Decimal, error) {
	return ParseAmount(field, raw)
}

// ParseCoins parses a whole, non-negative coin count.
func ParseCoins(field, raw string) (int64, error) {
	s := cleanNumber(raw)
	if s == "" {
		return 0, fieldErr(field, ErrRequired)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fieldErr(field, ErrNotNumber)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

// ParseMonths parses a loan term in whole months (≥ 1).
func ParseMonths(field, raw string) (int, error) {
	s := cleanNumber(raw)
	if s == "" {
		return 0, fieldErr(field, ErrRequired)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fieldErr(field, ErrNotNumber)
	}
	if n < 1 {
		return 0, fieldErr(field, ErrInvalidTerm)
	}
	return n, nil
}

// ParseRate parses a non-negative percentage.
func ParseRate(field, raw string) (decimal.Decimal, error) {
	d, err := parseDecimal(field, strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fieldErr(field, ErrInvalidAmount)
	}
	return d, nil
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	s := cleanNumber(raw)
	if s == "" {
		return decimal.Zero, fieldErr(field, ErrRequired)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fieldErr(field, ErrNotNumber)
	}
	return d, nil
}
