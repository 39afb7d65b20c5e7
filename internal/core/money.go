// Package core provides the domain types of the mosque finance service.
//
// This file contains parsing and formatting of Rupiah amounts. Amounts are
// always whole Rupiah held in an int64.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseRupiah converts a user supplied amount to whole Rupiah.
//
// It accepts plain digits ("50000"), an optional "Rp" prefix and dot
// thousands grouping ("Rp 50.000"). Zero is valid. Negative values,
// fractions and anything else return ErrInvalidAmount.
//
// Examples:
//
//	ParseRupiah("50000")     -> 50000, nil
//	ParseRupiah("Rp50.000")  -> 50000, nil
//	ParseRupiah("1.000.000") -> 1000000, nil
//	ParseRupiah("50.00")     -> 0, ErrInvalidAmount
func ParseRupiah(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.EqualFold(s[:2], "rp") {
		s = strings.TrimSpace(s[2:])
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}

	groups := strings.Split(s, ".")
	for i, g := range groups {
		if g == "" {
			return 0, ErrInvalidAmount
		}
		if i > 0 && len(g) != 3 {
			return 0, ErrInvalidAmount
		}
		if i == 0 && len(groups) > 1 && len(g) > 3 {
			return 0, ErrInvalidAmount
		}
		for _, r := range g {
			if !unicode.IsDigit(r) {
				return 0, ErrInvalidAmount
			}
		}
	}

	v, err := strconv.ParseInt(strings.Join(groups, ""), 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatRupiah renders an amount as "Rp50.000".
func FormatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-Rp" + b.String()
	}
	return "Rp" + b.String()
}
