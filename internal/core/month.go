package core

import "strings"

// MonthKey is the short column name a month is stored under.
type MonthKey string

const (
	Jan MonthKey = "jan"
	Feb MonthKey = "feb"
	Mar MonthKey = "mar"
	Apr MonthKey = "apr"
	Mei MonthKey = "mei"
	Jun MonthKey = "jun"
	Jul MonthKey = "jul"
	Aug MonthKey = "aug"
	Sep MonthKey = "sep"
	Okt MonthKey = "okt"
	Nov MonthKey = "nov"
	Des MonthKey = "des"
)

var monthKeys = [12]MonthKey{Jan, Feb, Mar, Apr, Mei, Jun, Jul, Aug, Sep, Okt, Nov, Des}

// MonthNumberToKey converts 1..12 to its column key. Any other input is
// rejected with ErrInvalidMonth.
func MonthNumberToKey(n int) (MonthKey, error) {
	if err := ValidateMonth(n); err != nil {
		return "", err
	}
	return monthKeys[n-1], nil
}

// MonthKeyToNumber is the inverse of MonthNumberToKey. Matching ignores case
// and surrounding whitespace.
func MonthKeyToNumber(key string) (int, error) {
	k := MonthKey(strings.ToLower(strings.TrimSpace(key)))
	for i, mk := range monthKeys {
		if mk == k {
			return i + 1, nil
		}
	}
	return 0, ErrInvalidMonth
}

// MonthKeys returns the twelve keys in calendar order.
func MonthKeys() []MonthKey {
	out := make([]MonthKey, len(monthKeys))
	copy(out, monthKeys[:])
	return out
}

func (k MonthKey) String() string { return string(k) }
