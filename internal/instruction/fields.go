package instruction

import (
	"strings"

	"github.com/shopspring/decimal"
)

var supportedCurrencies = map[string]struct{}{
	"NGN": {},
	"USD": {},
	"GBP": {},
	"GHS": {},
}

// ParseAmount accepts a run of decimal digits whose value is at least one.
// Signs, decimal points and separators are rejected.
func ParseAmount(tok string) (decimal.Decimal, bool) {
	if tok == "" {
		return decimal.Decimal{}, false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return decimal.Decimal{}, false
		}
	}
	amount, err := decimal.NewFromString(tok)
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amount, true
}

// NormalizeCurrency upper-cases tok and reports whether it is supported.
func NormalizeCurrency(tok string) (string, bool) {
	code := strings.ToUpper(tok)
	_, ok := supportedCurrencies[code]
	return code, ok
}

// ValidAccountID reports whether id is non-empty and made only of ASCII
// letters, digits, '-', '.' and '@'.
func ValidAccountID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '.', c == '@':
		default:
			return false
		}
	}
	return true
}

// ValidDate checks the YYYY-MM-DD shape with month 1-12 and day 1-31.
// Month lengths and leap years are not considered.
func ValidDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i == 4 || i == 7 {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	month := int(s[5]-'0')*10 + int(s[6]-'0')
	day := int(s[8]-'0')*10 + int(s[9]-'0')
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}
