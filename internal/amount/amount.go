// Package amount turns bank-export amount text into signed decimals.
package amount

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// decimalMark finds the last separator followed by 1-2 or 4-9 non-separator
// characters up to the end. Exactly three trailing digits are a thousands
// group and never match.
var decimalMark = regexp.MustCompile(`[.,]([^.,]{4,9}|[^.,]{1,2})$`)

// numericPrefix mirrors how a lenient float reader consumes the front of a
// string and ignores the rest.
var numericPrefix = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)`)

// maxMinorUnits is the largest integer a float64 holds exactly.
var maxMinorUnits = decimal.NewFromInt(1<<53 - 1)

var hundred = decimal.NewFromInt(100)

// ParseLoose parses free-form amount text such as "1.234,56", "(45.99)" or
// "$1,234.56". The last separator followed by one, two or four to nine
// characters is taken as the decimal point; every other non-digit is noise.
// It reports false for empty or unparsable text.
func ParseLoose(text string) (decimal.Decimal, bool) {
	s := normalizeSign(strings.TrimSpace(text))
	if s == "" {
		return decimal.Zero, false
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	loc := decimalMark.FindStringIndex(s)
	if loc == nil {
		return parseNumber(digitsAndMinus(s))
	}
	left := digitsAndMinus(s[:loc[0]])
	right := digitsAndMinus(s[loc[0]+1:])
	return parseNumber(left + "." + right)
}

// ParseStatement parses amounts from statement formats that already emit
// machine-formatted numbers. Parentheses still mean negative, stray symbols
// are dropped, and only the first decimal point is kept.
func ParseStatement(text string) (decimal.Decimal, bool) {
	s := normalizeSign(strings.TrimSpace(text))
	if s == "" {
		return decimal.Zero, false
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		cleaned = cleaned[:i+1] + strings.ReplaceAll(cleaned[i+1:], ".", "")
	}

	v, ok := parseNumber(cleaned)
	if !ok {
		return decimal.Zero, false
	}
	if negative {
		v = v.Abs().Neg()
	}
	return v, true
}

func normalizeSign(s string) string {
	return strings.ReplaceAll(s, "−", "-")
}

func digitsAndMinus(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '-' {
			return r
		}
		return -1
	}, s)
}

// parseNumber reads the leading number of s and rejects values whose minor
// units would not fit in a float64 integer.
func parseNumber(s string) (decimal.Decimal, bool) {
	m := numericPrefix.FindString(s)
	if m == "" {
		return decimal.Zero, false
	}
	m = strings.TrimSuffix(strings.TrimPrefix(m, "+"), ".")
	v, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero, false
	}
	if v.Mul(hundred).Abs().GreaterThan(maxMinorUnits) {
		return decimal.Zero, false
	}
	return v, true
}
