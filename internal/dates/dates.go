// Package dates normalizes ordering-ambiguous date strings to YYYY-MM-DD.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// FieldOrder names the order of year, month and day in a source date.
type FieldOrder string

const (
	YearMonthDay      FieldOrder = "yyyy mm dd"
	ShortYearMonthDay FieldOrder = "yy mm dd"
	MonthDayYear      FieldOrder = "mm dd yyyy"
	MonthDayShortYear FieldOrder = "mm dd yy"
	DayMonthYear      FieldOrder = "dd mm yyyy"
	DayMonthShortYear FieldOrder = "dd mm yy"
)

const isoLayout = "2006-01-02"

// Orders lists every supported order in detection priority.
var Orders = []FieldOrder{
	YearMonthDay,
	ShortYearMonthDay,
	MonthDayYear,
	MonthDayShortYear,
	DayMonthYear,
	DayMonthShortYear,
}

// ParseFieldOrder validates a user-supplied order literal.
func ParseFieldOrder(s string) (FieldOrder, error) {
	for _, o := range Orders {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown date format %q (want one of %q)", s, Orders)
}

type monthName struct {
	re    *regexp.Regexp
	digit string
}

var monthNames = []monthName{
	{regexp.MustCompile(`(?i)\bjan(uary|\.)?\b`), "01"},
	{regexp.MustCompile(`(?i)\bfeb(ruary|\.)?\b`), "02"},
	{regexp.MustCompile(`(?i)\bmar(ch|\.)?\b`), "03"},
	{regexp.MustCompile(`(?i)\bapr(il|\.)?\b`), "04"},
	{regexp.MustCompile(`(?i)\bmay\.?\b`), "05"},
	{regexp.MustCompile(`(?i)\bjun(e|\.)?\b`), "06"},
	{regexp.MustCompile(`(?i)\bjul(y|\.)?\b`), "07"},
	{regexp.MustCompile(`(?i)\baug(ust|\.)?\b`), "08"},
	{regexp.MustCompile(`(?i)\bsep(tember|t\.?|\.)?\b`), "09"},
	{regexp.MustCompile(`(?i)\boct(ober|\.)?\b`), "10"},
	{regexp.MustCompile(`(?i)\bnov(ember|\.)?\b`), "11"},
	{regexp.MustCompile(`(?i)\bdec(ember|\.)?\b`), "12"},
}

var (
	nonDigits = regexp.MustCompile(`\D+`)
	isoShape  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Parse normalizes value according to order and returns "YYYY-MM-DD".
// It reports false when the result is not a real calendar date.
func Parse(value string, order FieldOrder) (string, bool) {
	cleaned := value
	for _, m := range monthNames {
		cleaned = m.re.ReplaceAllString(cleaned, " "+m.digit+" ")
	}
	cleaned = strings.Trim(nonDigits.ReplaceAllString(cleaned, " "), " ")

	var year, month, day string
	switch order {
	case ShortYearMonthDay:
		year, month, day = split(cleaned, 2, 2, 2)
	case MonthDayYear:
		month, day, year = split(cleaned, 2, 2, 4)
	case MonthDayShortYear:
		month, day, year = split(cleaned, 2, 2, 2)
	case DayMonthYear:
		day, month, year = split(cleaned, 2, 2, 4)
	case DayMonthShortYear:
		day, month, year = split(cleaned, 2, 2, 2)
	default:
		year, month, day = split(cleaned, 4, 2, 2)
	}

	if len(year) == 2 {
		year = "20" + year
	}
	iso := year + "-" + pad(month) + "-" + pad(day)
	if !isoShape.MatchString(iso) {
		return "", false
	}
	if _, err := time.Parse(isoLayout, iso); err != nil {
		return "", false
	}
	return iso, true
}

// DetectFormat returns the first order, in Orders priority, under which
// sample parses. Ambiguous samples such as "01/02/2025" resolve to the
// earliest matching order.
func DetectFormat(sample string) (FieldOrder, bool) {
	for _, o := range Orders {
		if _, ok := Parse(sample, o); ok {
			return o, true
		}
	}
	return "", false
}

// split returns the first three numeric tokens of cleaned. Dates written
// without separators are cut into fixed widths a, b and c; trailing digits,
// usually a time of day, are ignored.
func split(cleaned string, a, b, c int) (string, string, string) {
	tokens := strings.Fields(cleaned)
	if len(tokens) >= 3 {
		return tokens[0], tokens[1], tokens[2]
	}
	digits := strings.Join(tokens, "")
	return slice(digits, 0, a), slice(digits, a, a+b), slice(digits, a+b, a+b+c)
}

func slice(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

func pad(v string) string {
	if len(v) == 1 {
		return "0" + v
	}
	return v
}
