package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Payment method codes used by the event_sales table.
const (
	CodeCardOnline  = 1
	CodeCash        = 2
	CodeCardPresent = 3
	CodeFree        = 5
	CodeUnknown     = 6
)

// paymentRule matches a normalized substring to a payment method code.
// Rules are evaluated in order and the first match wins; "tarjeta presente"
// must come before the other "tarjeta" variants.
type paymentRule struct {
	substr string
	code   int
}

var paymentRules = []paymentRule{
	{"efectivo", CodeCash},
	{"tarjeta presente", CodeCardPresent},
	{"tarjeta (en", CodeCardOnline},
	{"tarjeta en linea", CodeCardOnline},
	{"gratis", CodeFree},
}

var stripDiacritics = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims and strips diacritics so that free-text values
// like "Tarjeta (En Línea)" match their rule regardless of accents or case.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	stripped, _, err := transform.String(stripDiacritics, text)
	if err != nil {
		stripped = text
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// PaymentMethod classifies a free-text payment method into a code.
// The second return value is false when no rule matches; callers decide the
// fallback (the engine substitutes CodeUnknown).
func PaymentMethod(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	text := Normalize(raw)
	for _, r := range paymentRules {
		if strings.Contains(text, r.substr) {
			return r.code, true
		}
	}
	return 0, false
}

var (
	numberRe   = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	nonAmount  = regexp.MustCompile(`[^0-9,.\-]`)
	nonDecimal = regexp.MustCompile(`[^0-9.\-]`)
)

// Currency parses a currency-like string into a float64. It tolerates
// currency symbols, letters, non-breaking spaces, parenthesized negatives and
// both decimal separator conventions. When comma and period are both present,
// the one appearing later is the decimal point. Unparsable input yields 0.
func Currency(value string) float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, "\u00a0", " ")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = nonAmount.ReplaceAllString(s, "")

	hasComma := strings.Contains(s, ",")
	hasPeriod := strings.Contains(s, ".")
	switch {
	case hasComma && hasPeriod:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	case hasPeriod:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	numStr := numberRe.FindString(s)
	if numStr == "" {
		numStr = nonDecimal.ReplaceAllString(s, "")
		if numStr == "" || numStr == "." || numStr == "-" {
			return 0
		}
	}

	val, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0
	}
	if negative {
		val = -math.Abs(val)
	}
	return val
}

// Int coerces a currency-like string to an integer, truncating toward zero.
func Int(value string) int {
	return int(Currency(value))
}

// Layouts tried after an ISO-8601 parse fails. Day-first forms come first
// because the upstream export uses them.
var dateTimeLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DateTime parses a flexible date/time string into a UTC instant. ISO-8601 is
// tried first (a missing offset is taken as UTC), then the fixed layout list.
// Returns nil when nothing matches.
func DateTime(value string) *time.Time {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}

	if strings.ContainsAny(v, "TZ+") {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			t = t.UTC()
			return &t
		}
		if t, err := time.ParseInLocation("2006-01-02T15:04:05", v, time.UTC); err == nil {
			return &t
		}
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return &t
		}
	}

	return nil
}

// Date parses the leading calendar date (YYYY-MM-DD) of a value, ignoring any
// trailing time component. Returns nil when the prefix is not a date.
func Date(value string) *time.Time {
	v := strings.TrimSpace(value)
	if len(v) > 10 {
		v = v[:10]
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}
