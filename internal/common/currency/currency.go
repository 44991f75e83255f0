// Package currency holds the single source of truth for converting the stored
// TON balance into the MGB display unit and for formatting amounts shown to
// users. Callers must not define their own conversion factor.
package currency

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MGBPerTON is the canonical conversion rate: 500,000 MGB = 1 TON.
var MGBPerTON = decimal.NewFromInt(500000)

// maxFractionDigits caps the precision of user-entered TON amounts.
const maxFractionDigits = 5

// ToMGB converts a TON-denominated balance into whole MGB,
// rounding half up. Pure and total.
func ToMGB(balance decimal.Decimal) int64 {
	return balance.Mul(MGBPerTON).Round(0).IntPart()
}

// ParseAmount parses a decimal TON amount. Malformed input is coerced to
// zero so forms stay renderable instead of erroring out.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatMGB renders a TON balance as whole MGB with thousands separators,
// optionally suffixed with the currency symbol.
func FormatMGB(balance decimal.Decimal, includeSymbol bool) string {
	s := groupThousands(strconv.FormatInt(ToMGB(balance), 10))
	if includeSymbol {
		return s + " MGB"
	}
	return s
}

// TruncateAmount normalizes a decimal string for the "MAX" amount control:
// trailing fractional zeros are stripped, the fraction is capped at five
// digits, and a zero or empty fraction collapses to the integral part.
// Scientific notation is normalized through a numeric round-trip first.
// Non-numeric input and zero both yield "0".
func TruncateAmount(value string) string {
	value = strings.TrimSpace(value)
	num, err := strconv.ParseFloat(value, 64)
	if err != nil || num == 0 {
		return "0"
	}
	if strings.ContainsAny(value, "eE") {
		value = strconv.FormatFloat(num, 'f', -1, 64)
	}
	whole, frac, ok := strings.Cut(value, ".")
	if !ok {
		return value
	}
	frac = strings.TrimRight(frac, "0")
	if len(frac) > maxFractionDigits {
		frac = frac[:maxFractionDigits]
	}
	if strings.Trim(frac, "0") == "" {
		return whole
	}
	return whole + "." + frac
}

// FormatDateTime renders a timestamp as "DD Mon YYYY, HH:MM UTC".
// Always UTC, never the server's local zone.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("02 Jan 2006, 15:04") + " UTC"
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	n := len(s)
	for i, r := range s {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
