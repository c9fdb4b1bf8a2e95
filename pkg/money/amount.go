package money

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits a currency amount may carry
const Scale = 2

var (
	ErrAmountRequired  = errors.New("amount is required")
	ErrInvalidAmount   = errors.New("invalid amount format")
	ErrTooManyDecimals = errors.New("amount must have at most 2 decimal places")
)

// optional sign, digits, optional fraction; ".5" and "5." are tolerated
var amountPattern = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)$`)

// Parse converts user input like "10.50" into a decimal.
// Input is rejected rather than rounded when it has more than Scale fractional digits.
func Parse(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrAmountRequired
	}

	if !amountPattern.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}

	if idx := strings.IndexByte(s, '.'); idx >= 0 && len(s)-idx-1 > Scale {
		return decimal.Zero, ErrTooManyDecimals
	}

	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	} else if strings.HasPrefix(s, "-.") {
		s = "-0" + s[1:]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	return d, nil
}

// Format renders an amount as "$1,234.56"; negatives print as "-$1,234.56"
func Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(Scale)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	return sign + "$" + b.String() + "." + frac
}

// Sum adds amounts
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
