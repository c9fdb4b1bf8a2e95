// Package validation holds the typed field validators shared by every money-entry form.
// Validators append to an Errors collector and return the parsed value; they never panic
// and never touch the network.
package validation

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finboard/pkg/money"
)

// AmountRule selects the lower bound applied to an amount
type AmountRule int

const (
	// Positive requires amount > 0
	Positive AmountRule = iota
	// NonNegative allows zero
	NonNegative
)

const dateLayout = "2006-01-02"

// Required returns the trimmed value, recording an error when it is blank
func Required(errs *Errors, field, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		errs.Add(field, "is required")
	}
	return v
}

// Optional trims value and returns nil when it is blank
func Optional(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return &v
}

// MaxLength records an error when value is longer than n runes
func MaxLength(errs *Errors, field, value string, n int) {
	if len([]rune(value)) > n {
		errs.Add(field, "must be at most "+strconv.Itoa(n)+" characters")
	}
}

// Amount parses a decimal with at most two fractional digits
func Amount(errs *Errors, field, raw string, rule AmountRule) decimal.Decimal {
	d, err := money.Parse(raw)
	if err != nil {
		switch {
		case errors.Is(err, money.ErrAmountRequired):
			errs.Add(field, "is required")
		case errors.Is(err, money.ErrTooManyDecimals):
			errs.Add(field, "must have at most 2 decimal places")
		default:
			errs.Add(field, "must be a number")
		}
		return decimal.Zero
	}

	switch rule {
	case Positive:
		if !d.IsPositive() {
			errs.Add(field, "must be greater than 0")
		}
	case NonNegative:
		if d.IsNegative() {
			errs.Add(field, "must not be negative")
		}
	}
	return d
}

// OptionalRate parses an optional interest rate; blank yields zero, negatives fail
func OptionalRate(errs *Errors, field, raw string) decimal.Decimal {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		errs.Add(field, "must be a number")
		return decimal.Zero
	}
	if d.IsNegative() {
		errs.Add(field, "must not be negative")
	}
	return d
}

// Date parses a required YYYY-MM-DD date
func Date(errs *Errors, field, raw string) time.Time {
	v := strings.TrimSpace(raw)
	if v == "" {
		errs.Add(field, "is required")
		return time.Time{}
	}
	t, err := parseDate(v)
	if err != nil {
		errs.Add(field, "must be a date (YYYY-MM-DD)")
	}
	return t
}

// OptionalDate parses an optional YYYY-MM-DD date
func OptionalDate(errs *Errors, field, raw string) *time.Time {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	t, err := parseDate(v)
	if err != nil {
		errs.Add(field, "must be a date (YYYY-MM-DD)")
		return nil
	}
	return &t
}

// ID parses a required positive integer identifier
func ID(errs *Errors, field, raw string) int64 {
	v := strings.TrimSpace(raw)
	if v == "" {
		errs.Add(field, "is required")
		return 0
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		errs.Add(field, "must be a valid id")
		return 0
	}
	return id
}

// OptionalID parses an optional positive integer identifier
func OptionalID(errs *Errors, field, raw string) *int64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	id := ID(errs, field, raw)
	if id == 0 {
		return nil
	}
	return &id
}

// OneOf returns value when it is one of allowed, or def when value is blank
func OneOf(errs *Errors, field, value, def string, allowed ...string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		if def == "" {
			errs.Add(field, "is required")
		}
		return def
	}
	if !slices.Contains(allowed, v) {
		errs.Add(field, "must be one of "+strings.Join(allowed, ", "))
	}
	return v
}

// Bool parses checkbox-style input; blank yields def
func Bool(errs *Errors, field, raw string, def bool) bool {
	v := strings.TrimSpace(strings.ToLower(raw))
	switch v {
	case "":
		return def
	case "on", "yes":
		return true
	case "off", "no":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		errs.Add(field, "must be true or false")
		return def
	}
	return b
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
