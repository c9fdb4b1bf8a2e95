package money

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Number is a decimal that marshals as a bare JSON number ("original_amount": 150.5).
// The upstream API expects numbers in request bodies; decimal.Decimal marshals quoted.
type Number struct {
	decimal.Decimal
}

// NewNumber wraps d
func NewNumber(d decimal.Decimal) Number {
	return Number{Decimal: d}
}

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// UnmarshalJSON accepts 12.5, "12.5" and null
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Decimal = decimal.Zero
		return nil
	}
	return json.Unmarshal(data, &n.Decimal)
}
