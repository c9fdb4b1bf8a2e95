package debt

import (
	"github.com/kislikjeka/finboard/internal/platform/validation"
	"github.com/kislikjeka/finboard/pkg/money"
)

// Form is the raw create-debt submission
type Form struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	OriginalAmount  string `json:"original_amount"`
	InterestRate    string `json:"interest_rate"`
	DueDate         string `json:"due_date"`
	Notes           string `json:"notes"`
	HasInstallments string `json:"has_installments"`
}

// Input is the create-debt request body
type Input struct {
	Name            string        `json:"name"`
	Type            string        `json:"type"`
	OriginalAmount  money.Number  `json:"original_amount"`
	InterestRate    *money.Number `json:"interest_rate,omitempty"`
	DueDate         *string       `json:"due_date,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	HasInstallments bool          `json:"has_installments"`
}

// Validate checks the form. The returned error, when non-nil, is validation.Errors.
func (f Form) Validate() (Input, error) {
	var errs validation.Errors
	in := Input{
		Name:            validation.Required(&errs, "name", f.Name),
		Type:            validation.OneOf(&errs, "type", f.Type, TypeOther, Types...),
		OriginalAmount:  money.NewNumber(validation.Amount(&errs, "original_amount", f.OriginalAmount, validation.Positive)),
		Notes:           validation.Optional(f.Notes),
		HasInstallments: validation.Bool(&errs, "has_installments", f.HasInstallments, false),
	}
	if validation.Optional(f.InterestRate) != nil {
		rate := money.NewNumber(validation.OptionalRate(&errs, "interest_rate", f.InterestRate))
		in.InterestRate = &rate
	}
	if due := validation.OptionalDate(&errs, "due_date", f.DueDate); due != nil {
		s := due.Format("2006-01-02")
		in.DueDate = &s
	}
	return in, errs.Err()
}
