package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finboard/internal/platform/validation"
	"github.com/kislikjeka/finboard/internal/query"
)

// Form is the raw create-transaction submission
type Form struct {
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	AccountID     string `json:"accountId"`
	CategoryID    string `json:"categoryId"`
	SubcategoryID string `json:"subcategoryId"`
	LoanID        string `json:"loanId"`

	File *validation.File `json:"-"`
}

// Input is a validated transaction ready for dispatch
type Input struct {
	Type          string
	Amount        decimal.Decimal
	Description   string
	Date          time.Time
	AccountID     int64
	CategoryID    int64
	SubcategoryID *int64
	LoanID        *int64
	File          *validation.File
}

// Validate checks the form. The returned error, when non-nil, is validation.Errors.
func (f Form) Validate() (Input, error) {
	var errs validation.Errors
	in := Input{
		Type:          validation.OneOf(&errs, "type", f.Type, "", Types...),
		Amount:        validation.Amount(&errs, "amount", f.Amount, validation.Positive),
		Description:   f.Description,
		Date:          validation.Date(&errs, "date", f.Date),
		AccountID:     validation.ID(&errs, "accountId", f.AccountID),
		CategoryID:    validation.ID(&errs, "categoryId", f.CategoryID),
		SubcategoryID: validation.OptionalID(&errs, "subcategoryId", f.SubcategoryID),
		LoanID:        validation.OptionalID(&errs, "loanId", f.LoanID),
		File:          f.File,
	}
	validation.MaxLength(&errs, "description", in.Description, 255)
	validation.Attachment(&errs, "file", f.File)

	if in.Type == TypeLoanPayment && in.LoanID == nil && !errs.Has("loanId") {
		errs.Add("loanId", "is required for loan payments")
	}
	if in.Type != TypeLoanPayment {
		// only loan payments are tagged with a loan
		in.LoanID = nil
	}

	return in, errs.Err()
}

// InvalidatedKeys are the views a successful create makes stale
func (in Input) InvalidatedKeys() []query.Key {
	keys := []query.Key{query.KeyAccounts, query.KeyTransactions}
	if in.LoanID != nil {
		keys = append(keys, query.KeyLoans, query.LoanKey(*in.LoanID))
	}
	return keys
}
