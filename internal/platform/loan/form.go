package loan

import (
	"github.com/kislikjeka/finboard/internal/platform/transaction"
	"github.com/kislikjeka/finboard/internal/platform/validation"
	"github.com/kislikjeka/finboard/pkg/money"
)

const dateLayout = "2006-01-02"

// Form is the raw create-loan submission
type Form struct {
	DebtorName     string `json:"debtor_name"`
	DebtorContact  string `json:"debtor_contact"`
	OriginalAmount string `json:"original_amount"`
	InterestRate   string `json:"interest_rate"`
	LoanDate       string `json:"loan_date"`
	DueDate        string `json:"due_date"`
	Notes          string `json:"notes"`
	AccountID      string `json:"account_id"`
}

// Input is the create-loan request body
type Input struct {
	DebtorName     string       `json:"debtor_name"`
	DebtorContact  *string      `json:"debtor_contact,omitempty"`
	OriginalAmount money.Number `json:"original_amount"`
	InterestRate   money.Number `json:"interest_rate"`
	LoanDate       string       `json:"loan_date"`
	DueDate        *string      `json:"due_date,omitempty"`
	Notes          *string      `json:"notes,omitempty"`
	AccountID      *int64       `json:"account_id,omitempty"`
}

// Validate checks the form. The returned error, when non-nil, is validation.Errors.
func (f Form) Validate() (Input, error) {
	var errs validation.Errors
	in := Input{
		DebtorName:     validation.Required(&errs, "debtor_name", f.DebtorName),
		DebtorContact:  validation.Optional(f.DebtorContact),
		OriginalAmount: money.NewNumber(validation.Amount(&errs, "original_amount", f.OriginalAmount, validation.Positive)),
		InterestRate:   money.NewNumber(validation.OptionalRate(&errs, "interest_rate", f.InterestRate)),
		Notes:          validation.Optional(f.Notes),
		AccountID:      validation.OptionalID(&errs, "account_id", f.AccountID),
	}
	validation.MaxLength(&errs, "debtor_name", in.DebtorName, 100)

	loanDate := validation.Date(&errs, "loan_date", f.LoanDate)
	if !loanDate.IsZero() {
		in.LoanDate = loanDate.Format(dateLayout)
	}
	if due := validation.OptionalDate(&errs, "due_date", f.DueDate); due != nil {
		if !loanDate.IsZero() && due.Before(loanDate) {
			errs.Add("due_date", "must not be before the loan date")
		}
		s := due.Format(dateLayout)
		in.DueDate = &s
	}

	return in, errs.Err()
}

// PaymentForm is the raw register-payment submission
type PaymentForm struct {
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	AccountID     string `json:"accountId"`
	CategoryID    string `json:"categoryId"`
	SubcategoryID string `json:"subcategoryId"`

	File *validation.File `json:"-"`
}

// TransactionForm routes the payment through the create-transaction path
func (f PaymentForm) TransactionForm(loanID string) transaction.Form {
	return transaction.Form{
		Type:          transaction.TypeLoanPayment,
		Amount:        f.Amount,
		Description:   f.Description,
		Date:          f.Date,
		AccountID:     f.AccountID,
		CategoryID:    f.CategoryID,
		SubcategoryID: f.SubcategoryID,
		LoanID:        loanID,
		File:          f.File,
	}
}
