package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finboard/internal/platform/duedate"
	"github.com/kislikjeka/finboard/pkg/money"
)

// Loan statuses. The API derives them; they are displayed, never recomputed.
const (
	StatusActive  = "active"
	StatusPartial = "partial"
	StatusOverdue = "overdue"
	StatusPaid    = "paid"
)

// Loan is money the user lent to someone else
type Loan struct {
	ID              int64        `json:"id"`
	DebtorName      string       `json:"debtor_name"`
	DebtorContact   *string      `json:"debtor_contact,omitempty"`
	OriginalAmount  money.Number `json:"original_amount"`
	RemainingAmount money.Number `json:"remaining_amount"`
	InterestRate    money.Number `json:"interest_rate"`
	LoanDate        string       `json:"loan_date"`
	DueDate         *string      `json:"due_date,omitempty"`
	Status          string       `json:"status"`
	AccountID       *int64       `json:"account_id,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
	Payments        []Payment    `json:"payments,omitempty"`
}

// Payment is one repayment received against a loan
type Payment struct {
	ID              int64        `json:"id"`
	LoanID          int64        `json:"loan_id"`
	Amount          money.Number `json:"amount"`
	TransactionDate string       `json:"transaction_date"`
	Description     *string      `json:"description,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
	AccountID       *int64       `json:"account_id,omitempty"`
}

// View is a loan with its derived due-date labels
type View struct {
	Loan
	Due     duedate.Info `json:"due"`
	Repaid  money.Number `json:"repaid"`
	Percent int          `json:"repaid_percent"`
}

// NewView derives the display fields of l at now
func NewView(l Loan, now time.Time) View {
	var due *time.Time
	if l.DueDate != nil {
		due = duedate.ParseDueDate(*l.DueDate)
	}
	if l.Status == StatusPaid {
		// settled loans carry no urgency
		due = nil
	}

	repaid := l.OriginalAmount.Sub(l.RemainingAmount.Decimal)
	percent := 0
	if l.OriginalAmount.IsPositive() {
		percent = int(repaid.Mul(decimal.NewFromInt(100)).Div(l.OriginalAmount.Decimal).IntPart())
	}

	return View{
		Loan:    l,
		Due:     duedate.Describe(due, l.Status, duedate.LoanUrgency, now),
		Repaid:  money.NewNumber(repaid),
		Percent: percent,
	}
}
