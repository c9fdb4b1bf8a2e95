package debt

import (
	"time"

	"github.com/kislikjeka/finboard/internal/platform/duedate"
	"github.com/kislikjeka/finboard/pkg/money"
)

// Debt types
const (
	TypePerson      = "person"
	TypeInstitution = "institution"
	TypeCreditCard  = "credit_card"
	TypeLoan        = "loan"
	TypeMortgage    = "mortgage"
	TypeOther       = "other"
)

// Types lists every accepted debt type
var Types = []string{TypePerson, TypeInstitution, TypeCreditCard, TypeLoan, TypeMortgage, TypeOther}

// Debt is money the user owes
type Debt struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	Type            string        `json:"type"`
	OriginalAmount  money.Number  `json:"original_amount"`
	InterestRate    *money.Number `json:"interest_rate,omitempty"`
	DueDate         *string       `json:"due_date,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	HasInstallments bool          `json:"has_installments"`
}

// View is a debt with its derived due-date labels
type View struct {
	Debt
	Due duedate.Info `json:"due"`
}

// NewView derives the display fields of d at now
func NewView(d Debt, now time.Time) View {
	var due *time.Time
	if d.DueDate != nil {
		due = duedate.ParseDueDate(*d.DueDate)
	}
	return View{Debt: d, Due: duedate.Describe(due, "", duedate.DebtUrgency, now)}
}
