package pending

import (
	"net/url"
	"slices"
	"strings"

	"github.com/kislikjeka/finboard/internal/platform/validation"
	"github.com/kislikjeka/finboard/pkg/money"
)

const dateLayout = "2006-01-02"

// Form is the raw create-pending-payment submission
type Form struct {
	Name            string `json:"name"`
	Amount          string `json:"amount"`
	DueDate         string `json:"due_date"`
	Priority        string `json:"priority"`
	CategoryID      string `json:"category_id"`
	SubcategoryID   string `json:"subcategory_id"`
	AccountID       string `json:"account_id"`
	DebtID          string `json:"debt_id"`
	LoanID          string `json:"loan_id"`
	Notes           string `json:"notes"`
	ReminderEnabled string `json:"reminder_enabled"`
}

// Input is the create-pending-payment request body. Numeric fields are coerced from
// the form strings; due_date is sent as null when absent.
type Input struct {
	Name            string       `json:"name"`
	Amount          money.Number `json:"amount"`
	DueDate         *string      `json:"due_date"`
	Priority        string       `json:"priority"`
	CategoryID      *int64       `json:"category_id,omitempty"`
	SubcategoryID   *int64       `json:"subcategory_id,omitempty"`
	AccountID       *int64       `json:"account_id,omitempty"`
	DebtID          *int64       `json:"debt_id,omitempty"`
	LoanID          *int64       `json:"loan_id,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
	ReminderEnabled bool         `json:"reminder_enabled"`
}

// Validate checks the form and applies defaults: priority medium, reminders on.
func (f Form) Validate() (Input, error) {
	var errs validation.Errors
	in := Input{
		Name:            validation.Required(&errs, "name", f.Name),
		Amount:          money.NewNumber(validation.Amount(&errs, "amount", f.Amount, validation.Positive)),
		Priority:        validation.OneOf(&errs, "priority", f.Priority, PriorityMedium, Priorities...),
		CategoryID:      validation.OptionalID(&errs, "category_id", f.CategoryID),
		SubcategoryID:   validation.OptionalID(&errs, "subcategory_id", f.SubcategoryID),
		AccountID:       validation.OptionalID(&errs, "account_id", f.AccountID),
		DebtID:          validation.OptionalID(&errs, "debt_id", f.DebtID),
		LoanID:          validation.OptionalID(&errs, "loan_id", f.LoanID),
		Notes:           validation.Optional(f.Notes),
		ReminderEnabled: validation.Bool(&errs, "reminder_enabled", f.ReminderEnabled, true),
	}
	validation.MaxLength(&errs, "name", in.Name, 100)

	if due := validation.OptionalDate(&errs, "due_date", f.DueDate); due != nil {
		s := due.Format(dateLayout)
		in.DueDate = &s
	}
	if in.SubcategoryID != nil && in.CategoryID == nil && !errs.Has("category_id") {
		errs.Add("category_id", "is required when a subcategory is selected")
	}

	return in, errs.Err()
}

// PayForm is the raw mark-as-paid submission
type PayForm struct {
	AccountID       string `json:"account_id"`
	TransactionDate string `json:"transaction_date"`
	Notes           string `json:"notes"`
}

// PayInput is the mark-as-paid request body
type PayInput struct {
	AccountID       int64   `json:"account_id"`
	TransactionDate string  `json:"transaction_date"`
	Notes           *string `json:"notes,omitempty"`
}

// Validate checks the mark-as-paid form
func (f PayForm) Validate() (PayInput, error) {
	var errs validation.Errors
	in := PayInput{
		AccountID: validation.ID(&errs, "account_id", f.AccountID),
		Notes:     validation.Optional(f.Notes),
	}
	if d := validation.Date(&errs, "transaction_date", f.TransactionDate); !d.IsZero() {
		in.TransactionDate = d.Format(dateLayout)
	}
	return in, errs.Err()
}

// Filter narrows a pending payment list. Empty fields match everything.
type Filter struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// ParseFilter reads status and priority from query values; unknown values are dropped
func ParseFilter(q url.Values) Filter {
	f := Filter{
		Status:   strings.ToLower(strings.TrimSpace(q.Get("status"))),
		Priority: strings.ToLower(strings.TrimSpace(q.Get("priority"))),
	}
	if !slices.Contains(Statuses, f.Status) {
		f.Status = ""
	}
	if !slices.Contains(Priorities, f.Priority) {
		f.Priority = ""
	}
	return f
}

// Query encodes the filter for the API
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Priority != "" {
		q.Set("priority", f.Priority)
	}
	return q
}

// Match applies the filter to a derived view. An overdue filter also matches pending
// payments whose date has passed, since the stored status can lag behind the calendar.
func (f Filter) Match(v View) bool {
	if f.Priority != "" && v.Priority != f.Priority {
		return false
	}
	switch f.Status {
	case "":
		return true
	case StatusOverdue:
		return v.Due.Overdue && !v.Settled()
	case StatusPending:
		return v.Status == StatusPending && !v.Due.Overdue
	default:
		return v.Status == f.Status
	}
}
