package pending

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finboard/internal/platform/duedate"
	"github.com/kislikjeka/finboard/pkg/money"
)

// Statuses. pending and overdue are live; paid and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusOverdue   = "overdue"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var (
	Statuses   = []string{StatusPending, StatusOverdue, StatusPaid, StatusCancelled}
	Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}
)

// PendingPayment is an obligation not yet realized as a transaction
type PendingPayment struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"`
	Amount          money.Number `json:"amount"`
	DueDate         *string      `json:"due_date"`
	Priority        string       `json:"priority"`
	Status          string       `json:"status"`
	CategoryID      *int64       `json:"category_id,omitempty"`
	SubcategoryID   *int64       `json:"subcategory_id,omitempty"`
	AccountID       *int64       `json:"account_id,omitempty"`
	DebtID          *int64       `json:"debt_id,omitempty"`
	LoanID          *int64       `json:"loan_id,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
	ReminderEnabled bool         `json:"reminder_enabled"`
	TransactionID   *int64       `json:"transaction_id,omitempty"`
	PaidDate        *string      `json:"paid_date,omitempty"`
}

// Settled reports whether the payment reached a terminal status
func (p *PendingPayment) Settled() bool {
	return p.Status == StatusPaid || p.Status == StatusCancelled
}

// View is a pending payment with its derived due-date labels
type View struct {
	PendingPayment
	Due duedate.Info `json:"due"`
}

// NewView derives the display fields of p at now. Settled payments carry no day count.
func NewView(p PendingPayment, now time.Time) View {
	var due *time.Time
	if p.DueDate != nil && !p.Settled() {
		due = duedate.ParseDueDate(*p.DueDate)
	}
	return View{
		PendingPayment: p,
		Due:            duedate.Describe(due, p.Status, duedate.PendingPaymentUrgency, now),
	}
}

// Sort orders views for display: overdue first, then soonest due, undated last.
// Ties keep the priority order high, medium, low.
func Sort(views []View) {
	slices.SortStableFunc(views, func(a, b View) int {
		if a.Due.Overdue != b.Due.Overdue {
			if a.Due.Overdue {
				return -1
			}
			return 1
		}
		switch {
		case a.Due.DaysUntil == nil && b.Due.DaysUntil != nil:
			return 1
		case a.Due.DaysUntil != nil && b.Due.DaysUntil == nil:
			return -1
		case a.Due.DaysUntil != nil && b.Due.DaysUntil != nil && *a.Due.DaysUntil != *b.Due.DaysUntil:
			return cmp.Compare(*a.Due.DaysUntil, *b.Due.DaysUntil)
		}
		return cmp.Compare(priorityRank(a.Priority), priorityRank(b.Priority))
	})
}

func priorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Summary aggregates the open payments of a list
type Summary struct {
	Open      int          `json:"open"`
	Overdue   int          `json:"overdue"`
	Urgent    int          `json:"urgent"`
	TotalOpen money.Number `json:"total_open"`
}

// Summarize counts open, overdue and urgent payments and sums what is still to pay
func Summarize(views []View) Summary {
	var s Summary
	var open []decimal.Decimal
	for _, v := range views {
		if v.Settled() {
			continue
		}
		s.Open++
		open = append(open, v.Amount.Decimal)
		if v.Due.Overdue {
			s.Overdue++
		} else if v.Due.Urgent {
			s.Urgent++
		}
	}
	s.TotalOpen = money.NewNumber(money.Sum(open...))
	return s
}
