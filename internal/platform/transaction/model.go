package transaction

import (
	"github.com/kislikjeka/finboard/pkg/money"
)

// Transaction types
const (
	TypeExpense     = "expense"
	TypeIncome      = "income"
	TypeLoanPayment = "loan_payment"
)

// Types lists every accepted transaction type
var Types = []string{TypeExpense, TypeIncome, TypeLoanPayment}

// Transaction is a realized money movement on an account. There is no edit path.
type Transaction struct {
	ID            int64        `json:"id"`
	Type          string       `json:"type"`
	Amount        money.Number `json:"amount"`
	Date          string       `json:"date"`
	AccountID     int64        `json:"account_id"`
	CategoryID    int64        `json:"category_id"`
	SubcategoryID *int64       `json:"subcategory_id,omitempty"`
	LoanID        *int64       `json:"loan_id,omitempty"`
	Description   *string      `json:"description,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
	Attachments   []Attachment `json:"attachments,omitempty"`
}

// Attachment is a voucher (receipt, invoice) stored with a transaction
type Attachment struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type,omitempty"`
	URL      string `json:"url,omitempty"`
}

