package account

import (
	"github.com/shopspring/decimal"

	"github.com/kislikjeka/finboard/internal/platform/transaction"
	"github.com/kislikjeka/finboard/pkg/money"
)

// Account is a place money is held. Balances change only through transactions.
type Account struct {
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	Balance money.Number `json:"balance"`
	Icon    string       `json:"icon,omitempty"`
	Color   string       `json:"color,omitempty"`
}

// Page selects a window of an account's transactions
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Pagination describes the window returned by the API
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// Detail is an account with one page of its transactions
type Detail struct {
	Account
	Transactions []transaction.Transaction `json:"transactions"`
	Pagination   Pagination                `json:"pagination"`
}

// HasMore reports whether another page follows
func (d *Detail) HasMore() bool {
	return d.Pagination.Offset+len(d.Transactions) < d.Pagination.Total
}

// TotalBalance sums the balances of accounts
func TotalBalance(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance.Decimal)
	}
	return total
}
