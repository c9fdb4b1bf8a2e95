package query

import (
	"strconv"
	"strings"
)

// Key identifies a cached view. Segments are joined with ':' so Key{"loan", "7"} is "loan:7".
// Invalidating a key also invalidates every key it prefixes segment by segment:
// Key{"accounts"} covers Key{"accounts", "3", "0", "20"}.
type Key []string

// String renders the key
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Covers reports whether k is a segment prefix of other (or equal to it)
func (k Key) Covers(other Key) bool {
	if len(k) > len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// Semantic keys shared by every screen and mutation
var (
	KeyAccounts        = Key{"accounts"}
	KeyTransactions    = Key{"transactions"}
	KeyLoans           = Key{"loans"}
	KeyDebts           = Key{"debts"}
	KeyCategories      = Key{"categories"}
	KeyPendingPayments = Key{"pending-payments"}
	KeyAuthProbe       = Key{"auth-me"}
)

// AccountKey is one account's detail page
func AccountKey(id int64, offset, limit int) Key {
	return Key{"accounts", strconv.FormatInt(id, 10), strconv.Itoa(offset), strconv.Itoa(limit)}
}

// LoanKey is one loan's detail view ("loan:<id>")
func LoanKey(id int64) Key {
	return Key{"loan", strconv.FormatInt(id, 10)}
}

// PendingPaymentKey is one pending payment's detail view ("pending-payment:<id>")
func PendingPaymentKey(id int64) Key {
	return Key{"pending-payment", strconv.FormatInt(id, 10)}
}

// PendingPaymentsKey is the pending payment list for one priority, under KeyPendingPayments
func PendingPaymentsKey(priority string) Key {
	if priority == "" {
		return KeyPendingPayments
	}
	return Key{"pending-payments", "priority=" + priority}
}
