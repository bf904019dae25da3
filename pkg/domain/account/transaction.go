package account

import (
	"time"

	"github.com/LucasAniceto/PaulsenIF/pkg/money"
)

// TransactionType distinguishes credits from debits.
type TransactionType string

// Transaction types. Credits add to the balance, debits subtract.
const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == Credit || t == Debit
}

// Transaction is a posted ledger entry. Immutable once created.
type Transaction struct {
	ID          string          `json:"_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      money.Money     `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	AccountID   string          `json:"accountId"`
}
