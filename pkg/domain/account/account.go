// Package account defines the Account and Transaction entities of the ledger.
package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/money"
)

// ErrInsufficientFunds is returned when a debit exceeds the account balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Type is the account type.
type Type string

// Account types.
const (
	TypeChecking Type = "checking"
	TypeSavings  Type = "savings"
)

// Valid reports whether t is a known account type.
func (t Type) Valid() bool {
	return t == TypeChecking || t == TypeSavings
}

// Account holds a customer's funds.
//
// Invariants:
//   - branch+number is unique across accounts.
//   - Balance equals the signed sum of all applied transactions, rounded to
//     two decimals after each posting.
//   - Balance and TransactionIDs are mutated only by the ledger engine, under
//     per-account serialization.
type Account struct {
	ID             string      `json:"_id"`
	Type           Type        `json:"type"`
	Branch         string      `json:"branch"`
	Number         string      `json:"number"`
	Balance        money.Money `json:"balance"`
	CustomerID     string      `json:"customerId"`
	TransactionIDs []string    `json:"transactions"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// New validates the given fields and returns an Account with zero balance and
// no ID; the caller assigns one from the sequence generator.
func New(accountType Type, branch, number, customerID string) (*Account, error) {
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: account type must be %q or %q", domain.ErrValidation, TypeChecking, TypeSavings)
	}
	branch = strings.TrimSpace(branch)
	number = strings.TrimSpace(number)
	if branch == "" || number == "" {
		return nil, fmt.Errorf("%w: branch and number are required", domain.ErrValidation)
	}
	if customerID == "" {
		return nil, fmt.Errorf("%w: customerId is required", domain.ErrValidation)
	}
	return &Account{
		Type:           accountType,
		Branch:         branch,
		Number:         number,
		Balance:        money.Zero,
		CustomerID:     customerID,
		TransactionIDs: []string{},
		CreatedAt:      time.Now().UTC(),
	}, nil
}
