// Package repository defines the persistence ports consumed by the services.
// Two implementations exist: a gorm/Postgres store and an in-memory store
// used by tests and DB-less runs.
package repository

import (
	"context"
	"time"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain/account"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/consent"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/customer"
	"github.com/LucasAniceto/PaulsenIF/pkg/sequence"
)

// CustomerRepository stores customers. Create enforces CPF and email
// uniqueness. Lookups return domain.ErrNotFound wrapped errors when absent.
type CustomerRepository interface {
	Create(ctx context.Context, c *customer.Customer) error
	Get(ctx context.Context, id string) (*customer.Customer, error)
	FindByCPF(ctx context.Context, cpf string) (*customer.Customer, error)
	// AddAccount appends an account id to the customer's account list.
	AddAccount(ctx context.Context, customerID, accountID string) error
}

// AccountRepository stores accounts. Create enforces branch+number
// uniqueness.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	Get(ctx context.Context, id string) (*account.Account, error)
	// GetForUpdate reads the account with per-account mutual exclusion that
	// lasts until the enclosing UnitOfWork.Do returns. Postings to different
	// accounts do not block each other.
	GetForUpdate(ctx context.Context, id string) (*account.Account, error)
	// Update writes the account's balance and transaction list.
	Update(ctx context.Context, a *account.Account) error
	ListByCustomer(ctx context.Context, customerID string) ([]*account.Account, error)
	FindByBranchAndNumber(ctx context.Context, branch, number string) (*account.Account, error)
}

// TransactionRepository stores posted ledger entries. Entries are immutable.
type TransactionRepository interface {
	Create(ctx context.Context, t *account.Transaction) error
	ListByAccount(ctx context.Context, accountID string) ([]*account.Transaction, error)
}

// ConsentRepository stores consent grants.
type ConsentRepository interface {
	Create(ctx context.Context, c *consent.Consent) error
	Get(ctx context.Context, id string) (*consent.Consent, error)
	UpdateStatus(ctx context.Context, id string, status consent.Status) error
	// FindUsable returns the most recently created consent for the customer
	// with status AUTHORIZED and expiresAt after now, or (nil, nil) when none
	// exists. The store does not structurally prevent more than one.
	FindUsable(ctx context.Context, customerID string, now time.Time) (*consent.Consent, error)
}

// UnitOfWork groups repository access with a transaction boundary, in the
// shape services consume. Accessors used outside Do operate on the base
// session; inside Do they share the transaction passed to fn.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error
	// the transaction is rolled back where the store supports rollback.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Customers() CustomerRepository
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Consents() ConsentRepository
	Counters() sequence.CounterStore
}
