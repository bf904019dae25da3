package gormstore

import (
	"time"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain/account"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/consent"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/customer"
	"github.com/LucasAniceto/PaulsenIF/pkg/money"
)

// Customer is the customers table record.
type Customer struct {
	ID         string    `gorm:"primaryKey"`
	Name       string    `gorm:"not null"`
	CPF        string    `gorm:"column:cpf;uniqueIndex;not null"`
	Email      string    `gorm:"uniqueIndex;not null"`
	AccountIDs []string  `gorm:"serializer:json"`
	CreatedAt  time.Time
}

func (Customer) TableName() string { return "customers" }

// Account is the accounts table record. Balance is stored in cents.
type Account struct {
	ID             string    `gorm:"primaryKey"`
	Type           string    `gorm:"not null"`
	Branch         string    `gorm:"uniqueIndex:idx_accounts_branch_number;not null"`
	Number         string    `gorm:"uniqueIndex:idx_accounts_branch_number;not null"`
	BalanceCents   int64
	CustomerID     string    `gorm:"index;not null"`
	TransactionIDs []string  `gorm:"serializer:json"`
	CreatedAt      time.Time
}

func (Account) TableName() string { return "accounts" }

// Transaction is the transactions table record. Amount is stored in cents.
type Transaction struct {
	ID          string    `gorm:"primaryKey"`
	Date        time.Time
	Description string    `gorm:"not null"`
	AmountCents int64
	Type        string    `gorm:"not null"`
	Category    string    `gorm:"not null"`
	AccountID   string    `gorm:"index;not null"`
}

func (Transaction) TableName() string { return "transactions" }

// Consent is the consents table record.
type Consent struct {
	ID          string    `gorm:"primaryKey"`
	CustomerID  string    `gorm:"index;not null"`
	Permissions []string  `gorm:"serializer:json"`
	Status      string    `gorm:"index;not null"`
	CreatedAt   time.Time
	ExpiresAt   time.Time `gorm:"index"`
}

func (Consent) TableName() string { return "consents" }

// SequenceCounter is the sequence_counters table record, one row per class.
type SequenceCounter struct {
	Name  string `gorm:"primaryKey"`
	Value int64
}

func (SequenceCounter) TableName() string { return "sequence_counters" }

func customerToModel(c *customer.Customer) Customer {
	return Customer{
		ID:         c.ID,
		Name:       c.Name,
		CPF:        c.CPF,
		Email:      c.Email,
		AccountIDs: c.AccountIDs,
		CreatedAt:  c.CreatedAt,
	}
}

func customerToDomain(m *Customer) *customer.Customer {
	ids := m.AccountIDs
	if ids == nil {
		ids = []string{}
	}
	return &customer.Customer{
		ID:         m.ID,
		Name:       m.Name,
		CPF:        m.CPF,
		Email:      m.Email,
		AccountIDs: ids,
		CreatedAt:  m.CreatedAt,
	}
}

func accountToModel(a *account.Account) Account {
	return Account{
		ID:             a.ID,
		Type:           string(a.Type),
		Branch:         a.Branch,
		Number:         a.Number,
		BalanceCents:   a.Balance.Cents(),
		CustomerID:     a.CustomerID,
		TransactionIDs: a.TransactionIDs,
		CreatedAt:      a.CreatedAt,
	}
}

func accountToDomain(m *Account) *account.Account {
	ids := m.TransactionIDs
	if ids == nil {
		ids = []string{}
	}
	return &account.Account{
		ID:             m.ID,
		Type:           account.Type(m.Type),
		Branch:         m.Branch,
		Number:         m.Number,
		Balance:        money.FromCents(m.BalanceCents),
		CustomerID:     m.CustomerID,
		TransactionIDs: ids,
		CreatedAt:      m.CreatedAt,
	}
}

func transactionToModel(t *account.Transaction) Transaction {
	return Transaction{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		AmountCents: t.Amount.Cents(),
		Type:        string(t.Type),
		Category:    t.Category,
		AccountID:   t.AccountID,
	}
}

func transactionToDomain(m *Transaction) *account.Transaction {
	return &account.Transaction{
		ID:          m.ID,
		Date:        m.Date,
		Description: m.Description,
		Amount:      money.FromCents(m.AmountCents),
		Type:        account.TransactionType(m.Type),
		Category:    m.Category,
		AccountID:   m.AccountID,
	}
}

func consentToModel(c *consent.Consent) Consent {
	perms := make([]string, len(c.Permissions))
	for i, p := range c.Permissions {
		perms[i] = string(p)
	}
	return Consent{
		ID:          c.ID,
		CustomerID:  c.CustomerID,
		Permissions: perms,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		ExpiresAt:   c.ExpiresAt,
	}
}

func consentToDomain(m *Consent) *consent.Consent {
	perms := make([]consent.Permission, len(m.Permissions))
	for i, p := range m.Permissions {
		perms[i] = consent.Permission(p)
	}
	return &consent.Consent{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		Permissions: perms,
		Status:      consent.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		ExpiresAt:   m.ExpiresAt,
	}
}
