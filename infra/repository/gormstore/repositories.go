package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/account"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/consent"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/customer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type counterStore struct{ db *gorm.DB }

// IncrementAndGet performs the increment as one atomic statement; the upsert
// initializes the counter to 1 on first use in the same step.
func (c *counterStore) IncrementAndGet(ctx context.Context, class string) (int64, error) {
	var value int64
	err := c.db.WithContext(ctx).Raw(
		`INSERT INTO sequence_counters (name, value) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET value = sequence_counters.value + 1
		 RETURNING value`, class,
	).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("%w: incrementing %s counter: %v", domain.ErrInfrastructure, class, err)
	}
	return value, nil
}

type customerRepo struct{ db *gorm.DB }

func (r *customerRepo) Create(ctx context.Context, c *customer.Customer) error {
	m := customerToModel(c)
	return translate(r.db.WithContext(ctx).Create(&m).Error, "customer", c.ID)
}

func (r *customerRepo) Get(ctx context.Context, id string) (*customer.Customer, error) {
	var m Customer
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "customer", id)
	}
	return customerToDomain(&m), nil
}

func (r *customerRepo) FindByCPF(ctx context.Context, cpf string) (*customer.Customer, error) {
	var m Customer
	if err := r.db.WithContext(ctx).First(&m, "cpf = ?", cpf).Error; err != nil {
		return nil, translate(err, "customer with CPF", cpf)
	}
	return customerToDomain(&m), nil
}

// AddAccount locks the customer row for the read-modify-write of the account
// id list, so concurrent account creations for one customer never lose an
// appended id.
func (r *customerRepo) AddAccount(ctx context.Context, customerID, accountID string) error {
	var m Customer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", customerID).Error
	if err != nil {
		return translate(err, "customer", customerID)
	}
	m.AccountIDs = append(m.AccountIDs, accountID)
	return translate(
		r.db.WithContext(ctx).Model(&Customer{}).Where("id = ?", customerID).
			Update("account_ids", m.AccountIDs).Error,
		"customer", customerID,
	)
}

type accountRepo struct{ db *gorm.DB }

func (r *accountRepo) Create(ctx context.Context, a *account.Account) error {
	m := accountToModel(a)
	return translate(r.db.WithContext(ctx).Create(&m).Error, "account", a.Branch+"/"+a.Number)
}

func (r *accountRepo) Get(ctx context.Context, id string) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "account", id)
	}
	return accountToDomain(&m), nil
}

// GetForUpdate takes a row lock held until the surrounding transaction ends,
// serializing postings per account.
func (r *accountRepo) GetForUpdate(ctx context.Context, id string) (*account.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "account", id)
	}
	return accountToDomain(&m), nil
}

func (r *accountRepo) Update(ctx context.Context, a *account.Account) error {
	return translate(
		r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", a.ID).
			Updates(map[string]any{
				"balance_cents":   a.Balance.Cents(),
				"transaction_ids": a.TransactionIDs,
			}).Error,
		"account", a.ID,
	)
}

func (r *accountRepo) ListByCustomer(ctx context.Context, customerID string) ([]*account.Account, error) {
	var ms []Account
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&ms).Error
	if err != nil {
		return nil, translate(err, "accounts of", customerID)
	}
	out := make([]*account.Account, 0, len(ms))
	for i := range ms {
		out = append(out, accountToDomain(&ms[i]))
	}
	return out, nil
}

func (r *accountRepo) FindByBranchAndNumber(ctx context.Context, branch, number string) (*account.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		First(&m, "branch = ? AND number = ?", branch, number).Error
	if err != nil {
		return nil, translate(err, "account", branch+"/"+number)
	}
	return accountToDomain(&m), nil
}

type transactionRepo struct{ db *gorm.DB }

func (r *transactionRepo) Create(ctx context.Context, t *account.Transaction) error {
	m := transactionToModel(t)
	return translate(r.db.WithContext(ctx).Create(&m).Error, "transaction", t.ID)
}

func (r *transactionRepo) ListByAccount(ctx context.Context, accountID string) ([]*account.Transaction, error) {
	var ms []Transaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id").
		Find(&ms).Error
	if err != nil {
		return nil, translate(err, "transactions of", accountID)
	}
	out := make([]*account.Transaction, 0, len(ms))
	for i := range ms {
		out = append(out, transactionToDomain(&ms[i]))
	}
	return out, nil
}

type consentRepo struct{ db *gorm.DB }

func (r *consentRepo) Create(ctx context.Context, c *consent.Consent) error {
	m := consentToModel(c)
	return translate(r.db.WithContext(ctx).Create(&m).Error, "consent", c.ID)
}

func (r *consentRepo) Get(ctx context.Context, id string) (*consent.Consent, error) {
	var m Consent
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "consent", id)
	}
	return consentToDomain(&m), nil
}

func (r *consentRepo) UpdateStatus(ctx context.Context, id string, status consent.Status) error {
	res := r.db.WithContext(ctx).Model(&Consent{}).Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return translate(res.Error, "consent", id)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: consent %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *consentRepo) FindUsable(ctx context.Context, customerID string, now time.Time) (*consent.Consent, error) {
	var m Consent
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ? AND expires_at > ?",
			customerID, string(consent.StatusAuthorized), now).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translate(err, "consent of", customerID)
	}
	return consentToDomain(&m), nil
}
