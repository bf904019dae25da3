// Package directory provides the customer/account reference data consulted
// by the consent and ledger components: creation of customers and accounts,
// and the lookup operations behind the protected reads.
package directory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/account"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/customer"
	"github.com/LucasAniceto/PaulsenIF/pkg/repository"
	"github.com/LucasAniceto/PaulsenIF/pkg/sequence"
)

// Service implements the directory operations.
type Service struct {
	uow    repository.UnitOfWork
	ids    *sequence.Generator
	logger *slog.Logger
}

// NewService creates a directory service.
func NewService(uow repository.UnitOfWork, ids *sequence.Generator, logger *slog.Logger) *Service {
	return &Service{uow: uow, ids: ids, logger: logger}
}

// CreateCustomer validates the fields, assigns a sequential id and persists
// the customer. Duplicate CPF or email surfaces as a conflict.
func (s *Service) CreateCustomer(ctx context.Context, name, cpf, email string) (c *customer.Customer, err error) {
	logger := s.logger.With("operation", "CreateCustomer")
	c, err = customer.New(name, cpf, email)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		id, err := s.ids.Next(ctx, sequence.ClassCustomer)
		if err != nil {
			return err
		}
		c.ID = id
		return uow.Customers().Create(ctx, c)
	})
	if err != nil {
		logger.Error("customer creation failed", "error", err)
		return nil, err
	}
	logger.Info("customer created", "customerID", c.ID)
	return c, nil
}

// CreateAccount validates the fields, verifies the owning customer exists,
// assigns a sequential id, persists the account with zero balance and links
// it to the customer.
func (s *Service) CreateAccount(ctx context.Context, accountType account.Type, branch, number, customerID string) (a *account.Account, err error) {
	logger := s.logger.With("operation", "CreateAccount", "customerID", customerID)
	a, err = account.New(accountType, branch, number, customerID)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Customers().Get(ctx, customerID); err != nil {
			return err
		}
		id, err := s.ids.Next(ctx, sequence.ClassAccount)
		if err != nil {
			return err
		}
		a.ID = id
		if err := uow.Accounts().Create(ctx, a); err != nil {
			return err
		}
		return uow.Customers().AddAccount(ctx, customerID, a.ID)
	})
	if err != nil {
		logger.Error("account creation failed", "error", err)
		return nil, err
	}
	logger.Info("account created", "accountID", a.ID)
	return a, nil
}

// GetCustomer returns the customer by id.
func (s *Service) GetCustomer(ctx context.Context, id string) (*customer.Customer, error) {
	return s.uow.Customers().Get(ctx, id)
}

// FindCustomerByCPF canonicalizes the CPF and returns the matching customer,
// so formatted and digits-only spellings resolve identically.
func (s *Service) FindCustomerByCPF(ctx context.Context, cpf string) (*customer.Customer, error) {
	canonical := customer.CanonicalCPF(cpf)
	if len(canonical) != 11 {
		return nil, fmt.Errorf("%w: CPF must have 11 digits", domain.ErrValidation)
	}
	return s.uow.Customers().FindByCPF(ctx, canonical)
}

// GetAccount returns the account by id.
func (s *Service) GetAccount(ctx context.Context, id string) (*account.Account, error) {
	return s.uow.Accounts().Get(ctx, id)
}

// FindAccountsByCustomer lists the customer's accounts.
func (s *Service) FindAccountsByCustomer(ctx context.Context, customerID string) ([]*account.Account, error) {
	return s.uow.Accounts().ListByCustomer(ctx, customerID)
}

// FindAccountByBranchAndNumber returns the account with the given pair.
func (s *Service) FindAccountByBranchAndNumber(ctx context.Context, branch, number string) (*account.Account, error) {
	return s.uow.Accounts().FindByBranchAndNumber(ctx, branch, number)
}
