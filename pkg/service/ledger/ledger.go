// Package ledger applies transactions to accounts: it validates funds, posts
// the entry and mutates the account balance as one logical unit.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/account"
	"github.com/LucasAniceto/PaulsenIF/pkg/money"
	"github.com/LucasAniceto/PaulsenIF/pkg/repository"
	"github.com/LucasAniceto/PaulsenIF/pkg/sequence"
)

// ErrPartialPosting is returned when the transaction record was created but
// the balance update failed. Stores that support rollback undo the record;
// where they cannot, the ledger is left inconsistent and this error is the
// reconciliation signal. It is never swallowed.
var ErrPartialPosting = errors.New("posting could not be applied atomically")

// Request carries the fields of one posting.
type Request struct {
	AccountID   string
	Amount      float64
	Type        account.TransactionType
	Description string
	Category    string
}

// Service is the ledger engine.
type Service struct {
	uow    repository.UnitOfWork
	ids    *sequence.Generator
	logger *slog.Logger
}

// NewService creates a ledger service.
func NewService(uow repository.UnitOfWork, ids *sequence.Generator, logger *slog.Logger) *Service {
	return &Service{uow: uow, ids: ids, logger: logger}
}

// Post applies one transaction to an account.
//
// Preconditions are checked in order, each with a distinct failure: the
// account must exist; the amount must round to a positive value within the
// ledger maximum; the type must be credit or debit; description and category
// must be non-empty; a debit must not exceed the balance.
//
// The account row is read under per-account mutual exclusion, so two
// postings to the same account never interleave their read-balance and
// write-balance steps; postings to different accounts are independent.
func (s *Service) Post(ctx context.Context, req Request) (t *account.Transaction, err error) {
	logger := s.logger.With(
		"operation", "PostTransaction",
		"accountID", req.AccountID,
		"type", req.Type,
	)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		a, err := uow.Accounts().GetForUpdate(ctx, req.AccountID)
		if err != nil {
			return err
		}
		amount, err := money.FromFloat(req.Amount)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		if !req.Type.Valid() {
			return fmt.Errorf("%w: transaction type must be %q or %q",
				domain.ErrValidation, account.Credit, account.Debit)
		}
		if strings.TrimSpace(req.Description) == "" {
			return fmt.Errorf("%w: description is required", domain.ErrValidation)
		}
		if strings.TrimSpace(req.Category) == "" {
			return fmt.Errorf("%w: category is required", domain.ErrValidation)
		}

		newBalance := a.Balance
		if req.Type == account.Debit {
			newBalance, err = a.Balance.Sub(amount)
			if err != nil {
				return fmt.Errorf("%w: balance %s, debit %s",
					account.ErrInsufficientFunds, a.Balance, amount)
			}
		} else {
			newBalance = a.Balance.Add(amount)
		}

		id, err := s.ids.Next(ctx, sequence.ClassTransaction)
		if err != nil {
			return err
		}
		t = &account.Transaction{
			ID:          id,
			Date:        time.Now().UTC(),
			Description: strings.TrimSpace(req.Description),
			Amount:      amount,
			Type:        req.Type,
			Category:    strings.TrimSpace(req.Category),
			AccountID:   a.ID,
		}
		if err := uow.Transactions().Create(ctx, t); err != nil {
			return err
		}

		a.Balance = newBalance
		a.TransactionIDs = append(a.TransactionIDs, t.ID)
		if err := uow.Accounts().Update(ctx, a); err != nil {
			return fmt.Errorf("%w: transaction %s: %v", ErrPartialPosting, t.ID, err)
		}
		return nil
	})
	if err != nil {
		logger.Error("posting failed", "error", err)
		return nil, err
	}
	logger.Info("transaction posted", "transactionID", t.ID, "amount", t.Amount)
	return t, nil
}

// Transactions lists an account's posted entries in creation order, which is
// the order of the account's transaction id list. The account must exist.
func (s *Service) Transactions(ctx context.Context, accountID string) ([]*account.Transaction, error) {
	a, err := s.uow.Accounts().Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	all, err := s.uow.Transactions().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*account.Transaction, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}
	out := make([]*account.Transaction, 0, len(a.TransactionIDs))
	for _, id := range a.TransactionIDs {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
