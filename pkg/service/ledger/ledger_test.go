package ledger_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/LucasAniceto/PaulsenIF/infra/repository/memory"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/account"
	"github.com/LucasAniceto/PaulsenIF/pkg/repository"
	"github.com/LucasAniceto/PaulsenIF/pkg/sequence"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*ledger.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	ids := sequence.NewGenerator(store.Counters())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ledger.NewService(store, ids, logger), store
}

func seedAccount(t *testing.T, store *memory.Store, id string) {
	t.Helper()
	a, err := account.New(account.TypeChecking, "0001", id, "cus_001")
	require.NoError(t, err)
	a.ID = id
	require.NoError(t, store.Accounts().Create(context.Background(), a))
}

func TestPost_CreditThenDebit(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()
	seedAccount(t, store, "acc_001")

	credit, err := svc.Post(ctx, ledger.Request{
		AccountID:   "acc_001",
		Amount:      150.00,
		Type:        account.Credit,
		Description: "salary",
		Category:    "income",
	})
	require.NoError(t, err)
	assert.Equal(t, "txn_001", credit.ID)

	debit, err := svc.Post(ctx, ledger.Request{
		AccountID:   "acc_001",
		Amount:      50.00,
		Type:        account.Debit,
		Description: "groceries",
		Category:    "food",
	})
	require.NoError(t, err)
	assert.Equal(t, "txn_002", debit.ID)

	a, err := store.Accounts().Get(ctx, "acc_001")
	require.NoError(t, err)
	assert.Equal(t, "100.00", a.Balance.String())
	assert.Equal(t, []string{"txn_001", "txn_002"}, a.TransactionIDs)

	list, err := svc.Transactions(ctx, "acc_001")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "txn_001", list[0].ID)
	assert.Equal(t, "txn_002", list[1].ID)
}

func TestPost_DebitOverBalance(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()
	seedAccount(t, store, "acc_001")

	_, err := svc.Post(ctx, ledger.Request{
		AccountID:   "acc_001",
		Amount:      10.00,
		Type:        account.Debit,
		Description: "overdraft attempt",
		Category:    "misc",
	})
	require.ErrorIs(t, err, account.ErrInsufficientFunds)

	a, err := store.Accounts().Get(ctx, "acc_001")
	require.NoError(t, err)
	assert.True(t, a.Balance.IsZero(), "a rejected debit must not touch the balance")
	assert.Empty(t, a.TransactionIDs, "a rejected debit must not record a transaction")
}

func TestPost_UnknownAccount(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.Post(context.Background(), ledger.Request{
		AccountID:   "acc_404",
		Amount:      10.00,
		Type:        account.Credit,
		Description: "x",
		Category:    "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPost_Validation(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()
	seedAccount(t, store, "acc_001")

	cases := []struct {
		name string
		req  ledger.Request
	}{
		{"zero amount", ledger.Request{AccountID: "acc_001", Amount: 0, Type: account.Credit, Description: "x", Category: "x"}},
		{"negative amount", ledger.Request{AccountID: "acc_001", Amount: -5, Type: account.Credit, Description: "x", Category: "x"}},
		{"amount over ledger max", ledger.Request{AccountID: "acc_001", Amount: 1_000_000_000, Type: account.Credit, Description: "x", Category: "x"}},
		{"unknown type", ledger.Request{AccountID: "acc_001", Amount: 10, Type: "transfer", Description: "x", Category: "x"}},
		{"blank description", ledger.Request{AccountID: "acc_001", Amount: 10, Type: account.Credit, Description: "  ", Category: "x"}},
		{"blank category", ledger.Request{AccountID: "acc_001", Amount: 10, Type: account.Credit, Description: "x", Category: ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Post(ctx, tc.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	a, err := store.Accounts().Get(ctx, "acc_001")
	require.NoError(t, err)
	assert.True(t, a.Balance.IsZero())
	assert.Empty(t, a.TransactionIDs)
}

func TestPost_ConcurrentCreditsDoNotLoseUpdates(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()
	seedAccount(t, store, "acc_001")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Post(ctx, ledger.Request{
				AccountID:   "acc_001",
				Amount:      10.00,
				Type:        account.Credit,
				Description: "deposit",
				Category:    "income",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	a, err := store.Accounts().Get(ctx, "acc_001")
	require.NoError(t, err)
	assert.Equal(t, "200.00", a.Balance.String())
	assert.Len(t, a.TransactionIDs, workers)
}

func TestPost_RoundsAmountToCents(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()
	seedAccount(t, store, "acc_001")

	tx, err := svc.Post(ctx, ledger.Request{
		AccountID:   "acc_001",
		Amount:      10.004,
		Type:        account.Credit,
		Description: "interest",
		Category:    "income",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), tx.Amount.Cents())

	a, err := store.Accounts().Get(ctx, "acc_001")
	require.NoError(t, err)
	assert.Equal(t, "10.00", a.Balance.String())
}

// updateFailStore delegates to the memory store but fails every account
// update, simulating a store that dies between the two writes of a posting.
type updateFailStore struct {
	*memory.Store
}

func (s *updateFailStore) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return s.Store.Do(ctx, func(inner repository.UnitOfWork) error {
		return fn(&updateFailUow{inner})
	})
}

type updateFailUow struct {
	repository.UnitOfWork
}

func (u *updateFailUow) Accounts() repository.AccountRepository {
	return failingAccounts{u.UnitOfWork.Accounts()}
}

type failingAccounts struct {
	repository.AccountRepository
}

func (failingAccounts) Update(ctx context.Context, a *account.Account) error {
	return errors.New("connection reset")
}

func TestPost_BalanceWriteFailureSurfacesPartialPosting(t *testing.T) {
	base := memory.New()
	ctx := context.Background()
	seedAccount(t, base, "acc_001")

	ids := sequence.NewGenerator(base.Counters())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := ledger.NewService(&updateFailStore{base}, ids, logger)

	_, err := svc.Post(ctx, ledger.Request{
		AccountID:   "acc_001",
		Amount:      25.00,
		Type:        account.Credit,
		Description: "deposit",
		Category:    "income",
	})
	require.ErrorIs(t, err, ledger.ErrPartialPosting)

	// The memory store has no rollback: the transaction record remains while
	// the balance write never landed. That inconsistency is exactly what the
	// error reports.
	recorded, listErr := base.Transactions().ListByAccount(ctx, "acc_001")
	require.NoError(t, listErr)
	require.Len(t, recorded, 1)
	assert.Equal(t, int64(2500), recorded[0].Amount.Cents())

	a, getErr := base.Accounts().Get(ctx, "acc_001")
	require.NoError(t, getErr)
	assert.True(t, a.Balance.IsZero())
	assert.Empty(t, a.TransactionIDs)
}

func TestTransactions_UnknownAccount(t *testing.T) {
	svc, _ := newFixture(t)
	_, err := svc.Transactions(context.Background(), "acc_404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
