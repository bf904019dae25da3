package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/LucasAniceto/PaulsenIF/infra/repository/memory"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/account"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/consent"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomer(t *testing.T, id, cpf, email string) *customer.Customer {
	t.Helper()
	c, err := customer.New("Maria Silva", cpf, email)
	require.NoError(t, err)
	c.ID = id
	return c
}

func TestCustomers_UniquenessByCPFAndEmail(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	require.NoError(t, s.Customers().Create(ctx, newCustomer(t, "cus_001", "12345678909", "a@b.com")))

	err := s.Customers().Create(ctx, newCustomer(t, "cus_002", "12345678909", "c@d.com"))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists, "duplicate CPF")

	err = s.Customers().Create(ctx, newCustomer(t, "cus_003", "52998224725", "a@b.com"))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists, "duplicate email")
}

func TestCustomers_GetReturnsCopy(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.Customers().Create(ctx, newCustomer(t, "cus_001", "12345678909", "a@b.com")))

	got, err := s.Customers().Get(ctx, "cus_001")
	require.NoError(t, err)
	got.AccountIDs = append(got.AccountIDs, "acc_999")

	again, err := s.Customers().Get(ctx, "cus_001")
	require.NoError(t, err)
	assert.Empty(t, again.AccountIDs, "mutating a returned entity must not touch the store")
}

func TestAccounts_UniquenessByBranchAndNumber(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	a, err := account.New(account.TypeChecking, "0001", "12345-6", "cus_001")
	require.NoError(t, err)
	a.ID = "acc_001"
	require.NoError(t, s.Accounts().Create(ctx, a))

	b, err := account.New(account.TypeSavings, "0001", "12345-6", "cus_002")
	require.NoError(t, err)
	b.ID = "acc_002"
	assert.ErrorIs(t, s.Accounts().Create(ctx, b), domain.ErrAlreadyExists)

	found, err := s.Accounts().FindByBranchAndNumber(ctx, "0001", "12345-6")
	require.NoError(t, err)
	assert.Equal(t, "acc_001", found.ID)
}

func TestConsents_FindUsablePicksMostRecent(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	now := time.Now()

	older := &consent.Consent{
		ID: "cst_a", CustomerID: "cus_001",
		Permissions: []consent.Permission{consent.PermissionAccountsRead},
		Status:      consent.StatusAuthorized,
		CreatedAt:   now.Add(-2 * time.Hour),
		ExpiresAt:   now.Add(time.Hour),
	}
	newer := &consent.Consent{
		ID: "cst_b", CustomerID: "cus_001",
		Permissions: []consent.Permission{consent.PermissionBalancesRead},
		Status:      consent.StatusAuthorized,
		CreatedAt:   now.Add(-time.Hour),
		ExpiresAt:   now.Add(time.Hour),
	}
	require.NoError(t, s.Consents().Create(ctx, older))
	require.NoError(t, s.Consents().Create(ctx, newer))

	got, err := s.Consents().FindUsable(ctx, "cus_001", now)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cst_b", got.ID)
}

func TestConsents_FindUsableSkipsExpiredAndRevoked(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	now := time.Now()

	expired := &consent.Consent{
		ID: "cst_expired", CustomerID: "cus_001",
		Permissions: []consent.Permission{consent.PermissionAccountsRead},
		Status:      consent.StatusAuthorized,
		CreatedAt:   now.Add(-2 * time.Hour),
		ExpiresAt:   now.Add(-time.Minute),
	}
	revoked := &consent.Consent{
		ID: "cst_revoked", CustomerID: "cus_001",
		Permissions: []consent.Permission{consent.PermissionAccountsRead},
		Status:      consent.StatusRevoked,
		CreatedAt:   now.Add(-time.Hour),
		ExpiresAt:   now.Add(time.Hour),
	}
	require.NoError(t, s.Consents().Create(ctx, expired))
	require.NoError(t, s.Consents().Create(ctx, revoked))

	got, err := s.Consents().FindUsable(ctx, "cus_001", now)
	require.NoError(t, err)
	assert.Nil(t, got)
}
