package directory_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/LucasAniceto/PaulsenIF/infra/repository/memory"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/account"
	"github.com/LucasAniceto/PaulsenIF/pkg/sequence"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) *directory.Service {
	t.Helper()
	store := memory.New()
	ids := sequence.NewGenerator(store.Counters())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return directory.NewService(store, ids, logger)
}

func TestCreateCustomer_AssignsSequentialIDs(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	first, err := svc.CreateCustomer(ctx, "Maria Silva", "123.456.789-09", "maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cus_001", first.ID)
	assert.Equal(t, "12345678909", first.CPF, "CPF is stored digits-only")

	second, err := svc.CreateCustomer(ctx, "João Souza", "529.982.247-25", "joao@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cus_002", second.ID)
}

func TestCreateCustomer_DuplicateCPF(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, "Maria Silva", "12345678909", "maria@example.com")
	require.NoError(t, err)

	_, err = svc.CreateCustomer(ctx, "Outra Maria", "123.456.789-09", "outra@example.com")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists, "formatted spelling of the same CPF conflicts")

	_, err = svc.CreateCustomer(ctx, "Outra Maria", "52998224725", "maria@example.com")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists, "duplicate email conflicts")
}

func TestCreateCustomer_Validation(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name, customerName, cpf, email string
	}{
		{"short name", "M", "12345678909", "m@example.com"},
		{"name with digits", "Maria 2", "12345678909", "m@example.com"},
		{"bad CPF checksum", "Maria Silva", "12345678900", "m@example.com"},
		{"repeated-digit CPF", "Maria Silva", "11111111111", "m@example.com"},
		{"bad email", "Maria Silva", "12345678909", "not-an-email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(ctx, tc.customerName, tc.cpf, tc.email)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestFindCustomerByCPF_CanonicalizesLookup(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, "Maria Silva", "123.456.789-09", "maria@example.com")
	require.NoError(t, err)

	for _, spelling := range []string{"12345678909", "123.456.789-09"} {
		got, err := svc.FindCustomerByCPF(ctx, spelling)
		require.NoError(t, err, "spelling %q", spelling)
		assert.Equal(t, created.ID, got.ID)
	}

	_, err = svc.FindCustomerByCPF(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.FindCustomerByCPF(ctx, "52998224725")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateAccount_LinksToCustomer(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, "Maria Silva", "12345678909", "maria@example.com")
	require.NoError(t, err)

	a, err := svc.CreateAccount(ctx, account.TypeChecking, "0001", "12345-6", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "acc_001", a.ID)
	assert.True(t, a.Balance.IsZero(), "accounts open with zero balance")

	got, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"acc_001"}, got.AccountIDs)

	list, err := svc.FindAccountsByCustomer(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "acc_001", list[0].ID)
}

func TestCreateAccount_UnknownCustomer(t *testing.T) {
	svc := newFixture(t)

	_, err := svc.CreateAccount(context.Background(), account.TypeSavings, "0001", "12345-6", "cus_404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateAccount_DuplicateBranchAndNumber(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, "Maria Silva", "12345678909", "maria@example.com")
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, account.TypeChecking, "0001", "12345-6", c.ID)
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, account.TypeSavings, "0001", "12345-6", c.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCreateAccount_ConcurrentCreationsKeepEveryLink(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, "Maria Silva", "12345678909", "maria@example.com")
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.CreateAccount(ctx, account.TypeChecking, "0001", fmt.Sprintf("%05d-%d", n, n%10), c.ID)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, got.AccountIDs, workers, "no appended account id may be lost")
}

func TestCreateAccount_Validation(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "investment", "0001", "12345-6", "cus_001")
	assert.ErrorIs(t, err, domain.ErrValidation, "unknown account type")

	_, err = svc.CreateAccount(ctx, account.TypeChecking, "", "12345-6", "cus_001")
	assert.ErrorIs(t, err, domain.ErrValidation, "blank branch")

	_, err = svc.CreateAccount(ctx, account.TypeChecking, "0001", "", "cus_001")
	assert.ErrorIs(t, err, domain.ErrValidation, "blank number")
}

func TestFindAccountByBranchAndNumber(t *testing.T) {
	svc := newFixture(t)
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, "Maria Silva", "12345678909", "maria@example.com")
	require.NoError(t, err)
	created, err := svc.CreateAccount(ctx, account.TypeChecking, "0001", "12345-6", c.ID)
	require.NoError(t, err)

	got, err := svc.FindAccountByBranchAndNumber(ctx, "0001", "12345-6")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.FindAccountByBranchAndNumber(ctx, "0002", "12345-6")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
