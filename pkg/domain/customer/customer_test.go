package customer_test

import (
	"strings"
	"testing"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalCPF(t *testing.T) {
	assert.Equal(t, "12345678909", customer.CanonicalCPF("123.456.789-09"))
	assert.Equal(t, "12345678909", customer.CanonicalCPF("12345678909"))
	assert.Equal(t, "", customer.CanonicalCPF("abc"))
}

func TestValidCPF(t *testing.T) {
	assert.True(t, customer.ValidCPF("123.456.789-09"))
	assert.True(t, customer.ValidCPF("52998224725"))
	assert.False(t, customer.ValidCPF("12345678900"), "wrong check digit")
	assert.False(t, customer.ValidCPF("11111111111"), "repeated digits")
	assert.False(t, customer.ValidCPF("123456789"), "too short")
}

func TestNew_CanonicalizesFields(t *testing.T) {
	c, err := customer.New("Maria Silva", "123.456.789-09", "Maria@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "12345678909", c.CPF)
	assert.Equal(t, "maria@example.com", c.Email)
	assert.Empty(t, c.ID, "id is assigned by the caller")
	assert.Empty(t, c.AccountIDs)
}

func TestNew_RejectsBadNames(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"too short", "A"},
		{"too long", strings.Repeat("a", 101)},
		{"digits", "Maria 2"},
		{"multiplication sign", "Ma×ria"},
		{"division sign", "Jo÷ao"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := customer.New(tc.value, "12345678909", "a@b.com")
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestNew_AcceptsAccentedNames(t *testing.T) {
	_, err := customer.New("João Conceição", "12345678909", "joao@example.com")
	assert.NoError(t, err)
}

func TestNew_RejectsBadEmailAndCPF(t *testing.T) {
	_, err := customer.New("Maria Silva", "12345678909", "not-an-email")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = customer.New("Maria Silva", "12345678900", "a@b.com")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
