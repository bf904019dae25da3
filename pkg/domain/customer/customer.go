// Package customer defines the Customer entity and its field rules.
package customer

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
)

var (
	nameRe  = regexp.MustCompile(`^[\p{L}\s]+$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Customer is a bank customer. Accounts are appended over time; everything
// else is written once at creation.
type Customer struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	CPF        string    `json:"cpf"`
	Email      string    `json:"email"`
	AccountIDs []string  `json:"accounts"`
	CreatedAt  time.Time `json:"createdAt"`
}

// New validates the given fields and returns a Customer without an ID; the
// caller assigns one from the sequence generator before persisting. The CPF
// is stored in canonical digits-only form and the email is lowercased.
func New(name, cpf, email string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return nil, fmt.Errorf("%w: name must have between 2 and 100 characters", domain.ErrValidation)
	}
	if !nameRe.MatchString(name) {
		return nil, fmt.Errorf("%w: name must contain only letters and spaces", domain.ErrValidation)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	canonical := CanonicalCPF(cpf)
	if !ValidCPF(canonical) {
		return nil, fmt.Errorf("%w: invalid CPF", domain.ErrValidation)
	}
	return &Customer{
		Name:       name,
		CPF:        canonical,
		Email:      email,
		AccountIDs: []string{},
		CreatedAt:  time.Now().UTC(),
	}, nil
}
