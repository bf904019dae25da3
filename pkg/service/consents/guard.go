package consents

import (
	"context"
	"fmt"
	"strings"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/consent"
)

// Authorize is the single authorization check behind every protected read.
// It resolves the customer's usable consent and verifies it carries every
// required permission. On success the consent is returned for the caller to
// attach to the request.
func (s *Service) Authorize(ctx context.Context, customerID string, required ...consent.Permission) (*consent.Consent, error) {
	c, err := s.FindUsable(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: no active consent for customer", domain.ErrForbidden)
	}
	if missing := c.Missing(required...); len(missing) > 0 {
		return nil, fmt.Errorf("%w: insufficient permissions, missing %s",
			domain.ErrForbidden, joinPermissions(missing))
	}
	return c, nil
}

// AuthorizeAccount authorizes a read on an account-scoped resource by
// resolving the account's owning customer first. The authorization logic
// itself is exactly Authorize; only the customer derivation differs.
func (s *Service) AuthorizeAccount(ctx context.Context, accountID string, required ...consent.Permission) (*consent.Consent, error) {
	a, err := s.uow.Accounts().Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.Authorize(ctx, a.CustomerID, required...)
}

func joinPermissions(perms []consent.Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
