// Package consents owns the consent lifecycle: creation, lookup, expiry
// evaluation and revocation, plus the access guard consulted before every
// protected read.
package consents

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/consent"
	"github.com/LucasAniceto/PaulsenIF/pkg/repository"
)

// Service implements the consent store operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
	// now is swappable in tests.
	now func() time.Time
}

// NewService creates a consent service.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger, now: time.Now}
}

// Create issues an AUTHORIZED consent for the customer. The customer must
// exist, the permissions must be a non-empty subset of the fixed enum, and no
// usable consent may already exist for the customer.
//
// The usable-consent check is check-then-act: two concurrent creations for
// the same customer can both pass it and both succeed. That is the documented
// best-effort contract; no cross-customer locking is introduced for it.
func (s *Service) Create(ctx context.Context, customerID string, permissions []consent.Permission) (c *consent.Consent, err error) {
	logger := s.logger.With("operation", "CreateConsent", "customerID", customerID)
	c, err = consent.New(customerID, permissions)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Customers().Get(ctx, customerID); err != nil {
			return err
		}
		existing, err := uow.Consents().FindUsable(ctx, customerID, s.now())
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: customer already has an active consent", domain.ErrAlreadyExists)
		}
		return uow.Consents().Create(ctx, c)
	})
	if err != nil {
		logger.Error("consent creation failed", "error", err)
		return nil, err
	}
	logger.Info("consent created", "consentID", c.ID, "expiresAt", c.ExpiresAt)
	return c, nil
}

// Get returns the consent by id.
func (s *Service) Get(ctx context.Context, id string) (*consent.Consent, error) {
	return s.uow.Consents().Get(ctx, id)
}

// Revoke sets the consent status to REVOKED unconditionally. Revoking an
// already revoked or expired consent succeeds and yields the same terminal
// state; only an unknown id is an error.
func (s *Service) Revoke(ctx context.Context, id string) (*consent.Consent, error) {
	logger := s.logger.With("operation", "RevokeConsent", "consentID", id)
	var c *consent.Consent
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		c, err = uow.Consents().Get(ctx, id)
		if err != nil {
			return err
		}
		c.Revoke()
		return uow.Consents().UpdateStatus(ctx, id, c.Status)
	})
	if err != nil {
		logger.Error("consent revocation failed", "error", err)
		return nil, err
	}
	logger.Info("consent revoked")
	return c, nil
}

// FindUsable returns the customer's usable consent, or nil when none exists.
// When more than one usable consent exists (the accepted creation race) the
// most recently created one is returned.
func (s *Service) FindUsable(ctx context.Context, customerID string) (*consent.Consent, error) {
	return s.uow.Consents().FindUsable(ctx, customerID, s.now())
}
