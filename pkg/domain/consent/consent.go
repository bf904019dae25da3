// Package consent defines the consent grant that gates third-party reads.
//
// The permission and status strings are part of the wire contract and must be
// preserved verbatim.
package consent

import (
	"fmt"
	"time"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/google/uuid"
)

// Permission is a read scope granted by a consent.
type Permission string

// Permission scopes.
const (
	PermissionAccountsRead     Permission = "ACCOUNTS_READ"
	PermissionCustomerDataRead Permission = "CUSTOMER_DATA_READ"
	PermissionBalancesRead     Permission = "BALANCES_READ"
	PermissionTransactionsRead Permission = "TRANSACTIONS_READ"
)

// Valid reports whether p is a known permission scope.
func (p Permission) Valid() bool {
	switch p {
	case PermissionAccountsRead, PermissionCustomerDataRead,
		PermissionBalancesRead, PermissionTransactionsRead:
		return true
	}
	return false
}

// Status is the consent lifecycle state.
type Status string

// Consent statuses. A consent is created AUTHORIZED and can only transition
// to REVOKED; expiry makes it unusable without changing the status.
const (
	StatusPending    Status = "PENDING"
	StatusAuthorized Status = "AUTHORIZED"
	StatusRejected   Status = "REJECTED"
	StatusRevoked    Status = "REVOKED"
)

// DefaultValidity is how long a new consent stays usable.
const DefaultValidity = 365 * 24 * time.Hour

// Consent is a time-boxed, permission-scoped grant letting a third party read
// a customer's data.
type Consent struct {
	ID          string       `json:"_id"`
	CustomerID  string       `json:"customerId"`
	Permissions []Permission `json:"permissions"`
	Status      Status       `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

// New creates an AUTHORIZED consent for the customer, valid for
// DefaultValidity. The permission set must be non-empty and drawn from the
// fixed enum.
func New(customerID string, permissions []Permission) (*Consent, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customerId is required", domain.ErrValidation)
	}
	if len(permissions) == 0 {
		return nil, fmt.Errorf("%w: at least one permission is required", domain.ErrValidation)
	}
	for _, p := range permissions {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: invalid permission %q", domain.ErrValidation, p)
		}
	}
	now := time.Now().UTC()
	return &Consent{
		ID:          "cst_" + uuid.NewString(),
		CustomerID:  customerID,
		Permissions: permissions,
		Status:      StatusAuthorized,
		CreatedAt:   now,
		ExpiresAt:   now.Add(DefaultValidity),
	}, nil
}

// UsableAt reports whether the consent authorizes reads at the given instant:
// status AUTHORIZED and not yet expired.
func (c *Consent) UsableAt(now time.Time) bool {
	return c.Status == StatusAuthorized && now.Before(c.ExpiresAt)
}

// Revoke moves the consent to REVOKED. Revoking an already revoked or expired
// consent is a no-op by contract, not an error.
func (c *Consent) Revoke() {
	c.Status = StatusRevoked
}

// Missing returns the required permissions the consent does not carry.
func (c *Consent) Missing(required ...Permission) []Permission {
	var missing []Permission
	for _, r := range required {
		found := false
		for _, p := range c.Permissions {
			if p == r {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, r)
		}
	}
	return missing
}
