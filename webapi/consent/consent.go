// Package consent exposes the consent lifecycle endpoints.
package consent

import (
	consentdomain "github.com/LucasAniceto/PaulsenIF/pkg/domain/consent"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/consents"
	"github.com/LucasAniceto/PaulsenIF/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// CreateConsentRequest is the body of POST /openfinance/consents.
type CreateConsentRequest struct {
	CustomerID  string   `json:"customerId" validate:"required"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
}

// Routes registers the consent endpoints on the group.
func Routes(r fiber.Router, consentSvc *consents.Service) {
	r.Post("/consents", Create(consentSvc))
	r.Get("/consents/:consentId", Get(consentSvc))
	r.Delete("/consents/:consentId", Revoke(consentSvc))
}

// Create handles POST /consents.
func Create(consentSvc *consents.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateConsentRequest](c)
		if input == nil {
			return err
		}
		permissions := make([]consentdomain.Permission, len(input.Permissions))
		for i, p := range input.Permissions {
			permissions[i] = consentdomain.Permission(p)
		}
		created, err := consentSvc.Create(c.Context(), input.CustomerID, permissions)
		if err != nil {
			return common.RespondError(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusCreated, "Consent created", created)
	}
}

// Get handles GET /consents/:consentId.
func Get(consentSvc *consents.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		found, err := consentSvc.Get(c.Context(), c.Params("consentId"))
		if err != nil {
			return common.RespondError(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "Consent", found)
	}
}

// Revoke handles DELETE /consents/:consentId. Revocation is idempotent:
// revoking an already revoked or expired consent succeeds.
func Revoke(consentSvc *consents.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		revoked, err := consentSvc.Revoke(c.Context(), c.Params("consentId"))
		if err != nil {
			return common.RespondError(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "Consent revoked", revoked)
	}
}
