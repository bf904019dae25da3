// Package account exposes public account creation and the consent-protected
// balance read.
package account

import (
	accountdomain "github.com/LucasAniceto/PaulsenIF/pkg/domain/account"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/consent"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/consents"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/directory"
	"github.com/LucasAniceto/PaulsenIF/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// CreateAccountRequest is the body of POST /openfinance/accounts.
type CreateAccountRequest struct {
	Type       string `json:"type" validate:"required"`
	Branch     string `json:"branch" validate:"required"`
	Number     string `json:"number" validate:"required"`
	CustomerID string `json:"customerId" validate:"required"`
}

// BalanceResponse is the protected balance view.
type BalanceResponse struct {
	AccountID string  `json:"accountId"`
	Balance   float64 `json:"balance"`
}

// Routes registers the account endpoints on the group.
func Routes(r fiber.Router, dir *directory.Service, consentSvc *consents.Service) {
	r.Post("/accounts", Create(dir))
	r.Get("/accounts/:accountId/balance", GetBalance(dir, consentSvc))
}

// Create handles POST /accounts.
func Create(dir *directory.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		a, err := dir.CreateAccount(
			c.Context(),
			accountdomain.Type(input.Type),
			input.Branch,
			input.Number,
			input.CustomerID,
		)
		if err != nil {
			return common.RespondError(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusCreated, "Account created", a)
	}
}

// GetBalance handles GET /accounts/:accountId/balance, guarded by
// BALANCES_READ through the account's owning customer.
func GetBalance(dir *directory.Service, consentSvc *consents.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID := c.Params("accountId")
		if _, err := consentSvc.AuthorizeAccount(c.Context(), accountID, consent.PermissionBalancesRead); err != nil {
			return common.RespondError(c, err)
		}
		a, err := dir.GetAccount(c.Context(), accountID)
		if err != nil {
			return common.RespondError(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "Account balance", BalanceResponse{
			AccountID: a.ID,
			Balance:   a.Balance.Float64(),
		})
	}
}
