// Package customer exposes the customer routes: public creation and CPF
// lookup, plus the consent-protected profile and account listing.
package customer

import (
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/consent"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/consents"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/directory"
	"github.com/LucasAniceto/PaulsenIF/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the customer endpoints on the group.
func Routes(r fiber.Router, dir *directory.Service, consentSvc *consents.Service) {
	r.Post("/customers", Create(dir))
	r.Get("/customers/lookup/by-cpf/:cpf", LookupByCPF(dir))
	r.Get("/customers/:customerId", Get(dir, consentSvc))
	r.Get("/customers/:customerId/accounts", ListAccounts(dir, consentSvc))
}

// Create handles POST /customers.
func Create(dir *directory.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateCustomerRequest](c)
		if input == nil {
			return err
		}
		cust, err := dir.CreateCustomer(c.Context(), input.Name, input.CPF, input.Email)
		if err != nil {
			return common.RespondError(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusCreated, "Customer created", cust)
	}
}

// LookupByCPF handles GET /customers/lookup/by-cpf/:cpf. The CPF is
// canonicalized before the lookup, so formatted and digits-only spellings
// both resolve.
func LookupByCPF(dir *directory.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cust, err := dir.FindCustomerByCPF(c.Context(), c.Params("cpf"))
		if err != nil {
			return common.RespondError(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "Customer found", LookupResponse{
			ID:  cust.ID,
			CPF: cust.CPF,
		})
	}
}

// Get handles GET /customers/:customerId, guarded by CUSTOMER_DATA_READ.
func Get(dir *directory.Service, consentSvc *consents.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID := c.Params("customerId")
		if _, err := consentSvc.Authorize(c.Context(), customerID, consent.PermissionCustomerDataRead); err != nil {
			return common.RespondError(c, err)
		}
		cust, err := dir.GetCustomer(c.Context(), customerID)
		if err != nil {
			return common.RespondError(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "Customer data", ProfileResponse{
			ID:    cust.ID,
			Name:  cust.Name,
			CPF:   cust.CPF,
			Email: cust.Email,
		})
	}
}

// ListAccounts handles GET /customers/:customerId/accounts, guarded by
// ACCOUNTS_READ.
func ListAccounts(dir *directory.Service, consentSvc *consents.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID := c.Params("customerId")
		if _, err := consentSvc.Authorize(c.Context(), customerID, consent.PermissionAccountsRead); err != nil {
			return common.RespondError(c, err)
		}
		accounts, err := dir.FindAccountsByCustomer(c.Context(), customerID)
		if err != nil {
			return common.RespondError(c, err)
		}
		summaries := make([]AccountSummary, 0, len(accounts))
		for _, a := range accounts {
			summaries = append(summaries, AccountSummary{
				ID:      a.ID,
				Type:    string(a.Type),
				Branch:  a.Branch,
				Number:  a.Number,
				Balance: a.Balance.Float64(),
			})
		}
		return common.SuccessJSON(c, fiber.StatusOK, "Customer accounts", summaries)
	}
}
