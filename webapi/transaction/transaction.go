// Package transaction exposes public transaction posting and the
// consent-protected transaction listing.
package transaction

import (
	accountdomain "github.com/LucasAniceto/PaulsenIF/pkg/domain/account"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/consent"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/consents"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/ledger"
	"github.com/LucasAniceto/PaulsenIF/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// CreateTransactionRequest is the body of POST /openfinance/transactions.
// Amount, type, description and category are validated by the ledger engine
// so its precondition ordering is preserved.
type CreateTransactionRequest struct {
	AccountID   string  `json:"accountId" validate:"required"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

// ListResponse is the protected transaction listing.
type ListResponse struct {
	AccountID    string                       `json:"accountId"`
	Transactions []*accountdomain.Transaction `json:"transactions"`
}

// Routes registers the transaction endpoints on the group.
func Routes(r fiber.Router, ledgerSvc *ledger.Service, consentSvc *consents.Service) {
	r.Post("/transactions", Create(ledgerSvc))
	r.Get("/transactions/:accountId", List(ledgerSvc, consentSvc))
}

// Create handles POST /transactions.
func Create(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if input == nil {
			return err
		}
		t, err := ledgerSvc.Post(c.Context(), ledger.Request{
			AccountID:   input.AccountID,
			Amount:      input.Amount,
			Type:        accountdomain.TransactionType(input.Type),
			Description: input.Description,
			Category:    input.Category,
		})
		if err != nil {
			return common.RespondError(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusCreated, "Transaction created", t)
	}
}

// List handles GET /transactions/:accountId, guarded by TRANSACTIONS_READ
// through the account's owning customer.
func List(ledgerSvc *ledger.Service, consentSvc *consents.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID := c.Params("accountId")
		if _, err := consentSvc.AuthorizeAccount(c.Context(), accountID, consent.PermissionTransactionsRead); err != nil {
			return common.RespondError(c, err)
		}
		transactions, err := ledgerSvc.Transactions(c.Context(), accountID)
		if err != nil {
			return common.RespondError(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "Account transactions", ListResponse{
			AccountID:    accountID,
			Transactions: transactions,
		})
	}
}
