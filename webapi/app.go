// Package webapi wires the fiber application: middleware, the status route
// and the /openfinance route groups.
package webapi

import (
	"log/slog"

	"github.com/LucasAniceto/PaulsenIF/pkg/service/consents"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/directory"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/ledger"
	accountapi "github.com/LucasAniceto/PaulsenIF/webapi/account"
	"github.com/LucasAniceto/PaulsenIF/webapi/common"
	consentapi "github.com/LucasAniceto/PaulsenIF/webapi/consent"
	customerapi "github.com/LucasAniceto/PaulsenIF/webapi/customer"
	transactionapi "github.com/LucasAniceto/PaulsenIF/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Deps are the services the web layer depends on.
type Deps struct {
	Directory *directory.Service
	Consents  *consents.Service
	Ledger    *ledger.Service
	Logger    *slog.Logger
}

// New builds the fiber application.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "openfinance-api",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			deps.Logger.Error("unhandled request error",
				"path", c.OriginalURL(), "error", err)
			return common.ProblemJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.New())

	of := app.Group("/openfinance")
	of.Get("/", status)

	customerapi.Routes(of, deps.Directory, deps.Consents)
	accountapi.Routes(of, deps.Directory, deps.Consents)
	transactionapi.Routes(of, deps.Ledger, deps.Consents)
	consentapi.Routes(of, deps.Consents)

	return app
}

// status reports the API version and its endpoint map.
func status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Financial institution API",
		"version": "2.0.0",
		"status":  "online",
		"endpoints": fiber.Map{
			"open": []string{
				"GET /openfinance/",
				"POST /openfinance/customers",
				"POST /openfinance/accounts",
				"POST /openfinance/transactions",
				"GET /openfinance/customers/lookup/by-cpf/:cpf",
			},
			"consent": []string{
				"POST /openfinance/consents",
				"GET /openfinance/consents/:consentId",
				"DELETE /openfinance/consents/:consentId",
			},
			"protected": []string{
				"GET /openfinance/customers/:customerId",
				"GET /openfinance/customers/:customerId/accounts",
				"GET /openfinance/accounts/:accountId/balance",
				"GET /openfinance/transactions/:accountId",
			},
		},
	})
}
