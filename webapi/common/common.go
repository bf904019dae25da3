// Package common holds the response envelope, the problem-details error
// payload and the request binding helper shared by all route groups.
package common

import (
	"errors"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/account"
	"github.com/LucasAniceto/PaulsenIF/pkg/service/ledger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Response is the standard success envelope.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// SuccessJSON writes the success envelope with the given status.
func SuccessJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ProblemJSON writes a problem+json response.
func ProblemJSON(c *fiber.Ctx, status int, title, detail string) error {
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(status).JSON(ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.OriginalURL(),
	})
}

// RespondError translates a business error into the HTTP error payload.
// Infrastructure failures are the only category reported without a specific
// explanation.
func RespondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return ProblemJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return ProblemJSON(c, fiber.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return ProblemJSON(c, fiber.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		return ProblemJSON(c, fiber.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, account.ErrInsufficientFunds):
		return ProblemJSON(c, fiber.StatusUnprocessableEntity, "Insufficient funds", err.Error())
	case errors.Is(err, ledger.ErrPartialPosting):
		return ProblemJSON(c, fiber.StatusInternalServerError, "Ledger inconsistency", err.Error())
	default:
		return ProblemJSON(c, fiber.StatusInternalServerError, "Internal Server Error", "")
	}
}

// BindAndValidate parses the request body into T and validates its struct
// tags. On failure the error response is already written and a nil pointer is
// returned.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := validate.Struct(input); err != nil {
		return nil, ProblemJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	return &input, nil
}
