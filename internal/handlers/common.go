package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/lifecycle"
)

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func validationFail(c *fiber.Ctx, errs FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation error",
		"error":   "invalid_input",
		"errors":  errs,
	})
}

// UserMini is the compact user DTO embedded in other responses
type UserMini struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

// svcError maps a lifecycle service error to the HTTP envelope. Kind code
// ikut di body supaya FE tidak perlu parse message.
func svcError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	kind := "internal"

	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		status, kind = fiber.StatusNotFound, "not_found"
	case errors.Is(err, lifecycle.ErrForbidden):
		status, kind = fiber.StatusForbidden, "forbidden"
	case errors.Is(err, lifecycle.ErrConflict):
		status, kind = fiber.StatusConflict, "conflict"
	case errors.Is(err, lifecycle.ErrInvalidInput):
		status, kind = fiber.StatusBadRequest, "invalid_input"
	case errors.Is(err, lifecycle.ErrInvalidState):
		status, kind = fiber.StatusConflict, "invalid_state"
	}

	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 && kind != "internal" {
		msg = msg[i+2:]
	}
	if kind == "internal" {
		msg = "Internal server error"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": msg,
		"error":   kind,
	})
}
