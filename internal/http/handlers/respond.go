package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// apiResponse is the envelope every endpoint speaks:
// success -> {success:true, data, message?}; failure -> {success:false, error}.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(apiResponse{Success: true, Data: data, Message: message})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(apiResponse{Success: false, Error: msg})
}

// serverError hides internals behind a generic message; details go to the log.
func serverError(c *fiber.Ctx) error {
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}

func stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
