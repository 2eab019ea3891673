package handlers

import (
	"errors"

	"reliefmarket/internal/domain"
	applog "reliefmarket/internal/log"
	"reliefmarket/internal/services"
	"reliefmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type authPayload struct {
	User  domain.AuthUser `json:"user"`
	Token string          `json:"token"`
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Email == "" || in.Password == "" || in.Name == "" || in.Role == "" {
		return fail(c, fiber.StatusBadRequest, "Email, password, name, and role are required")
	}
	role, okRole := validate.Role(in.Role)
	if !okRole {
		return fail(c, fiber.StatusBadRequest, "Invalid role. Must be victim or manufacturer")
	}
	in.Role = role
	email, okEmail := validate.Email(in.Email)
	if !okEmail {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return fail(c, fiber.StatusBadRequest, "Invalid email address")
	}
	in.Email = email
	if !validate.Password(in.Password) {
		return fail(c, fiber.StatusBadRequest, "Password must be at least 8 characters")
	}
	name, okName := validate.Name(in.Name)
	if !okName {
		return fail(c, fiber.StatusBadRequest, "Name must be 100 characters or fewer")
	}
	in.Name = name
	state, okState := validate.State(in.State)
	if !okState {
		return fail(c, fiber.StatusBadRequest, "Invalid state code")
	}
	in.State = state
	if in.ZipCode != "" {
		zip, okZip := validate.Zip(in.ZipCode)
		if !okZip {
			applog.Security(c, "validation.fail", map[string]any{"field": "zipCode"})
			return fail(c, fiber.StatusBadRequest, "Invalid zip code")
		}
		in.ZipCode = zip
	}

	user, token, err := h.Auth.Register(in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return fail(c, fiber.StatusConflict, "User with this email already exists")
		case errors.Is(err, services.ErrNotEligible):
			applog.Security(c, "register.ineligible", map[string]any{"zip": in.ZipCode})
			return fail(c, fiber.StatusForbidden, "Your location is not currently in an active disaster zone")
		default:
			applog.Error(c, "register.fail", err, nil)
			return serverError(c)
		}
	}

	msg := "Registration successful"
	if user.Role == domain.RoleManufacturer {
		msg = "Registration successful. Your account is pending approval."
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": user.ID, "role": user.Role})
	return ok(c, fiber.StatusCreated, authPayload{User: user, Token: token}, msg)
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Email == "" || in.Password == "" {
		return fail(c, fiber.StatusBadRequest, "Email and password are required")
	}

	user, token, err := h.Auth.Login(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			applog.Security(c, "auth.login.fail", map[string]any{"email": in.Email})
			return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		applog.Error(c, "auth.login.error", err, nil)
		return serverError(c)
	}

	applog.Audit(c, "auth.login", map[string]any{"user_id": user.ID})
	return ok(c, fiber.StatusOK, authPayload{User: user, Token: token}, "Login successful")
}
