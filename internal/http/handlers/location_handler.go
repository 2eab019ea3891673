package handlers

import (
	"reliefmarket/internal/domain"
	applog "reliefmarket/internal/log"
	"reliefmarket/internal/repos"

	"github.com/gofiber/fiber/v2"
)

type LocationHandler struct {
	Locations *repos.LocationRepo
}

// GET /api/v1/pickup-locations
// Public; anonymous callers only see active locations, admins see all.
func (h *LocationHandler) List(c *fiber.Ctx) error {
	claims := CurrentClaims(c)
	activeOnly := claims == nil || claims.Role != domain.RoleAdmin

	locations, err := h.Locations.List(activeOnly)
	if err != nil {
		applog.Error(c, "locations.list.fail", err, nil)
		return serverError(c)
	}
	if locations == nil {
		locations = []domain.PickupLocation{}
	}
	return ok(c, fiber.StatusOK, locations, "")
}
