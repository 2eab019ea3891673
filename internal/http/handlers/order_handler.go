package handlers

import (
	"errors"

	"reliefmarket/internal/domain"
	applog "reliefmarket/internal/log"
	"reliefmarket/internal/services"
	"reliefmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// POST /api/v1/orders, victims only.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	claims := CurrentClaims(c)

	var in struct {
		Items            []services.ItemRequest `json:"items"`
		PickupLocationID string                 `json:"pickupLocationId"`
		Notes            string                 `json:"notes"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	order, err := h.Orders.Place(claims.UserID, in.Items, in.PickupLocationID, in.Notes)
	if err != nil {
		if oe, isOrderErr := services.AsOrderError(err); isOrderErr {
			applog.Security(c, "order.place.reject", map[string]any{"code": string(oe.Code)})
			return fail(c, fiber.StatusBadRequest, oe.Message)
		}
		applog.Error(c, "order.place.fail", err, nil)
		return serverError(c)
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id": order.ID,
		"total":    order.TotalAmount,
		"items":    len(order.Items),
	})
	return ok(c, fiber.StatusCreated, order, "Order placed successfully")
}

// GET /api/v1/orders returns a role-scoped listing with an optional ?status= filter.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	claims := CurrentClaims(c)

	status := c.Query("status")
	if status != "" {
		s, okStatus := validate.OrderStatus(status)
		if !okStatus {
			return fail(c, fiber.StatusBadRequest, "Invalid status filter")
		}
		status = s
	}

	orders, err := h.Orders.ListFor(claims.UserID, claims.Role, status)
	if err != nil {
		applog.Error(c, "orders.list.fail", err, nil)
		return serverError(c)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return ok(c, fiber.StatusOK, orders, "")
}

// PATCH /api/v1/orders/:id/status, admin only. Cancelling restocks items.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "Invalid order ID")
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	status, okStatus := validate.OrderStatus(in.Status)
	if !okStatus {
		return fail(c, fiber.StatusBadRequest, "Invalid order status")
	}

	order, err := h.Orders.UpdateStatus(id, status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return fail(c, fiber.StatusNotFound, "Order not found")
		case errors.Is(err, services.ErrBadTransition):
			return fail(c, fiber.StatusBadRequest, "Invalid status transition")
		default:
			applog.Error(c, "orders.status.fail", err, map[string]any{"order_id": id})
			return serverError(c)
		}
	}

	applog.Audit(c, "orders.status", map[string]any{"order_id": id, "status": status})
	return ok(c, fiber.StatusOK, order, "Order status updated")
}
