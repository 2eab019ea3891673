package handlers

import (
	"reliefmarket/internal/domain"
	applog "reliefmarket/internal/log"
	"reliefmarket/internal/repos"
	"reliefmarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products
// Public; unauthenticated callers only see approved products with stock.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := repos.ProductFilter{
		Category:       c.Query("category"),
		ManufacturerID: c.Query("manufacturerId"),
	}
	if v := c.Query("approved"); v != "" {
		approved := v == "true"
		f.Approved = &approved
	}
	if CurrentClaims(c) == nil {
		f.PublicOnly = true
	}

	products, err := h.Catalog.List(f)
	if err != nil {
		applog.Error(c, "products.list.fail", err, nil)
		return serverError(c)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return ok(c, fiber.StatusOK, products, "")
}

// POST /api/v1/products, manufacturer or admin.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	claims := CurrentClaims(c)

	var in services.NewProductInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Title == "" || in.Description == "" || in.Price <= 0 || in.Quantity <= 0 || in.Category == "" {
		return fail(c, fiber.StatusBadRequest, "Title, description, price, quantity, and category are required")
	}

	p, err := h.Catalog.Create(claims.UserID, claims.Role, in)
	if err != nil {
		applog.Error(c, "products.create.fail", err, nil)
		return serverError(c)
	}

	msg := "Product created and pending approval"
	if p.IsApproved {
		msg = "Product created and approved"
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID, "approved": p.IsApproved})
	return ok(c, fiber.StatusCreated, p, msg)
}
