package handlers

import (
	"reliefmarket/internal/domain"
	applog "reliefmarket/internal/log"
	"reliefmarket/internal/repos"
	"reliefmarket/internal/services"
	"reliefmarket/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminHandler covers the admin-only surface: disaster zones, pickup
// locations, user approval and dashboard stats.
type AdminHandler struct {
	Zones     *repos.ZoneRepo
	Locations *repos.LocationRepo
	Users     *repos.UserRepo
	Products  *repos.ProductRepo
	Stats     *services.StatsService
}

// GET /api/v1/admin/disaster-zones
func (h *AdminHandler) ListZones(c *fiber.Ctx) error {
	zones, err := h.Zones.ListAll()
	if err != nil {
		applog.Error(c, "admin.zones.list.fail", err, nil)
		return serverError(c)
	}
	if zones == nil {
		zones = []domain.DisasterZone{}
	}
	return ok(c, fiber.StatusOK, zones, "")
}

// POST /api/v1/admin/disaster-zones
func (h *AdminHandler) CreateZone(c *fiber.Ctx) error {
	var in struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		ZipCodes    []string `json:"zipCodes"`
		Cities      []string `json:"cities"`
		States      []string `json:"states"`
		StartDate   string   `json:"startDate"`
		EndDate     string   `json:"endDate"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Name == "" || in.Description == "" {
		return fail(c, fiber.StatusBadRequest, "Name and description are required")
	}

	ts := stamp()
	start := in.StartDate
	if start == "" {
		start = ts
	}
	z := domain.DisasterZone{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		ZipCodes:    in.ZipCodes,
		Cities:      in.Cities,
		States:      in.States,
		IsActive:    true,
		StartDate:   start,
		EndDate:     in.EndDate,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := h.Zones.Create(&z); err != nil {
		applog.Error(c, "admin.zones.create.fail", err, nil)
		return serverError(c)
	}
	applog.Audit(c, "admin.zones.create", map[string]any{"zone_id": z.ID, "name": z.Name})
	return ok(c, fiber.StatusCreated, z, "Disaster zone created successfully")
}

// GET /api/v1/admin/pickup-locations
func (h *AdminHandler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.Locations.List(false)
	if err != nil {
		applog.Error(c, "admin.locations.list.fail", err, nil)
		return serverError(c)
	}
	if locations == nil {
		locations = []domain.PickupLocation{}
	}
	return ok(c, fiber.StatusOK, locations, "")
}

// POST /api/v1/admin/pickup-locations
func (h *AdminHandler) CreateLocation(c *fiber.Ctx) error {
	var in struct {
		Name         string   `json:"name"`
		Address      string   `json:"address"`
		City         string   `json:"city"`
		State        string   `json:"state"`
		ZipCode      string   `json:"zipCode"`
		Latitude     float64  `json:"latitude"`
		Longitude    float64  `json:"longitude"`
		ContactPhone string   `json:"contactPhone"`
		ContactEmail string   `json:"contactEmail"`
		Hours        string   `json:"hours"`
		ZoneIDs      []string `json:"disasterZoneIds"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.Name == "" || in.Address == "" || in.City == "" || in.State == "" || in.ZipCode == "" || in.Hours == "" {
		return fail(c, fiber.StatusBadRequest, "Name, address, city, state, zipCode, and hours are required")
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
	zip, okZip := validate.Zip(in.ZipCode)
	if !okZip {
		return fail(c, fiber.StatusBadRequest, "Invalid zip code")
	}

	ts := stamp()
	l := domain.PickupLocation{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Address:      in.Address,
		City:         in.City,
		State:        in.State,
		ZipCode:      zip,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		ContactPhone: in.ContactPhone,
		ContactEmail: in.ContactEmail,
		Hours:        in.Hours,
		ZoneIDs:      in.ZoneIDs,
		IsActive:     true,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := h.Locations.Create(&l); err != nil {
		applog.Error(c, "admin.locations.create.fail", err, nil)
		return serverError(c)
	}
	applog.Audit(c, "admin.locations.create", map[string]any{"location_id": l.ID, "name": l.Name})
	return ok(c, fiber.StatusCreated, l, "Pickup location created successfully")
}

// GET /api/v1/admin/users with optional role/approved filters.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var approved *bool
	if v := c.Query("approved"); v != "" {
		b := v == "true"
		approved = &b
	}
	users, err := h.Users.List(c.Query("role"), approved)
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return serverError(c)
	}
	if users == nil {
		users = []domain.User{}
	}
	return ok(c, fiber.StatusOK, users, "")
}

// PATCH /api/v1/admin/users approves or rejects an account.
func (h *AdminHandler) SetUserApproval(c *fiber.Ctx) error {
	var in struct {
		UserID     string `json:"userId"`
		IsApproved *bool  `json:"isApproved"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.UserID == "" || in.IsApproved == nil {
		return fail(c, fiber.StatusBadRequest, "User ID and approval status are required")
	}
	userID, okID := validate.ID(in.UserID)
	if !okID {
		return fail(c, fiber.StatusBadRequest, "Invalid user ID")
	}
	in.UserID = userID

	u, err := h.Users.SetApproval(in.UserID, *in.IsApproved)
	if err != nil {
		applog.Error(c, "admin.users.approve.fail", err, map[string]any{"user_id": in.UserID})
		return serverError(c)
	}
	if u == nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}

	msg := "User rejected successfully"
	if *in.IsApproved {
		msg = "User approved successfully"
	}
	applog.Audit(c, "admin.users.approve", map[string]any{"user_id": in.UserID, "approved": *in.IsApproved})
	return ok(c, fiber.StatusOK, u, msg)
}

// PATCH /api/v1/admin/products approves or rejects a listing.
func (h *AdminHandler) SetProductApproval(c *fiber.Ctx) error {
	var in struct {
		ProductID  string `json:"productId"`
		IsApproved *bool  `json:"isApproved"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.ProductID == "" || in.IsApproved == nil {
		return fail(c, fiber.StatusBadRequest, "Product ID and approval status are required")
	}
	productID, okID := validate.ID(in.ProductID)
	if !okID {
		return fail(c, fiber.StatusBadRequest, "Invalid product ID")
	}
	in.ProductID = productID

	if _, err := h.Products.Get(in.ProductID); err != nil {
		return fail(c, fiber.StatusNotFound, "Product not found")
	}
	if err := h.Products.SetApproval(in.ProductID, *in.IsApproved); err != nil {
		applog.Error(c, "admin.products.approve.fail", err, map[string]any{"product_id": in.ProductID})
		return serverError(c)
	}
	p, err := h.Products.Get(in.ProductID)
	if err != nil {
		return serverError(c)
	}

	msg := "Product rejected successfully"
	if *in.IsApproved {
		msg = "Product approved successfully"
	}
	applog.Audit(c, "admin.products.approve", map[string]any{"product_id": in.ProductID, "approved": *in.IsApproved})
	return ok(c, fiber.StatusOK, p, msg)
}

// GET /api/v1/admin/stats
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.Stats.Dashboard()
	if err != nil {
		applog.Error(c, "admin.stats.fail", err, nil)
		return serverError(c)
	}
	applog.Info(c, "admin.stats.view", map[string]any{"orders": stats.TotalOrders})
	return ok(c, fiber.StatusOK, stats, "")
}
