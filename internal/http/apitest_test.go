package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"reliefmarket/internal/config"
	"reliefmarket/internal/domain"
	"reliefmarket/internal/http/handlers"
	"reliefmarket/internal/repos"
)

// newApp wires the real routes against an in-memory database, mirroring the
// wiring in cmd/reliefmarket (minus rate limiting, which has its own tests
// upstream in fiber).
func newApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	cfg := config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour, LegacyCityMatch: true}
	deps := handlers.NewDeps(db, cfg)

	app := fiber.New()
	api := app.Group("/api/v1")

	api.Post("/auth/register", deps.AuthHandler.Register)
	api.Post("/auth/login", deps.AuthHandler.Login)

	api.Get("/products", handlers.OptionalAuth(deps.Tokens), deps.ProductHandler.List)
	api.Post("/products",
		handlers.RequireAuth(deps.Tokens),
		handlers.RequireRole(domain.RoleManufacturer, domain.RoleAdmin),
		deps.ProductHandler.Create)

	api.Get("/orders", handlers.RequireAuth(deps.Tokens), deps.OrderHandler.List)
	api.Post("/orders",
		handlers.RequireAuth(deps.Tokens),
		handlers.RequireRole(domain.RoleVictim),
		deps.OrderHandler.Place)
	api.Patch("/orders/:id/status",
		handlers.RequireAuth(deps.Tokens),
		handlers.RequireRole(domain.RoleAdmin),
		deps.OrderHandler.UpdateStatus)

	api.Get("/pickup-locations", handlers.OptionalAuth(deps.Tokens), deps.LocationHandler.List)

	admin := api.Group("/admin",
		handlers.RequireAuth(deps.Tokens),
		handlers.RequireRole(domain.RoleAdmin))
	admin.Get("/disaster-zones", deps.AdminHandler.ListZones)
	admin.Post("/disaster-zones", deps.AdminHandler.CreateZone)
	admin.Get("/pickup-locations", deps.AdminHandler.ListLocations)
	admin.Post("/pickup-locations", deps.AdminHandler.CreateLocation)
	admin.Get("/users", deps.AdminHandler.ListUsers)
	admin.Patch("/users", deps.AdminHandler.SetUserApproval)
	admin.Patch("/products", deps.AdminHandler.SetProductApproval)
	admin.Get("/stats", deps.AdminHandler.Dashboard)

	return app, db
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("bad envelope %q: %v", raw, err)
		}
	}
	return resp.StatusCode, env
}

// registerVictim creates an eligible victim (33101 is in the seeded Florida
// zone) and returns their token.
func registerVictim(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	status, env := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    email,
		"password": "Sup3rSecret!",
		"name":     "Test Victim",
		"role":     "victim",
		"zipCode":  "33101",
	})
	if status != http.StatusCreated {
		t.Fatalf("victim register: want 201, got %d (%s)", status, env.Error)
	}
	return tokenFrom(t, env)
}

func loginAdmin(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, env := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "admin@drm.org",
		"password": "password",
	})
	if status != http.StatusOK {
		t.Fatalf("admin login: want 200, got %d (%s)", status, env.Error)
	}
	return tokenFrom(t, env)
}

func tokenFrom(t *testing.T, env envelope) string {
	t.Helper()
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil || payload.Token == "" {
		t.Fatalf("no token in response: %s", env.Data)
	}
	return payload.Token
}

// seedProduct inserts a product owned by a dedicated manufacturer row.
func seedProduct(t *testing.T, db *sqlx.DB, id, title string, price float64, qty int, approved bool) {
	t.Helper()
	if _, err := db.Exec(`
	  INSERT OR IGNORE INTO users(id,email,name,password_hash,role,is_approved,created_at)
	  VALUES ('u-seed-maker','seed-maker@test.org','Seed Maker','x','manufacturer',1,'2026-01-01T00:00:00Z')`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`
	  INSERT INTO products(id,manufacturer_id,title,price,quantity,is_approved,created_at)
	  VALUES (?,?,?,?,?,?,'2026-01-01T00:00:00Z')`,
		id, "u-seed-maker", title, price, qty, approved); err != nil {
		t.Fatal(err)
	}
}

func seededLocationID(t *testing.T, db *sqlx.DB) string {
	t.Helper()
	var id string
	if err := db.Get(&id, `SELECT id FROM pickup_locations LIMIT 1`); err != nil {
		t.Fatal(err)
	}
	return id
}
