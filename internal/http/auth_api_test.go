package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestRegister_VictimInZone(t *testing.T) {
	app, _ := newApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "vera@test.org",
		"password": "Sup3rSecret!",
		"name":     "Vera",
		"role":     "victim",
		"zipCode":  "33101",
	})
	if status != http.StatusCreated {
		t.Fatalf("want 201, got %d (%s)", status, env.Error)
	}
	if env.Message != "Registration successful" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	var payload struct {
		User struct {
			Role       string `json:"role"`
			IsApproved bool   `json:"isApproved"`
		} `json:"user"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.User.Role != "victim" || !payload.User.IsApproved {
		t.Fatalf("victims should come out approved: %+v", payload.User)
	}
	if payload.Token == "" {
		t.Fatal("no token issued")
	}
}

func TestRegister_VictimOutsideZone(t *testing.T) {
	app, _ := newApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "far@test.org",
		"password": "Sup3rSecret!",
		"name":     "Far Away",
		"role":     "victim",
		"zipCode":  "99999",
	})
	if status != http.StatusForbidden {
		t.Fatalf("want 403, got %d", status)
	}
	if env.Error != "Your location is not currently in an active disaster zone" {
		t.Fatalf("unexpected error %q", env.Error)
	}
}

func TestRegister_ManufacturerPendingApproval(t *testing.T) {
	app, _ := newApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "maker@test.org",
		"password": "Sup3rSecret!",
		"name":     "Maker",
		"role":     "manufacturer",
	})
	if status != http.StatusCreated {
		t.Fatalf("want 201, got %d (%s)", status, env.Error)
	}
	if env.Message != "Registration successful. Your account is pending approval." {
		t.Fatalf("unexpected message %q", env.Message)
	}

	var payload struct {
		User struct {
			IsApproved bool `json:"isApproved"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.User.IsApproved {
		t.Fatal("manufacturers must start unapproved")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app, _ := newApp(t)
	registerVictim(t, app, "dup@test.org")

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "dup@test.org",
		"password": "Sup3rSecret!",
		"name":     "Again",
		"role":     "victim",
		"zipCode":  "33101",
	})
	if status != http.StatusConflict {
		t.Fatalf("want 409, got %d", status)
	}
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	app, _ := newApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "sneaky@test.org",
		"password": "Sup3rSecret!",
		"name":     "Sneaky",
		"role":     "admin",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", status)
	}
	if env.Error != "Invalid role. Must be victim or manufacturer" {
		t.Fatalf("unexpected error %q", env.Error)
	}
}

func TestRegister_FieldValidation(t *testing.T) {
	app, _ := newApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "longname@test.org",
		"password": "Sup3rSecret!",
		"name":     strings.Repeat("x", 101),
		"role":     "victim",
		"zipCode":  "33101",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("oversized name: want 400, got %d", status)
	}
	if env.Error != "Name must be 100 characters or fewer" {
		t.Fatalf("unexpected error %q", env.Error)
	}

	status, env = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "badstate@test.org",
		"password": "Sup3rSecret!",
		"name":     "Bad State",
		"role":     "victim",
		"zipCode":  "33101",
		"state":    "Florida",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("bad state: want 400, got %d", status)
	}
	if env.Error != "Invalid state code" {
		t.Fatalf("unexpected error %q", env.Error)
	}

	// lowercase two-letter codes are normalized, not rejected
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "okstate@test.org",
		"password": "Sup3rSecret!",
		"name":     "Ok State",
		"role":     "victim",
		"zipCode":  "33101",
		"state":    "fl",
	})
	if status != http.StatusCreated {
		t.Fatalf("fl should normalize to FL: got %d", status)
	}
}

func TestLogin_GoodAndBadCredentials(t *testing.T) {
	app, _ := newApp(t)
	registerVictim(t, app, "login@test.org")

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "login@test.org",
		"password": "Sup3rSecret!",
	})
	if status != http.StatusOK {
		t.Fatalf("want 200, got %d (%s)", status, env.Error)
	}
	if tokenFrom(t, env) == "" {
		t.Fatal("no token")
	}

	status, env = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "login@test.org",
		"password": "wrong-password",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", status)
	}
	if env.Error != "Invalid credentials" {
		t.Fatalf("unexpected error %q", env.Error)
	}
}

func TestSeededAdminPasswordIsHashed(t *testing.T) {
	_, db := newApp(t)

	var hash string
	if err := db.Get(&hash, `SELECT password_hash FROM users WHERE email='admin@drm.org'`); err != nil {
		t.Fatal(err)
	}
	if hash == "password" || hash == "" {
		t.Fatal("seeded admin password stored in plaintext")
	}
	if hash[:2] != "$2" {
		t.Fatalf("unexpected hash format: %s", hash)
	}
}
