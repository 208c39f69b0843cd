package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"statforge/internal/database"
	"statforge/internal/middleware"
	"statforge/internal/services"
	"statforge/pkg/auth"
)

func setupAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "auth_test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	jwtAuth, err := auth.NewJWTAuth("handler-test-secret", 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTAuth failed: %v", err)
	}

	userService := services.NewUserService(db)
	handler := NewAuthHandler(jwtAuth, userService)

	app := fiber.New()
	app.Post("/api/auth/register", handler.Register)
	app.Post("/api/auth/login", handler.Login)
	app.Post("/api/auth/refresh", handler.RefreshToken)
	app.Get("/api/auth/me", middleware.AuthMiddleware(jwtAuth), handler.GetCurrentUser)
	return app
}

func postJSON(t *testing.T, app *fiber.App, url string, body interface{}) (map[string]interface{}, int) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}

	req := httptest.NewRequest("POST", url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("Request %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode response from %s: %v", url, err)
	}
	return decoded, resp.StatusCode
}

func TestRegisterAndLogin(t *testing.T) {
	app := setupAuthApp(t)

	body, status := postJSON(t, app, "/api/auth/register", map[string]string{
		"name":     "Ada",
		"email":    "Ada@Example.com",
		"password": "Sup3rSecret",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("Register status = %d, want 201 (%+v)", status, body)
	}
	if body["access_token"] == nil || body["refresh_token"] == nil {
		t.Fatalf("Expected tokens in response: %+v", body)
	}

	user := body["user"].(map[string]interface{})
	if user["email"] != "ada@example.com" {
		t.Errorf("Email not normalized: %v", user["email"])
	}
	// First user becomes admin
	if user["role"] != "admin" {
		t.Errorf("First user role = %v, want admin", user["role"])
	}
	if user["password_hash"] != nil {
		t.Error("Password hash must never leave the server")
	}

	body, status = postJSON(t, app, "/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "Sup3rSecret",
	})
	if status != fiber.StatusOK {
		t.Fatalf("Login status = %d, want 200 (%+v)", status, body)
	}
	if body["access_token"] == nil {
		t.Error("Expected access token on login")
	}
}

func TestRegisterSecondUserIsNotAdmin(t *testing.T) {
	app := setupAuthApp(t)

	postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "First", "email": "first@x.com", "password": "Sup3rSecret",
	})
	body, status := postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "Second", "email": "second@x.com", "password": "Sup3rSecret",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("Register status = %d (%+v)", status, body)
	}
	if body["user"].(map[string]interface{})["role"] != "user" {
		t.Errorf("Second user role = %v, want user", body["user"])
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := setupAuthApp(t)

	postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "A", "email": "dup@x.com", "password": "Sup3rSecret",
	})
	_, status := postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "B", "email": "dup@x.com", "password": "Sup3rSecret",
	})
	if status != fiber.StatusConflict {
		t.Errorf("Duplicate register status = %d, want 409", status)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	app := setupAuthApp(t)

	_, status := postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "A", "email": "weak@x.com", "password": "short",
	})
	if status != fiber.StatusBadRequest {
		t.Errorf("Weak password status = %d, want 400", status)
	}
}

func TestRegisterInvalidEmail(t *testing.T) {
	app := setupAuthApp(t)

	_, status := postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "A", "email": "not-an-email", "password": "Sup3rSecret",
	})
	if status != fiber.StatusBadRequest {
		t.Errorf("Invalid email status = %d, want 400", status)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupAuthApp(t)

	postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "A", "email": "ada@x.com", "password": "Sup3rSecret",
	})
	_, status := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "ada@x.com", "password": "WrongPassword1",
	})
	if status != fiber.StatusUnauthorized {
		t.Errorf("Wrong password status = %d, want 401", status)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	app := setupAuthApp(t)

	_, status := postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "Sup3rSecret",
	})
	if status != fiber.StatusUnauthorized {
		t.Errorf("Unknown email status = %d, want 401", status)
	}
}

func TestRefreshTokenFlow(t *testing.T) {
	app := setupAuthApp(t)

	body, status := postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "A", "email": "ada@x.com", "password": "Sup3rSecret",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("Register status = %d", status)
	}

	refreshToken := body["refresh_token"].(string)
	body, status = postJSON(t, app, "/api/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	})
	if status != fiber.StatusOK {
		t.Fatalf("Refresh status = %d (%+v)", status, body)
	}
	if body["access_token"] == nil {
		t.Error("Expected new access token")
	}
}

func TestRefreshTokenRejected(t *testing.T) {
	app := setupAuthApp(t)

	_, status := postJSON(t, app, "/api/auth/refresh", map[string]string{
		"refresh_token": "garbage",
	})
	if status != fiber.StatusUnauthorized {
		t.Errorf("Garbage refresh status = %d, want 401", status)
	}
}

func TestGetCurrentUser(t *testing.T) {
	app := setupAuthApp(t)

	body, _ := postJSON(t, app, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "ada@x.com", "password": "Sup3rSecret",
	})
	access := body["access_token"].(string)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}
	var me map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if me["email"] != "ada@x.com" {
		t.Errorf("me email = %v", me["email"])
	}
}
