package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CodeBuddy07/accounting-server/internal/auth"
	"github.com/CodeBuddy07/accounting-server/internal/config"
	"github.com/CodeBuddy07/accounting-server/internal/database"
	"github.com/CodeBuddy07/accounting-server/internal/models"
	"github.com/CodeBuddy07/accounting-server/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "0123456789abcdef0123456789abcdef",
		CookieName: "token",
	}
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	testutil.SetupDB(t)
	cfg := testConfig()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Post("/api/admin/register", auth.RegisterHandler())
	app.Post("/api/admin/login", auth.LoginHandler(cfg))
	app.Post("/api/admin/forgot-password", auth.ForgotPasswordHandler())
	app.Post("/api/admin/reset-password", auth.ResetPasswordHandler())

	protected := app.Group("", auth.JWTMiddleware(cfg))
	protected.Get("/api/admin/auth", auth.MeHandler())
	protected.Post("/api/admin/change-password", auth.ChangePasswordHandler())
	return app
}

func post(t *testing.T, app *fiber.App, path string, body any, cookie string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func register(t *testing.T, app *fiber.App) {
	t.Helper()
	resp := post(t, app, "/api/admin/register", fiber.Map{
		"name": "Owner", "email": "owner@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, app *fiber.App, password string) (*http.Response, string) {
	t.Helper()
	resp := post(t, app, "/api/admin/login", fiber.Map{
		"email": "owner@example.com", "password": password,
	}, "")
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			return resp, c.Value
		}
	}
	return resp, ""
}

func TestRegisterIsBootstrapOnly(t *testing.T) {
	app := newApp(t)
	register(t, app)

	resp := post(t, app, "/api/admin/register", fiber.Map{
		"name": "Intruder", "email": "other@example.com", "password": "xyz",
	}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	app := newApp(t)
	register(t, app)

	resp, token := login(t, app, "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, token)

	resp, token = login(t, app, "secret123")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	authResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, authResp.StatusCode)

	var me map[string]any
	require.NoError(t, json.NewDecoder(authResp.Body).Decode(&me))
	assert.Equal(t, "owner@example.com", me["email"])
}

func TestProtectedRouteRejectsMissingCookie(t *testing.T) {
	app := newApp(t)
	register(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChangePassword(t *testing.T) {
	app := newApp(t)
	register(t, app)
	_, token := login(t, app, "secret123")
	require.NotEmpty(t, token)

	resp := post(t, app, "/api/admin/change-password", fiber.Map{
		"oldPassword": "secret123", "newPassword": "newsecret456",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = login(t, app, "secret123")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = login(t, app, "newsecret456")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestForgotAndResetPassword(t *testing.T) {
	app := newApp(t)
	register(t, app)

	// Unknown addresses get the same answer as known ones.
	resp := post(t, app, "/api/admin/forgot-password", fiber.Map{
		"email": "nobody@example.com",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post(t, app, "/api/admin/forgot-password", fiber.Map{
		"email": "owner@example.com",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var admin models.Admin
	require.NoError(t, database.DB.First(&admin, "email = ?", "owner@example.com").Error)
	require.NotNil(t, admin.ResetToken)

	resp = post(t, app, "/api/admin/reset-password", fiber.Map{
		"resetToken": *admin.ResetToken, "newPassword": "reset789",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = login(t, app, "reset789")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Token is single-use.
	resp = post(t, app, "/api/admin/reset-password", fiber.Map{
		"resetToken": *admin.ResetToken, "newPassword": "again",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
