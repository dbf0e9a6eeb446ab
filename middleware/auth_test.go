package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sports-event-platform/models"
)

const testSecret = "test-secret"

func sign(t *testing.T, secret string, cl Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func claimsFor(id string, role models.Role, ttl time.Duration) Claims {
	return Claims{
		UserID: id,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/whoami", Authenticate(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals(models.CallerLocalsKey).(models.Caller))
	})
	app.Get("/dev-only", Authenticate(testSecret), RequireRoles(models.RoleDeveloper), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func do(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthenticate(t *testing.T) {
	app := newApp()

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, fiber.StatusUnauthorized, do(t, app, "/whoami", ""))
	})

	t.Run("valid token", func(t *testing.T) {
		tok := sign(t, testSecret, claimsFor("u1", models.RoleAdmin, time.Hour))
		assert.Equal(t, fiber.StatusOK, do(t, app, "/whoami", tok))
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok := sign(t, "other", claimsFor("u1", models.RoleAdmin, time.Hour))
		assert.Equal(t, fiber.StatusUnauthorized, do(t, app, "/whoami", tok))
	})

	t.Run("expired", func(t *testing.T) {
		tok := sign(t, testSecret, claimsFor("u1", models.RoleAdmin, -time.Minute))
		assert.Equal(t, fiber.StatusUnauthorized, do(t, app, "/whoami", tok))
	})

	t.Run("unknown role", func(t *testing.T) {
		tok := sign(t, testSecret, claimsFor("u1", models.Role("OWNER"), time.Hour))
		assert.Equal(t, fiber.StatusUnauthorized, do(t, app, "/whoami", tok))
	})
}

func TestRequireRoles(t *testing.T) {
	app := newApp()

	dev := sign(t, testSecret, claimsFor("d1", models.RoleDeveloper, time.Hour))
	assert.Equal(t, fiber.StatusNoContent, do(t, app, "/dev-only", dev))

	incharge := sign(t, testSecret, claimsFor("i1", models.RoleIncharge, time.Hour))
	assert.Equal(t, fiber.StatusForbidden, do(t, app, "/dev-only", incharge))
}
