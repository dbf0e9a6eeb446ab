package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"sports-event-platform/models"
)

// Claims is the payload of a bearer token: the user id and its role.
type Claims struct {
	UserID string      `json:"id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate verifies an HS256 "Authorization: Bearer <token>" header and
// attaches the resulting models.Caller to the request locals.
func Authenticate(secret string) fiber.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}

		var cl Claims
		tok, err := parser.ParseWithClaims(strings.TrimSpace(token), &cl, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil || !tok.Valid {
			if !errors.Is(err, jwt.ErrTokenExpired) {
				zap.L().Debug("[AUTH] rejected token", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		if cl.UserID == "" || !cl.Role.Valid() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token claims"})
		}

		c.Locals(models.CallerLocalsKey, models.Caller{UserID: cl.UserID, Role: cl.Role})
		return c.Next()
	}
}

// RequireRoles lets the request through only when the authenticated caller
// holds one of the given roles. It must run after Authenticate.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := c.Locals(models.CallerLocalsKey).(models.Caller)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		for _, r := range roles {
			if caller.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
	}
}
