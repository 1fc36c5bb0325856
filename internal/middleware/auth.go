// Package middleware provides authentication, logging, rate limiting, tracing
// and metrics middleware for the HTTP server.
package middleware

import (
	"context"
	"errors"
	"strings"

	"autonation/internal/identity"
	"autonation/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Fiber locals written by Authenticate.
const (
	LocalSubject = "subject"
	LocalClaims  = "claims"
)

// Authenticate verifies the bearer token with v and stores the subject and
// claims in Fiber locals. Requests without a valid token get 401.
func Authenticate(v identity.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization header required"))
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		claims, err := v.Verify(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, identity.ErrMissingSubject) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid token structure - missing subject"))
			}
			Logger.DebugContext(c.UserContext(), "token verification failed", "error", err)
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		c.Locals(LocalSubject, claims.Subject)
		c.Locals(LocalClaims, claims)
		c.SetUserContext(context.WithValue(c.UserContext(), SubjectKey, claims.Subject))

		return c.Next()
	}
}

// ClaimsFrom returns the verified claims stored by Authenticate.
func ClaimsFrom(c *fiber.Ctx) (*identity.Claims, bool) {
	claims, ok := c.Locals(LocalClaims).(*identity.Claims)
	return claims, ok && claims != nil
}
