package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"autonation/internal/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	app := fiber.New()
	secret := "test-secret-key-12345678901234567890123456789012"
	verifier := identity.NewHMACVerifier(secret, "", "")

	app.Get("/test", Authenticate(verifier), func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{
			"subject": c.Locals(LocalSubject),
			"email":   claims.Email,
		})
	})

	generateToken := func(sub string, exp time.Duration) string {
		s, err := identity.SignHMACToken(secret, "", "", identity.Claims{
			Subject: sub,
			Email:   "owner@example.com",
		}, exp)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name            string
		authHeader      string
		expectedStatus  int
		expectedSubject string
	}{
		{
			name:            "Happy Path",
			authHeader:      "Bearer " + generateToken("user_123", time.Hour),
			expectedStatus:  http.StatusOK,
			expectedSubject: "user_123",
		},
		{
			name:            "Lowercase Scheme",
			authHeader:      "bearer " + generateToken("user_123", time.Hour),
			expectedStatus:  http.StatusOK,
			expectedSubject: "user_123",
		},
		{
			name:           "Missing Header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Format",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Empty Bearer",
			authHeader:     "Bearer ",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed Token",
			authHeader:     "Bearer malformed.token.here",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + generateToken("user_123", -time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Subject",
			authHeader:     "Bearer " + generateToken("", time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedSubject, body["subject"])
				assert.Equal(t, "owner@example.com", body["email"])
			} else {
				assert.Equal(t, "UNAUTHORIZED", body["code"])
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}
