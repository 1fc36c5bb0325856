package server

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"autonation/internal/middleware"
	"autonation/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// localUserID is the Fiber local holding the internal user id set by ResolveUser.
const localUserID = "userID"

const requestTimeout = 5 * time.Second

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// requestContext derives the bounded context every handler passes downstream.
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// currentUserID returns the internal user id stored by ResolveUser.
func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// currentSubject returns the identity-provider subject stored by Authenticate.
func currentSubject(c *fiber.Ctx) string {
	sub, _ := c.Locals(middleware.LocalSubject).(string)
	return sub
}

// parseID extracts a route parameter by name as a UUID string.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "automationId" -> "Invalid automation ID").
func parseID(c *fiber.Ctx, param string) (string, error) {
	raw := c.Params(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return "", errResponseWritten
	}
	return id.String(), nil
}

// parseBody decodes a JSON body into out. An empty body leaves out untouched.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "automationId" -> "automation ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	// Split on camelCase boundary before the trailing "Id" suffix.
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// statusFor maps an AppError code to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return fiber.StatusGatewayTimeout
	}
	switch models.ErrorCode(err) {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError writes the error response for a service failure.
// Internal errors are logged with their cause and reported without it.
func (s *Server) respondServiceError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	switch status {
	case fiber.StatusGatewayTimeout:
		middleware.Logger.WarnContext(c.UserContext(), "request timed out", "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{"error": "Request timeout"})
	case fiber.StatusInternalServerError:
		middleware.Logger.ErrorContext(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	}
	return models.RespondWithError(c, status, err)
}
