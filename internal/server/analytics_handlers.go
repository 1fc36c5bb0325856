package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListIntegrations godoc
// @Summary List connected integrations
// @Tags integrations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Integration
// @Failure 404 {object} models.ErrorResponse
// @Router /protected/integrations [get]
func (s *Server) ListIntegrations(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	integrations, err := s.integrationService.ListIntegrations(ctx, currentUserID(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(integrations)
}

// GetAnalytics godoc
// @Summary Automation analytics
// @Description Automation, DM and post counts with the DM response rate
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Summary
// @Failure 404 {object} models.ErrorResponse
// @Router /protected/analytics [get]
func (s *Server) GetAnalytics(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	summary, err := s.analyticsService.Summarize(ctx, currentUserID(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(summary)
}
