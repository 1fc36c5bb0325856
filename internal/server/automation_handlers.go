package server

import (
	"autonation/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateAutomationRequest is the body of POST /protected/automations.
type CreateAutomationRequest struct {
	Name         string   `json:"name" example:"Pricing replies"`
	Keywords     []string `json:"keywords" example:"price,cost"`
	ListenerType string   `json:"listenerType" example:"MESSAGE"`
	Prompt       string   `json:"prompt"`
	CommentReply string   `json:"commentReply"`
	TriggerType  string   `json:"triggerType" example:"COMMENT"`
}

// UpdateAutomationRequest is the body of PUT /protected/automations/:id.
// Absent fields are left unchanged; keywords, when present, replace the set.
type UpdateAutomationRequest struct {
	Name         *string  `json:"name"`
	Active       *bool    `json:"active"`
	Keywords     []string `json:"keywords"`
	Prompt       *string  `json:"prompt"`
	CommentReply *string  `json:"commentReply"`
}

// ListAutomations godoc
// @Summary List automations
// @Description Returns the caller's automations, newest first, with all children attached
// @Tags automations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Automation
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /protected/automations [get]
func (s *Server) ListAutomations(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	automations, err := s.automationService.ListForUser(ctx, currentUserID(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(automations)
}

// CreateAutomation godoc
// @Summary Create an automation
// @Description Creates an automation with its listener, optional trigger and keywords in one transaction
// @Tags automations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAutomationRequest true "Automation"
// @Success 201 {object} models.Automation
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /protected/automations [post]
func (s *Server) CreateAutomation(c *fiber.Ctx) error {
	var req CreateAutomationRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	automation, err := s.automationService.Create(ctx, service.CreateAutomationInput{
		OwnerID:      currentUserID(c),
		Name:         req.Name,
		Keywords:     req.Keywords,
		ListenerType: req.ListenerType,
		Prompt:       req.Prompt,
		CommentReply: req.CommentReply,
		TriggerType:  req.TriggerType,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(automation)
}

// GetAutomation godoc
// @Summary Get an automation
// @Tags automations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Automation ID"
// @Success 200 {object} models.Automation
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /protected/automations/{id} [get]
func (s *Server) GetAutomation(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	automation, err := s.automationService.GetByID(ctx, currentUserID(c), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(automation)
}

// UpdateAutomation godoc
// @Summary Update an automation
// @Description Partial update; keywords, when supplied, replace the whole set
// @Tags automations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Automation ID"
// @Param request body UpdateAutomationRequest true "Fields to change"
// @Success 200 {object} models.Automation
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /protected/automations/{id} [put]
func (s *Server) UpdateAutomation(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req UpdateAutomationRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	automation, err := s.automationService.Update(ctx, service.UpdateAutomationInput{
		OwnerID:      currentUserID(c),
		AutomationID: id,
		Name:         req.Name,
		Active:       req.Active,
		Keywords:     req.Keywords,
		Prompt:       req.Prompt,
		CommentReply: req.CommentReply,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(automation)
}

// DeleteAutomation godoc
// @Summary Delete an automation
// @Description Deletes the automation and its trigger, listener, keywords, posts and DMs
// @Tags automations
// @Security BearerAuth
// @Param id path string true "Automation ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /protected/automations/{id} [delete]
func (s *Server) DeleteAutomation(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := s.automationService.Delete(ctx, currentUserID(c), id); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
