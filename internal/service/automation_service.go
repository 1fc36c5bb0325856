// Package service holds the business rules between HTTP handlers and repositories.
package service

import (
	"context"

	"autonation/internal/models"
	"autonation/internal/observability"
	"autonation/internal/repository"
	"autonation/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type AutomationService struct {
	repo repository.AutomationRepository
}

// CreateAutomationInput carries an automation create request. Empty strings
// mean "not supplied"; a Trigger is only created when TriggerType is set.
type CreateAutomationInput struct {
	OwnerID      string
	Name         string
	Keywords     []string
	ListenerType string
	Prompt       string
	CommentReply string
	TriggerType  string
}

// UpdateAutomationInput carries a partial update. Nil fields are left
// unchanged; a non-nil Keywords slice replaces the whole set.
type UpdateAutomationInput struct {
	OwnerID      string
	AutomationID string
	Name         *string
	Active       *bool
	Keywords     []string
	Prompt       *string
	CommentReply *string
}

func NewAutomationService(repo repository.AutomationRepository) *AutomationService {
	return &AutomationService{repo: repo}
}

func track(op string, span *observability.Span, err error) {
	observability.AutomationOperations.WithLabelValues(op, observability.Outcome(err)).Inc()
	span.SetError(err)
	span.End()
}

func (s *AutomationService) ListForUser(ctx context.Context, ownerID string) (automations []models.Automation, err error) {
	span, ctx := observability.StartSpan(ctx, "AutomationService", "ListForUser", attribute.String("user.id", ownerID))
	defer func() { track("list", span, err) }()

	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *AutomationService) Create(ctx context.Context, in CreateAutomationInput) (automation *models.Automation, err error) {
	span, ctx := observability.StartSpan(ctx, "AutomationService", "Create", attribute.String("user.id", in.OwnerID))
	defer func() { track("create", span, err) }()

	name, err := validation.NormalizeName(in.Name)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if name == "" {
		name = models.DefaultAutomationName
	}

	words, err := validation.NormalizeKeywords(in.Keywords)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	kind, err := validation.ListenerKind(in.ListenerType)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ListenerText("prompt", in.Prompt); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ListenerText("commentReply", in.CommentReply); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	automation = &models.Automation{
		Name:   name,
		UserID: in.OwnerID,
		Listener: &models.Listener{
			Listener:     kind,
			Prompt:       in.Prompt,
			CommentReply: in.CommentReply,
		},
	}

	if in.TriggerType != "" {
		triggerType, err := validation.TriggerType(in.TriggerType)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		automation.Trigger = &models.Trigger{Type: triggerType}
	}

	for _, w := range words {
		automation.Keywords = append(automation.Keywords, models.Keyword{Word: w})
	}

	if err := s.repo.Create(ctx, automation); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("automation.id", automation.ID),
		attribute.StringSlice("automation.keywords", automation.Words()),
	)
	return automation, nil
}

func (s *AutomationService) GetByID(ctx context.Context, ownerID, automationID string) (automation *models.Automation, err error) {
	span, ctx := observability.StartSpan(ctx, "AutomationService", "GetByID",
		attribute.String("user.id", ownerID),
		attribute.String("automation.id", automationID),
	)
	defer func() { track("get", span, err) }()

	return s.repo.GetByOwner(ctx, ownerID, automationID)
}

func (s *AutomationService) Update(ctx context.Context, in UpdateAutomationInput) (automation *models.Automation, err error) {
	span, ctx := observability.StartSpan(ctx, "AutomationService", "Update",
		attribute.String("user.id", in.OwnerID),
		attribute.String("automation.id", in.AutomationID),
	)
	defer func() { track("update", span, err) }()

	patch := repository.AutomationPatch{Active: in.Active}

	if in.Name != nil {
		name, err := validation.NormalizeName(*in.Name)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if name == "" {
			return nil, models.NewValidationError("name cannot be blank")
		}
		patch.Name = &name
	}

	if in.Keywords != nil {
		words, err := validation.NormalizeKeywords(in.Keywords)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		patch.Keywords = words
	}

	if in.Prompt != nil {
		if err := validation.ListenerText("prompt", *in.Prompt); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		patch.Prompt = in.Prompt
	}
	if in.CommentReply != nil {
		if err := validation.ListenerText("commentReply", *in.CommentReply); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		patch.CommentReply = in.CommentReply
	}

	automation, err = s.repo.Update(ctx, in.OwnerID, in.AutomationID, patch)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.StringSlice("automation.keywords", automation.Words()))
	return automation, nil
}

func (s *AutomationService) Delete(ctx context.Context, ownerID, automationID string) (err error) {
	span, ctx := observability.StartSpan(ctx, "AutomationService", "Delete",
		attribute.String("user.id", ownerID),
		attribute.String("automation.id", automationID),
	)
	defer func() { track("delete", span, err) }()

	return s.repo.Delete(ctx, ownerID, automationID)
}
