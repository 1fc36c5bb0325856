package repository

import (
	"context"

	"autonation/internal/models"

	"gorm.io/gorm"
)

// IntegrationRepository reads a user's connected accounts.
type IntegrationRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Integration, error)
}

type integrationRepository struct {
	base
}

// NewIntegrationRepository returns a new IntegrationRepository implementation.
func NewIntegrationRepository(db *gorm.DB, opts ...Option) IntegrationRepository {
	return &integrationRepository{base: newBase(db, opts)}
}

func (r *integrationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Integration, error) {
	defer r.metrics.TrackQuery("list_by_owner", "integrations")()

	integrations := []models.Integration{}
	if err := r.readDB().WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Find(&integrations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return integrations, nil
}
