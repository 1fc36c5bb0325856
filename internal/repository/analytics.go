package repository

import (
	"context"

	"autonation/internal/models"

	"gorm.io/gorm"
)

// AnalyticsCounts are the raw per-owner aggregates behind the analytics readout.
type AnalyticsCounts struct {
	Automations       int64
	ActiveAutomations int64
	Dms               int64
	Posts             int64
}

// AnalyticsRepository reads aggregate counts scoped to an owner.
type AnalyticsRepository interface {
	CountsForOwner(ctx context.Context, ownerID string) (AnalyticsCounts, error)
}

type analyticsRepository struct {
	base
}

// NewAnalyticsRepository returns a new AnalyticsRepository implementation.
func NewAnalyticsRepository(db *gorm.DB, opts ...Option) AnalyticsRepository {
	return &analyticsRepository{base: newBase(db, opts)}
}

func (r *analyticsRepository) CountsForOwner(ctx context.Context, ownerID string) (AnalyticsCounts, error) {
	defer r.metrics.TrackQuery("counts_for_owner", "automations")()

	var counts AnalyticsCounts
	db := r.readDB().WithContext(ctx)

	if err := db.Model(&models.Automation{}).
		Where("user_id = ?", ownerID).
		Count(&counts.Automations).Error; err != nil {
		return AnalyticsCounts{}, models.NewInternalError(err)
	}
	if err := db.Model(&models.Automation{}).
		Where("user_id = ? AND active = ?", ownerID, true).
		Count(&counts.ActiveAutomations).Error; err != nil {
		return AnalyticsCounts{}, models.NewInternalError(err)
	}
	if err := db.Model(&models.Dm{}).
		Joins("JOIN automations ON automations.id = dms.automation_id").
		Where("automations.user_id = ?", ownerID).
		Count(&counts.Dms).Error; err != nil {
		return AnalyticsCounts{}, models.NewInternalError(err)
	}
	if err := db.Model(&models.Post{}).
		Joins("JOIN automations ON automations.id = posts.automation_id").
		Where("automations.user_id = ?", ownerID).
		Count(&counts.Posts).Error; err != nil {
		return AnalyticsCounts{}, models.NewInternalError(err)
	}
	return counts, nil
}
