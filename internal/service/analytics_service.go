package service

import (
	"context"
	"math"

	"autonation/internal/models"
	"autonation/internal/repository"
)

// Summary is the per-owner analytics readout.
type Summary struct {
	TotalAutomations  int64 `json:"totalAutomations"`
	ActiveAutomations int64 `json:"activeAutomations"`
	TotalDms          int64 `json:"totalDms"`
	TotalPosts        int64 `json:"totalPosts"`
	ResponseRate      int64 `json:"responseRate"`
}

type AnalyticsService struct {
	repo repository.AnalyticsRepository
}

func NewAnalyticsService(repo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

func (s *AnalyticsService) Summarize(ctx context.Context, ownerID string) (*Summary, error) {
	counts, err := s.repo.CountsForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &Summary{
		TotalAutomations:  counts.Automations,
		ActiveAutomations: counts.ActiveAutomations,
		TotalDms:          counts.Dms,
		TotalPosts:        counts.Posts,
		ResponseRate:      responseRate(counts.Dms, counts.Posts),
	}, nil
}

// responseRate is the rounded percentage of DMs among DMs plus posts.
func responseRate(dms, posts int64) int64 {
	total := dms + posts
	if total <= 0 {
		return 0
	}
	return int64(math.Round(float64(dms) / float64(total) * 100))
}

type IntegrationService struct {
	repo repository.IntegrationRepository
}

func NewIntegrationService(repo repository.IntegrationRepository) *IntegrationService {
	return &IntegrationService{repo: repo}
}

func (s *IntegrationService) ListIntegrations(ctx context.Context, ownerID string) ([]models.Integration, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
