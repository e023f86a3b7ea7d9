package service

import (
	"context"
	"fmt"

	"github.com/Euroteck-developer/Reminder-App/repository"
	"github.com/Euroteck-developer/Reminder-App/types"
)

type StatsService interface {
	// UserPerformance runs the statistics query type for userID, where
	// userID may be a numeric id, "self" or empty.
	UserPerformance(ctx context.Context, actor types.Actor, statsType, userID string) (*types.PerformanceResponse, error)
}

type statsService struct {
	repo repository.StatsRepo
}

func NewStatsService(repo repository.StatsRepo) StatsService {
	return &statsService{
		repo: repo,
	}
}

func (s *statsService) UserPerformance(ctx context.Context, actor types.Actor, statsType, userID string) (*types.PerformanceResponse, error) {
	q, err := ResolveStatsQuery(actor, statsType, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.PerformanceRows(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("performance rows: %w", err)
	}
	if rows == nil {
		rows = []types.PerformanceRow{}
	}
	return &types.PerformanceResponse{
		Success:            true,
		PerformanceSummary: SummarizePerformance(rows),
		Data:               rows,
	}, nil
}
