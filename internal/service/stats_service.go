package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskhub/internal/cache"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

const statsCacheTTL = 30 * time.Second

func statsCacheKey(owner uuid.UUID) string {
	return "stats:" + owner.String()
}

// StatsOverview holds the scalar rollups over a caller's tasks.
type StatsOverview struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	Overdue        int64   `json:"overdue"`
	CompletionRate float64 `json:"completion_rate"`
}

// Stats is a single recomputed-from-scratch snapshot. Category and priority
// groups contain observed values only.
type Stats struct {
	Overview   StatsOverview           `json:"overview"`
	ByCategory []repository.GroupCount `json:"byCategory"`
	ByPriority []repository.GroupCount `json:"byPriority"`
}

// StatsService computes rollups over a caller's tasks.
type StatsService interface {
	Snapshot(ctx context.Context, owner uuid.UUID) (*Stats, error)
}

type statsService struct {
	taskRepo repository.TaskRepository
	cache    *cache.Client
}

// NewStatsService creates a new stats service.
func NewStatsService(taskRepo repository.TaskRepository, cache *cache.Client) StatsService {
	return &statsService{
		taskRepo: taskRepo,
		cache:    cache,
	}
}

// Snapshot returns the caller's rollups, served from a short-lived cache
// that task mutations invalidate.
func (s *statsService) Snapshot(ctx context.Context, owner uuid.UUID) (*Stats, error) {
	key := statsCacheKey(owner)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached Stats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.compute(ctx, owner)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, key, payload, statsCacheTTL)
	}
	return stats, nil
}

func (s *statsService) compute(ctx context.Context, owner uuid.UUID) (*Stats, error) {
	total, err := s.taskRepo.CountOwned(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	completed, err := s.taskRepo.CountByStatus(ctx, owner, model.StatusDone)
	if err != nil {
		return nil, fmt.Errorf("count completed: %w", err)
	}

	overdue, err := s.taskRepo.CountOverdue(ctx, owner, time.Now())
	if err != nil {
		return nil, fmt.Errorf("count overdue: %w", err)
	}

	byCategory, err := s.taskRepo.GroupByCategory(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("group by category: %w", err)
	}

	byPriority, err := s.taskRepo.GroupByPriority(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("group by priority: %w", err)
	}

	// Guard the empty set; the ratio is defined as zero when nothing exists.
	var completionRate float64
	if total > 0 {
		completionRate = float64(completed) / float64(total) * 100
	}

	return &Stats{
		Overview: StatsOverview{
			Total:          total,
			Completed:      completed,
			Overdue:        overdue,
			CompletionRate: completionRate,
		},
		ByCategory: byCategory,
		ByPriority: byPriority,
	}, nil
}
