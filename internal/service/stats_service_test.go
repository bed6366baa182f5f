package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taskhub/internal/model"
	"taskhub/internal/repository"
)

func TestStatsService_Snapshot(t *testing.T) {
	owner := uuid.New()

	t.Run("empty set yields zero completion rate", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("CountOwned", mock.Anything, owner).Return(int64(0), nil)
		mockRepo.On("CountByStatus", mock.Anything, owner, model.StatusDone).Return(int64(0), nil)
		mockRepo.On("CountOverdue", mock.Anything, owner, mock.Anything).Return(int64(0), nil)
		mockRepo.On("GroupByCategory", mock.Anything, owner).Return([]repository.GroupCount{}, nil)
		mockRepo.On("GroupByPriority", mock.Anything, owner).Return([]repository.GroupCount{}, nil)

		svc := NewStatsService(mockRepo, nil)
		stats, err := svc.Snapshot(context.Background(), owner)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), stats.Overview.Total)
		assert.Equal(t, float64(0), stats.Overview.CompletionRate)
	})

	t.Run("rollups", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("CountOwned", mock.Anything, owner).Return(int64(4), nil)
		mockRepo.On("CountByStatus", mock.Anything, owner, model.StatusDone).Return(int64(1), nil)
		mockRepo.On("CountOverdue", mock.Anything, owner, mock.Anything).Return(int64(2), nil)
		mockRepo.On("GroupByCategory", mock.Anything, owner).Return([]repository.GroupCount{
			{Value: "WORK", Count: 3},
			{Value: "HEALTH", Count: 1},
		}, nil)
		mockRepo.On("GroupByPriority", mock.Anything, owner).Return([]repository.GroupCount{
			{Value: "MEDIUM", Count: 4},
		}, nil)

		svc := NewStatsService(mockRepo, nil)
		stats, err := svc.Snapshot(context.Background(), owner)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), stats.Overview.Total)
		assert.Equal(t, int64(1), stats.Overview.Completed)
		assert.Equal(t, int64(2), stats.Overview.Overdue)
		assert.Equal(t, float64(25), stats.Overview.CompletionRate)
		// Only observed values appear; no zero-filling across the enum domain.
		assert.Len(t, stats.ByCategory, 2)
		assert.Len(t, stats.ByPriority, 1)
	})
}
