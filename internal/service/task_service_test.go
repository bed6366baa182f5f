package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"taskhub/internal/ai"
	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/query"
	"taskhub/internal/repository"
)

// MockTaskRepository is a mock implementation of TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Save(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) FindOwned(ctx context.Context, id, owner uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) DeleteOwned(ctx context.Context, id, owner uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, owner)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, q query.TaskQuery) ([]model.Task, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Count(ctx context.Context, q query.TaskQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) AddComment(ctx context.Context, comment *model.TaskComment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockTaskRepository) CountOwned(ctx context.Context, owner uuid.UUID) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) CountByStatus(ctx context.Context, owner uuid.UUID, status model.TaskStatus) (int64, error) {
	args := m.Called(ctx, owner, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) CountOverdue(ctx context.Context, owner uuid.UUID, now time.Time) (int64, error) {
	args := m.Called(ctx, owner, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) GroupByCategory(ctx context.Context, owner uuid.UUID) ([]repository.GroupCount, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.GroupCount), args.Error(1)
}

func (m *MockTaskRepository) GroupByPriority(ctx context.Context, owner uuid.UUID) ([]repository.GroupCount, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.GroupCount), args.Error(1)
}

// fakeSuggester is a canned Suggester implementation.
type fakeSuggester struct {
	suggestion *ai.Suggestion
	err        error
	calls      int
}

func (f *fakeSuggester) Suggest(ctx context.Context, title, description string) (*ai.Suggestion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.suggestion, nil
}

func TestTaskService_Create_Defaults(t *testing.T) {
	owner := uuid.New()
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

	svc := NewTaskService(mockRepo, nil, nil)
	task, err := svc.Create(context.Background(), owner, CreateTaskRequest{Title: "  Ship report  "})

	assert.NoError(t, err)
	assert.Equal(t, "Ship report", task.Title)
	assert.Equal(t, model.StatusTodo, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, model.CategoryOther, task.Category)
	assert.Equal(t, owner, task.CreatedBy)
	assert.Nil(t, task.CompletedAt)
	assert.Nil(t, task.AISuggestions)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_Create_EmptyTitle(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	svc := NewTaskService(mockRepo, nil, nil)

	_, err := svc.Create(context.Background(), uuid.New(), CreateTaskRequest{Title: "   "})

	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestTaskService_Create_DoneAtCreationStamps(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

	svc := NewTaskService(mockRepo, nil, nil)
	before := time.Now()
	task, err := svc.Create(context.Background(), uuid.New(), CreateTaskRequest{
		Title:  "Already finished",
		Status: model.StatusDone,
	})

	assert.NoError(t, err)
	assert.NotNil(t, task.CompletedAt)
	assert.False(t, task.CompletedAt.Before(before))
}

func TestTaskService_Create_AI(t *testing.T) {
	owner := uuid.New()
	due := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name             string
		req              CreateTaskRequest
		suggester        *fakeSuggester
		expectedPriority model.TaskPriority
		expectedCategory model.TaskCategory
		expectDueDate    bool
		expectRawStored  bool
		expectCalls      int
	}{
		{
			name:             "adapter failure never fails creation",
			req:              CreateTaskRequest{Title: "Plan trip", UseAI: true},
			suggester:        &fakeSuggester{err: errors.New("upstream timeout")},
			expectedPriority: model.PriorityMedium,
			expectedCategory: model.CategoryOther,
			expectRawStored:  false,
			expectCalls:      1,
		},
		{
			name: "suggestion fills unset fields",
			req:  CreateTaskRequest{Title: "Plan trip", UseAI: true},
			suggester: &fakeSuggester{suggestion: &ai.Suggestion{
				Priority:   "HIGH",
				Category:   "PERSONAL",
				DueDate:    &due,
				Confidence: 0.9,
			}},
			expectedPriority: model.PriorityHigh,
			expectedCategory: model.CategoryPersonal,
			expectDueDate:    true,
			expectRawStored:  true,
			expectCalls:      1,
		},
		{
			name: "caller supplied fields win over suggestion",
			req:  CreateTaskRequest{Title: "Plan trip", Priority: model.PriorityLow, Category: model.CategoryWork, UseAI: true},
			suggester: &fakeSuggester{suggestion: &ai.Suggestion{
				Priority:   "URGENT",
				Category:   "PERSONAL",
				Confidence: 0.9,
			}},
			expectedPriority: model.PriorityLow,
			expectedCategory: model.CategoryWork,
			expectRawStored:  true,
			expectCalls:      1,
		},
		{
			name: "out of domain suggested values are not applied",
			req:  CreateTaskRequest{Title: "Plan trip", UseAI: true},
			suggester: &fakeSuggester{suggestion: &ai.Suggestion{
				Priority:   "CRITICAL",
				Category:   "CHORES",
				Confidence: 0.4,
			}},
			expectedPriority: model.PriorityMedium,
			expectedCategory: model.CategoryOther,
			expectRawStored:  true,
			expectCalls:      1,
		},
		{
			name:             "no opt in, adapter never consulted",
			req:              CreateTaskRequest{Title: "Plan trip", UseAI: false},
			suggester:        &fakeSuggester{suggestion: &ai.Suggestion{Priority: "HIGH"}},
			expectedPriority: model.PriorityMedium,
			expectedCategory: model.CategoryOther,
			expectRawStored:  false,
			expectCalls:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

			svc := NewTaskService(mockRepo, tt.suggester, nil)
			task, err := svc.Create(context.Background(), owner, tt.req)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedPriority, task.Priority)
			assert.Equal(t, tt.expectedCategory, task.Category)
			assert.Equal(t, tt.expectCalls, tt.suggester.calls)
			if tt.expectDueDate {
				assert.NotNil(t, task.DueDate)
			}
			if tt.expectRawStored {
				assert.NotNil(t, task.AISuggestions)
				assert.Equal(t, tt.suggester.suggestion.Priority, task.AISuggestions.SuggestedPriority)
			} else {
				assert.Nil(t, task.AISuggestions)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_Update_StatusTransition(t *testing.T) {
	owner := uuid.New()
	taskID := uuid.New()

	t.Run("first DONE transition stamps completedAt", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindOwned", mock.Anything, taskID, owner).Return(&model.Task{
			ID:        taskID,
			Title:     "Ship report",
			Status:    model.StatusTodo,
			CreatedBy: owner,
		}, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

		svc := NewTaskService(mockRepo, nil, nil)
		done := model.StatusDone
		before := time.Now()
		task, err := svc.Update(context.Background(), taskID, owner, UpdateTaskRequest{Status: &done})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusDone, task.Status)
		assert.NotNil(t, task.CompletedAt)
		assert.False(t, task.CompletedAt.Before(before))
	})

	t.Run("leaving DONE keeps the stamp", func(t *testing.T) {
		stamped := time.Now().Add(-time.Hour)
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindOwned", mock.Anything, taskID, owner).Return(&model.Task{
			ID:          taskID,
			Title:       "Ship report",
			Status:      model.StatusDone,
			CompletedAt: &stamped,
			CreatedBy:   owner,
		}, nil)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

		svc := NewTaskService(mockRepo, nil, nil)
		review := model.StatusReview
		task, err := svc.Update(context.Background(), taskID, owner, UpdateTaskRequest{Status: &review})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusReview, task.Status)
		assert.Equal(t, &stamped, task.CompletedAt)
	})
}

func TestTaskService_Update_NotOwned(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("FindOwned", mock.Anything, mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	svc := NewTaskService(mockRepo, nil, nil)
	title := "New title"
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateTaskRequest{Title: &title})

	assert.Equal(t, apperrors.ErrTaskNotFound, err)
	mockRepo.AssertNotCalled(t, "Save")
}

func TestTaskService_Update_EmptyTitle(t *testing.T) {
	owner := uuid.New()
	taskID := uuid.New()
	mockRepo := new(MockTaskRepository)
	mockRepo.On("FindOwned", mock.Anything, taskID, owner).Return(&model.Task{
		ID:        taskID,
		Title:     "Ship report",
		CreatedBy: owner,
	}, nil)

	svc := NewTaskService(mockRepo, nil, nil)
	empty := "  "
	_, err := svc.Update(context.Background(), taskID, owner, UpdateTaskRequest{Title: &empty})

	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
	mockRepo.AssertNotCalled(t, "Save")
}

func TestTaskService_Delete(t *testing.T) {
	t.Run("absent and foreign ids are indistinguishable", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("DeleteOwned", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

		svc := NewTaskService(mockRepo, nil, nil)
		err := svc.Delete(context.Background(), uuid.New(), uuid.New())

		assert.Equal(t, apperrors.ErrTaskNotFound, err)
	})

	t.Run("owned task deleted", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("DeleteOwned", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

		svc := NewTaskService(mockRepo, nil, nil)
		assert.NoError(t, svc.Delete(context.Background(), uuid.New(), uuid.New()))
	})
}

func TestTaskService_AddComment(t *testing.T) {
	owner := uuid.New()
	taskID := uuid.New()

	t.Run("appends comment with caller as author", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindOwned", mock.Anything, taskID, owner).Return(&model.Task{
			ID:        taskID,
			Title:     "Ship report",
			CreatedBy: owner,
		}, nil)
		mockRepo.On("AddComment", mock.Anything, mock.MatchedBy(func(c *model.TaskComment) bool {
			return c.TaskID == taskID && c.AuthorID == owner && c.Text == "Looks good"
		})).Return(nil)

		svc := NewTaskService(mockRepo, nil, nil)
		task, err := svc.AddComment(context.Background(), taskID, owner, "  Looks good  ")

		assert.NoError(t, err)
		assert.Len(t, task.Comments, 1)
		assert.Equal(t, "Looks good", task.Comments[0].Text)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		svc := NewTaskService(mockRepo, nil, nil)

		_, err := svc.AddComment(context.Background(), taskID, owner, "   ")

		var verr *apperrors.ValidationError
		assert.ErrorAs(t, err, &verr)
		mockRepo.AssertNotCalled(t, "FindOwned")
	})
}

func TestTaskService_List_Pagination(t *testing.T) {
	owner := uuid.New()
	mockRepo := new(MockTaskRepository)
	mockRepo.On("List", mock.Anything, mock.AnythingOfType("query.TaskQuery")).Return([]model.Task{}, nil)
	mockRepo.On("Count", mock.Anything, mock.AnythingOfType("query.TaskQuery")).Return(int64(25), nil)

	svc := NewTaskService(mockRepo, nil, nil)
	_, pagination, err := svc.List(context.Background(), owner, query.Params{})

	assert.NoError(t, err)
	assert.Equal(t, int64(25), pagination.Total)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 3, pagination.Pages)
}

func TestTaskService_List_OwnerPassedThrough(t *testing.T) {
	owner := uuid.New()
	mockRepo := new(MockTaskRepository)
	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(q query.TaskQuery) bool {
		return q.Owner == owner
	})).Return([]model.Task{}, nil)
	mockRepo.On("Count", mock.Anything, mock.MatchedBy(func(q query.TaskQuery) bool {
		return q.Owner == owner
	})).Return(int64(0), nil)

	svc := NewTaskService(mockRepo, nil, nil)
	_, pagination, err := svc.List(context.Background(), owner, query.Params{Status: "DONE"})

	assert.NoError(t, err)
	assert.Equal(t, 0, pagination.Pages)
	mockRepo.AssertExpectations(t)
}
