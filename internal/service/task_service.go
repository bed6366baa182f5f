package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskhub/internal/ai"
	"taskhub/internal/cache"
	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/query"
	"taskhub/internal/repository"
)

// CreateTaskRequest carries the caller-supplied fields for a new task.
// Zero-valued enums fall back to schema defaults.
type CreateTaskRequest struct {
	Title       string
	Description string
	Status      model.TaskStatus
	Priority    model.TaskPriority
	Category    model.TaskCategory
	DueDate     *time.Time
	Tags        []string
	AssignedTo  []uuid.UUID
	Project     *uuid.UUID
	Attachments []model.Attachment
	UseAI       bool
}

// UpdateTaskRequest is the tagged partial-update type: one optional slot per
// allow-listed field. Anything outside this set is rejected at the boundary.
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
	Priority    *model.TaskPriority
	Category    *model.TaskCategory
	DueDate     *time.Time
	Tags        *[]string
	AssignedTo  *[]uuid.UUID
	Attachments *[]model.Attachment
	IsArchived  *bool
}

// Pagination describes the page of a list response.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// TaskService handles the owner-scoped task lifecycle.
type TaskService interface {
	Create(ctx context.Context, owner uuid.UUID, req CreateTaskRequest) (*model.Task, error)
	List(ctx context.Context, owner uuid.UUID, params query.Params) ([]model.Task, *Pagination, error)
	Get(ctx context.Context, id, owner uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, id, owner uuid.UUID, req UpdateTaskRequest) (*model.Task, error)
	Delete(ctx context.Context, id, owner uuid.UUID) error
	AddComment(ctx context.Context, id, owner uuid.UUID, text string) (*model.Task, error)
}

type taskService struct {
	taskRepo  repository.TaskRepository
	suggester ai.Suggester
	cache     *cache.Client
}

// NewTaskService creates a new task service. The suggester may be nil, in
// which case AI enrichment is a no-op.
func NewTaskService(taskRepo repository.TaskRepository, suggester ai.Suggester, cache *cache.Client) TaskService {
	return &taskService{
		taskRepo:  taskRepo,
		suggester: suggester,
		cache:     cache,
	}
}

// Create persists a new task, optionally enriched by the suggestion adapter.
// Adapter failure never fails creation.
func (s *taskService) Create(ctx context.Context, owner uuid.UUID, req CreateTaskRequest) (*model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "title", Message: "Title is required"})
	}

	task := &model.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      req.Status,
		Priority:    req.Priority,
		Category:    req.Category,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   owner,
		Project:     req.Project,
		Attachments: req.Attachments,
	}
	if task.Status == "" {
		task.Status = model.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Category == "" {
		task.Category = model.CategoryOther
	}

	if req.UseAI && s.suggester != nil {
		if suggestion, err := s.suggester.Suggest(ctx, task.Title, task.Description); err != nil {
			log.Printf("ai suggestion failed: %v", err)
		} else if suggestion != nil {
			s.applySuggestion(task, req, suggestion)
		}
	}

	// A status supplied as DONE at creation still gets the stamp.
	task.CompletedAt = model.ApplyStatusTransition(model.StatusTodo, task.Status, nil, time.Now())

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.invalidateStats(ctx, owner)
	return task, nil
}

// applySuggestion stores the raw suggestion and fills only the fields the
// caller left unset. Suggested enum values outside the domain are skipped.
func (s *taskService) applySuggestion(task *model.Task, req CreateTaskRequest, suggestion *ai.Suggestion) {
	task.AISuggestions = &model.AISuggestion{
		SuggestedPriority: suggestion.Priority,
		SuggestedCategory: suggestion.Category,
		SuggestedDueDate:  suggestion.DueDate,
		Confidence:        suggestion.Confidence,
	}

	if req.Priority == "" && validPriority(suggestion.Priority) {
		task.Priority = model.TaskPriority(suggestion.Priority)
	}
	if req.Category == "" && validCategory(suggestion.Category) {
		task.Category = model.TaskCategory(suggestion.Category)
	}
	if req.DueDate == nil && suggestion.DueDate != nil {
		task.DueDate = suggestion.DueDate
	}
}

func validPriority(v string) bool {
	for _, p := range model.PriorityOrder {
		if string(p) == v {
			return true
		}
	}
	return false
}

func validCategory(v string) bool {
	for _, c := range model.CategoryOrder {
		if string(c) == v {
			return true
		}
	}
	return false
}

// List returns the caller's page of tasks plus pagination totals.
func (s *taskService) List(ctx context.Context, owner uuid.UUID, params query.Params) ([]model.Task, *Pagination, error) {
	q := query.Build(owner, params)

	tasks, err := s.taskRepo.List(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("list tasks: %w", err)
	}

	total, err := s.taskRepo.Count(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, &Pagination{
		Total: total,
		Page:  q.Page,
		Pages: query.Pages(total, q.Limit),
	}, nil
}

// Get returns one owned task, comments included.
func (s *taskService) Get(ctx context.Context, id, owner uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindOwned(ctx, id, owner)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

// Update applies allow-listed fields to an owned task. The completedAt stamp
// follows ApplyStatusTransition on every status change.
func (s *taskService) Update(ctx context.Context, id, owner uuid.UUID, req UpdateTaskRequest) (*model.Task, error) {
	task, err := s.Get(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "title", Message: "Title is required"})
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		task.CompletedAt = model.ApplyStatusTransition(task.Status, *req.Status, task.CompletedAt, time.Now())
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}
	if req.AssignedTo != nil {
		task.AssignedTo = *req.AssignedTo
	}
	if req.Attachments != nil {
		task.Attachments = *req.Attachments
	}
	if req.IsArchived != nil {
		task.IsArchived = *req.IsArchived
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	s.invalidateStats(ctx, owner)
	return task, nil
}

// Delete removes an owned task. An absent id and a foreign id return the
// same error.
func (s *taskService) Delete(ctx context.Context, id, owner uuid.UUID) error {
	deleted, err := s.taskRepo.DeleteOwned(ctx, id, owner)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if !deleted {
		return apperrors.ErrTaskNotFound
	}

	s.invalidateStats(ctx, owner)
	return nil
}

// AddComment appends a comment to an owned task and returns the task with
// its comments.
func (s *taskService) AddComment(ctx context.Context, id, owner uuid.UUID, text string) (*model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "text", Message: "Comment text is required"})
	}

	task, err := s.Get(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	comment := &model.TaskComment{
		ID:       uuid.New(),
		TaskID:   task.ID,
		Text:     text,
		AuthorID: owner,
	}
	if err := s.taskRepo.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	task.Comments = append(task.Comments, *comment)
	return task, nil
}

func (s *taskService) invalidateStats(ctx context.Context, owner uuid.UUID) {
	_ = s.cache.Delete(ctx, statsCacheKey(owner))
}
