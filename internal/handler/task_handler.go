package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/query"
	"taskhub/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService  service.TaskService
	statsService service.StatsService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService, statsService service.StatsService) *TaskHandler {
	return &TaskHandler{
		taskService:  taskService,
		statsService: statsService,
	}
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description"`
	Status      string             `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS REVIEW DONE"`
	Priority    string             `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Category    string             `json:"category" validate:"omitempty,oneof=WORK PERSONAL SHOPPING HEALTH EDUCATION OTHER"`
	DueDate     *time.Time         `json:"dueDate"`
	Tags        []string           `json:"tags"`
	AssignedTo  []uuid.UUID        `json:"assignedTo"`
	Project     *uuid.UUID         `json:"project"`
	Attachments []model.Attachment `json:"attachments"`
	UseAI       bool               `json:"useAI"`
}

// UpdateTaskRequest represents a partial task update. Fields outside this
// set are rejected at decode time.
type UpdateTaskRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Status      *string             `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS REVIEW DONE"`
	Priority    *string             `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Category    *string             `json:"category" validate:"omitempty,oneof=WORK PERSONAL SHOPPING HEALTH EDUCATION OTHER"`
	DueDate     *time.Time          `json:"dueDate"`
	Tags        *[]string           `json:"tags"`
	AssignedTo  *[]uuid.UUID        `json:"assignedTo"`
	Attachments *[]model.Attachment `json:"attachments"`
	IsArchived  *bool               `json:"isArchived"`
}

// AddCommentRequest represents a comment append request.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// ListTasksData is the data payload of the task list response.
type ListTasksData struct {
	Tasks      []model.Task        `json:"tasks"`
	Pagination *service.Pagination `json:"pagination"`
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task fields"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailure(c, err)
	}

	task, err := h.taskService.Create(c.Request().Context(), user.ID, service.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatus(req.Status),
		Priority:    model.TaskPriority(req.Priority),
		Category:    model.TaskCategory(req.Category),
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		AssignedTo:  req.AssignedTo,
		Project:     req.Project,
		Attachments: req.Attachments,
		UseAI:       req.UseAI,
	})
	if err != nil {
		return failure(c, err)
	}

	return success(c, http.StatusCreated, echo.Map{"task": task})
}

// List godoc
// @Summary List owned tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param category query string false "Category filter"
// @Param isArchived query string false "Archived filter, literal true"
// @Param search query string false "Substring search on title or description"
// @Param sortBy query string false "field:direction"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}

	tasks, pagination, err := h.taskService.List(c.Request().Context(), user.ID, query.Params{
		Status:     c.QueryParam("status"),
		Priority:   c.QueryParam("priority"),
		Category:   c.QueryParam("category"),
		IsArchived: c.QueryParam("isArchived"),
		Search:     c.QueryParam("search"),
		SortBy:     c.QueryParam("sortBy"),
		Page:       c.QueryParam("page"),
		Limit:      c.QueryParam("limit"),
	})
	if err != nil {
		return failure(c, err)
	}

	if tasks == nil {
		tasks = []model.Task{}
	}
	return success(c, http.StatusOK, ListTasksData{Tasks: tasks, Pagination: pagination})
}

// Stats godoc
// @Summary Get task statistics
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /tasks/stats [get]
func (h *TaskHandler) Stats(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}

	stats, err := h.statsService.Snapshot(c.Request().Context(), user.ID)
	if err != nil {
		return failure(c, err)
	}

	return success(c, http.StatusOK, stats)
}

// Get godoc
// @Summary Get a single owned task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}

	id, err := parseTaskID(c)
	if err != nil {
		return failure(c, err)
	}

	task, err := h.taskService.Get(c.Request().Context(), id, user.ID)
	if err != nil {
		return failure(c, err)
	}

	return success(c, http.StatusOK, echo.Map{"task": task})
}

// Update godoc
// @Summary Update allow-listed task fields
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to update"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}

	id, err := parseTaskID(c)
	if err != nil {
		return failure(c, err)
	}

	req, err := decodeStrict[UpdateTaskRequest](c)
	if err != nil {
		return failure(c, err)
	}
	if err := c.Validate(req); err != nil {
		return validationFailure(c, err)
	}

	task, err := h.taskService.Update(c.Request().Context(), id, user.ID, service.UpdateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      (*model.TaskStatus)(req.Status),
		Priority:    (*model.TaskPriority)(req.Priority),
		Category:    (*model.TaskCategory)(req.Category),
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		AssignedTo:  req.AssignedTo,
		Attachments: req.Attachments,
		IsArchived:  req.IsArchived,
	})
	if err != nil {
		return failure(c, err)
	}

	return success(c, http.StatusOK, echo.Map{"task": task})
}

// Delete godoc
// @Summary Delete an owned task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}

	id, err := parseTaskID(c)
	if err != nil {
		return failure(c, err)
	}

	if err := h.taskService.Delete(c.Request().Context(), id, user.ID); err != nil {
		return failure(c, err)
	}

	return successMessage(c, http.StatusOK, "Task deleted")
}

// AddComment godoc
// @Summary Append a comment to an owned task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body AddCommentRequest true "Comment text"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /tasks/{id}/comments [post]
func (h *TaskHandler) AddComment(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return failure(c, err)
	}

	id, err := parseTaskID(c)
	if err != nil {
		return failure(c, err)
	}

	var req AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailure(c, err)
	}

	task, err := h.taskService.AddComment(c.Request().Context(), id, user.ID, req.Text)
	if err != nil {
		return failure(c, err)
	}

	return success(c, http.StatusOK, echo.Map{"task": task})
}

// parseTaskID parses the path id. A malformed id cannot match any record,
// so it maps to the same not-found error as an absent one.
func parseTaskID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrTaskNotFound
	}
	return id, nil
}
