package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskhub/internal/model"
	"taskhub/internal/query"
)

// GroupCount is a grouped rollup row. Only observed values appear; groups
// with zero tasks are never zero-filled in.
type GroupCount struct {
	Value string `json:"_id" gorm:"column:value"`
	Count int64  `json:"count" gorm:"column:count"`
}

// TaskRepository defines task persistence operations. Every read and write
// of an existing record takes the owner id and applies it as part of the
// same predicate as the record id, so an absent record and a foreign record
// are indistinguishable to callers.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Save(ctx context.Context, task *model.Task) error
	FindOwned(ctx context.Context, id, owner uuid.UUID) (*model.Task, error)
	DeleteOwned(ctx context.Context, id, owner uuid.UUID) (bool, error)
	List(ctx context.Context, q query.TaskQuery) ([]model.Task, error)
	Count(ctx context.Context, q query.TaskQuery) (int64, error)
	AddComment(ctx context.Context, comment *model.TaskComment) error

	CountOwned(ctx context.Context, owner uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, owner uuid.UUID, status model.TaskStatus) (int64, error)
	CountOverdue(ctx context.Context, owner uuid.UUID, now time.Time) (int64, error)
	GroupByCategory(ctx context.Context, owner uuid.UUID) ([]GroupCount, error)
	GroupByPriority(ctx context.Context, owner uuid.UUID) ([]GroupCount, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create creates a new task record.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Save persists all fields of an existing task record.
func (r *taskRepository) Save(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Omit("Comments").Save(task).Error
}

// FindOwned finds a task by id restricted to the owner, comments included.
func (r *taskRepository) FindOwned(ctx context.Context, id, owner uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ? AND created_by = ?", id, owner).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteOwned removes a task by id restricted to the owner. Returns false
// when no matching record exists.
func (r *taskRepository) DeleteOwned(ctx context.Context, id, owner uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, owner).
		Delete(&model.Task{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).Where("task_id = ?", id).Delete(&model.TaskComment{}).Error; err != nil {
		return true, err
	}
	return true, nil
}

// List returns the page of tasks matching the query descriptor.
func (r *taskRepository) List(ctx context.Context, q query.TaskQuery) ([]model.Task, error) {
	db := applyFilters(r.db.WithContext(ctx).Model(&model.Task{}), q)

	if clause, ok := q.Sort.OrderClause(); ok {
		db = db.Order(clause)
	}

	var tasks []model.Task
	if err := db.Offset(q.Offset).Limit(q.Limit).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Count returns the total matching the query descriptor, ignoring pagination.
func (r *taskRepository) Count(ctx context.Context, q query.TaskQuery) (int64, error) {
	var total int64
	err := applyFilters(r.db.WithContext(ctx).Model(&model.Task{}), q).Count(&total).Error
	return total, err
}

// AddComment appends a comment row to a task.
func (r *taskRepository) AddComment(ctx context.Context, comment *model.TaskComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// CountOwned counts all tasks of an owner.
func (r *taskRepository) CountOwned(ctx context.Context, owner uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("created_by = ?", owner).
		Count(&n).Error
	return n, err
}

// CountByStatus counts owned tasks in the given status.
func (r *taskRepository) CountByStatus(ctx context.Context, owner uuid.UUID, status model.TaskStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("created_by = ? AND status = ?", owner, status).
		Count(&n).Error
	return n, err
}

// CountOverdue counts owned tasks whose due date has passed and that are not
// done. Tasks without a due date never count.
func (r *taskRepository) CountOverdue(ctx context.Context, owner uuid.UUID, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("created_by = ? AND due_date IS NOT NULL AND due_date < ? AND status <> ?", owner, now, model.StatusDone).
		Count(&n).Error
	return n, err
}

// GroupByCategory counts owned tasks grouped by observed category values.
func (r *taskRepository) GroupByCategory(ctx context.Context, owner uuid.UUID) ([]GroupCount, error) {
	return r.groupBy(ctx, owner, "category")
}

// GroupByPriority counts owned tasks grouped by observed priority values.
func (r *taskRepository) GroupByPriority(ctx context.Context, owner uuid.UUID) ([]GroupCount, error) {
	return r.groupBy(ctx, owner, "priority")
}

func (r *taskRepository) groupBy(ctx context.Context, owner uuid.UUID, column string) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select(column+" AS value, COUNT(*) AS count").
		Where("created_by = ?", owner).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilters translates the descriptor into a gorm query. Owner scoping
// is always first and cannot be bypassed by any parameter.
func applyFilters(db *gorm.DB, q query.TaskQuery) *gorm.DB {
	db = db.Where("created_by = ?", q.Owner)

	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Priority != "" {
		db = db.Where("priority = ?", q.Priority)
	}
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.Archived != nil {
		db = db.Where("is_archived = ?", *q.Archived)
	}
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		db = db.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	return db
}
