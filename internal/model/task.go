package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReview     TaskStatus = "REVIEW"
	StatusDone       TaskStatus = "DONE"
)

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// TaskCategory represents the life area a task belongs to.
type TaskCategory string

const (
	CategoryWork      TaskCategory = "WORK"
	CategoryPersonal  TaskCategory = "PERSONAL"
	CategoryShopping  TaskCategory = "SHOPPING"
	CategoryHealth    TaskCategory = "HEALTH"
	CategoryEducation TaskCategory = "EDUCATION"
	CategoryOther     TaskCategory = "OTHER"
)

// Declared enum orderings. Sorting on these fields follows declaration
// order, not lexicographic order.
var (
	StatusOrder   = []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusDone}
	PriorityOrder = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	CategoryOrder = []TaskCategory{CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryEducation, CategoryOther}
)

// Attachment is a file reference stored with a task.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// AISuggestion holds the raw adapter output stored alongside a task.
type AISuggestion struct {
	SuggestedPriority string     `json:"suggestedPriority"`
	SuggestedCategory string     `json:"suggestedCategory"`
	SuggestedDueDate  *time.Time `json:"suggestedDueDate,omitempty"`
	Confidence        float64    `json:"confidence"`
}

// TaskComment is an append-only comment on a task.
type TaskComment struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	TaskID    uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	AuthorID  uuid.UUID `json:"author" gorm:"type:char(36);not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (c *TaskComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Task represents a tracked item of work. CreatedBy is the immutable owner
// and the sole access-control key; AssignedTo is informational only.
type Task struct {
	ID            uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	Title         string        `json:"title" gorm:"size:255;not null"`
	Description   string        `json:"description" gorm:"type:text"`
	Status        TaskStatus    `json:"status" gorm:"type:varchar(20);not null;default:'TODO';index"`
	Priority      TaskPriority  `json:"priority" gorm:"type:varchar(10);not null;default:'MEDIUM';index"`
	Category      TaskCategory  `json:"category" gorm:"type:varchar(20);not null;default:'OTHER';index"`
	DueDate       *time.Time    `json:"dueDate,omitempty" gorm:"index"`
	Tags          []string      `json:"tags" gorm:"serializer:json"`
	AssignedTo    []uuid.UUID   `json:"assignedTo" gorm:"serializer:json"`
	CreatedBy     uuid.UUID     `json:"createdBy" gorm:"type:char(36);not null;index"`
	Project       *uuid.UUID    `json:"project,omitempty" gorm:"type:char(36)"`
	Attachments   []Attachment  `json:"attachments" gorm:"serializer:json"`
	Comments      []TaskComment `json:"comments" gorm:"foreignKey:TaskID"`
	AISuggestions *AISuggestion `json:"aiSuggestions,omitempty" gorm:"serializer:json"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`
	IsArchived    bool          `json:"isArchived" gorm:"not null;default:false;index"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ApplyStatusTransition returns the completedAt value a task should carry
// after a status change. The stamp is set exactly once, on the first
// transition into DONE, and never cleared by later changes away from DONE.
func ApplyStatusTransition(prev, next TaskStatus, completedAt *time.Time, now time.Time) *time.Time {
	if next == StatusDone && prev != StatusDone && completedAt == nil {
		return &now
	}
	return completedAt
}
