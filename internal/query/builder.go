// Package query translates untrusted request parameters into an
// owner-scoped filter + sort + pagination descriptor for the task store.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"taskhub/internal/model"
)

const (
	// DefaultPage is used when the page parameter is absent or malformed.
	DefaultPage = 1
	// DefaultLimit is used when the limit parameter is absent or malformed.
	DefaultLimit = 10
)

// Params are the raw, untrusted query parameters of a task list request.
type Params struct {
	Status     string
	Priority   string
	Category   string
	IsArchived string
	Search     string
	SortBy     string
	Page       string
	Limit      string
}

// Sort describes an ordering on a single field.
type Sort struct {
	Field string
	Desc  bool
}

// TaskQuery is the safe descriptor produced by the builder. Owner scoping is
// unconditional: no parameter can widen the predicate beyond the owner's
// records.
type TaskQuery struct {
	Owner    uuid.UUID
	Status   string
	Priority string
	Category string
	Archived *bool
	Search   string
	Sort     *Sort
	Page     int
	Limit    int
	Offset   int
}

// Build constructs a TaskQuery for the given owner from raw parameters.
func Build(owner uuid.UUID, p Params) TaskQuery {
	q := TaskQuery{
		Owner:    owner,
		Status:   p.Status,
		Priority: p.Priority,
		Category: p.Category,
		Search:   p.Search,
	}

	if p.IsArchived != "" {
		// Only the literal "true" means archived; anything else is false.
		archived := p.IsArchived == "true"
		q.Archived = &archived
	}

	if p.SortBy != "" {
		parts := strings.SplitN(p.SortBy, ":", 2)
		q.Sort = &Sort{
			Field: parts[0],
			Desc:  len(parts) == 2 && parts[1] == "desc",
		}
	}

	q.Page = parsePositive(p.Page, DefaultPage)
	q.Limit = parsePositive(p.Limit, DefaultLimit)
	q.Offset = (q.Page - 1) * q.Limit

	return q
}

// Pages returns the page count for a total, 0 when no records match.
func Pages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func parsePositive(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// sortColumns maps exposed field names to store columns. An unknown field
// falls back to the store-default order rather than reaching the store
// verbatim.
var sortColumns = map[string]string{
	"title":       "title",
	"description": "description",
	"status":      "status",
	"priority":    "priority",
	"category":    "category",
	"dueDate":     "due_date",
	"completedAt": "completed_at",
	"isArchived":  "is_archived",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// OrderClause renders the sort as a SQL ORDER BY expression. Enum-valued
// fields order by their declared enum ordering, not lexicographically. The
// second return is false when the field is unknown and the store default
// order should apply.
func (s *Sort) OrderClause() (string, bool) {
	if s == nil {
		return "", false
	}

	col, ok := sortColumns[s.Field]
	if !ok {
		return "", false
	}

	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}

	switch s.Field {
	case "status":
		return enumCase(col, statusLiterals()) + " " + dir, true
	case "priority":
		return enumCase(col, priorityLiterals()) + " " + dir, true
	case "category":
		return enumCase(col, categoryLiterals()) + " " + dir, true
	default:
		return col + " " + dir, true
	}
}

// enumCase builds a CASE expression ranking column values by declaration
// order. Values are enum constants, never caller input.
func enumCase(col string, values []string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(col)
	for i, v := range values {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", v, i)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(values))
	return b.String()
}

func statusLiterals() []string {
	out := make([]string, len(model.StatusOrder))
	for i, v := range model.StatusOrder {
		out[i] = string(v)
	}
	return out
}

func priorityLiterals() []string {
	out := make([]string, len(model.PriorityOrder))
	for i, v := range model.PriorityOrder {
		out[i] = string(v)
	}
	return out
}

func categoryLiterals() []string {
	out := make([]string, len(model.CategoryOrder))
	for i, v := range model.CategoryOrder {
		out[i] = string(v)
	}
	return out
}
