package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// TaskID is the opaque unique identifier of a task.
type TaskID string

// SubtaskID identifies a subtask within its parent task.
type SubtaskID string

func NewTaskID() TaskID { return TaskID(uuid.NewString()) }
func NewSubtaskID() SubtaskID { return SubtaskID(uuid.NewString()) }

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities: urgent=4 > high=3 > medium=2 > low=1. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p Priority) Valid() bool { return p.Rank() > 0 }

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

func (r Recurrence) Valid() bool {
	switch r {
	case "", RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

type Subtask struct {
	ID        SubtaskID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
}

// Task is a single unit of work on the board.
// Status references a Column id; the reference is not enforced by the type.
type Task struct {
	ID           TaskID     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       ColumnID   `json:"status"`
	Priority     Priority   `json:"priority"`
	Category     CategoryID `json:"category"`
	DueDate      *string    `json:"dueDate,omitempty"` // YYYY-MM-DD
	Tags         []string   `json:"tags"`
	CreatedAt    time.Time  `json:"createdAt"`
	Subtasks     []Subtask  `json:"subtasks,omitempty"`
	IsFavorite   bool       `json:"isFavorite"`
	IsArchived   bool       `json:"isArchived"`
	IsDeleted    bool       `json:"isDeleted"`
	IsPinned     bool       `json:"isPinned"`
	IsCompleted  bool       `json:"isCompleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ListID       *ListID    `json:"listId,omitempty"`
	TimeEstimate *int       `json:"timeEstimate,omitempty"` // minutes
	Recurrence   Recurrence `json:"recurrence,omitempty"`
	DependsOn    []TaskID   `json:"dependsOn,omitempty"`
}

// InList reports whether the task belongs to list id. An empty id matches unassigned tasks.
func (t Task) InList(id ListID) bool {
	if t.ListID == nil {
		return id == ""
	}
	return *t.ListID == id
}

// List returns the task's list id or "" when unassigned.
func (t Task) List() ListID {
	if t.ListID == nil {
		return ""
	}
	return *t.ListID
}

func (t Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// AddTag appends tag unless it is empty or already present.
func (t *Task) AddTag(tag string) {
	if tag == "" || t.HasTag(tag) {
		return
	}
	t.Tags = append(t.Tags, tag)
}

func (t *Task) RemoveTag(tag string) {
	t.Tags = slices.DeleteFunc(slices.Clone(t.Tags), func(s string) bool { return s == tag })
}

// Complete marks the task completed at now unless it already is.
func (t *Task) Complete(now time.Time) {
	if t.IsCompleted {
		return
	}
	t.IsCompleted = true
	t.CompletedAt = &now
}

// IsActive reports whether the task is neither archived nor deleted.
func (t Task) IsActive() bool {
	return !t.IsArchived && !t.IsDeleted
}

// Clone returns a deep copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	out := t
	out.Tags = slices.Clone(t.Tags)
	out.Subtasks = slices.Clone(t.Subtasks)
	out.DependsOn = slices.Clone(t.DependsOn)
	out.DueDate = clonePtr(t.DueDate)
	out.DeletedAt = clonePtr(t.DeletedAt)
	out.CompletedAt = clonePtr(t.CompletedAt)
	out.ListID = clonePtr(t.ListID)
	out.TimeEstimate = clonePtr(t.TimeEstimate)
	return out
}

// NormalizeTags removes empty and repeated tags while keeping insertion order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
