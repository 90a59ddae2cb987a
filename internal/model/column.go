package model

import (
	"slices"

	"github.com/google/uuid"
)

// ColumnID identifies a status column. Tasks reference it through Task.Status.
type ColumnID string

func NewColumnID() ColumnID { return ColumnID(uuid.NewString()) }

// Column is a stage a task can occupy. Landing on a completion column completes the task.
type Column struct {
	ID                 ColumnID `json:"id"`
	Title              string   `json:"title"`
	Color              string   `json:"color"`
	IsCustom           bool     `json:"isCustom,omitempty"`
	IsCompletionStatus bool     `json:"isCompletionStatus,omitempty"`
}

func DefaultColumns() []Column {
	return []Column{
		{ID: "todo", Title: "To Do", Color: "#64748b"},
		{ID: "in-progress", Title: "In Progress", Color: "#3b82f6"},
		{ID: "review", Title: "Review", Color: "#f59e0b"},
		{ID: "done", Title: "Done", Color: "#22c55e", IsCompletionStatus: true},
	}
}

// ColumnIndex returns the position of id in cols or -1.
func ColumnIndex(cols []Column, id ColumnID) int {
	return slices.IndexFunc(cols, func(c Column) bool { return c.ID == id })
}

func HasColumn(cols []Column, id ColumnID) bool {
	return ColumnIndex(cols, id) >= 0
}
