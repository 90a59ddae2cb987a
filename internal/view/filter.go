package view

import (
	"strings"

	"taskboard/internal/model"
)

// PriorityAll disables the priority filter.
const PriorityAll = "all"

// Filter is the current filter state of a board view. Zero-valued scope
// fields do not filter.
type Filter struct {
	ViewMode model.ViewMode   `json:"viewMode"`
	ListID   model.ListID     `json:"listId,omitempty"`
	Category model.CategoryID `json:"category,omitempty"`
	Status   model.ColumnID   `json:"status,omitempty"`
	Priority string           `json:"priority"`
	Search   string           `json:"q,omitempty"`
}

// Match evaluates the predicate chain in order and stops at the first
// failing step: trash, favorites, archive, list, category, status,
// priority, search.
func (f Filter) Match(t model.Task) bool {
	if f.ViewMode == model.ViewTrash {
		if !t.IsDeleted {
			return false
		}
	} else if t.IsDeleted {
		return false
	}

	if f.ViewMode == model.ViewFavorites && !t.IsFavorite {
		return false
	}

	if f.ViewMode == model.ViewArchived {
		if !t.IsArchived {
			return false
		}
	} else if t.IsArchived {
		return false
	}

	if f.ListID != "" && !t.InList(f.ListID) {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && f.Priority != PriorityAll && string(t.Priority) != f.Priority {
		return false
	}

	return matchesSearch(t, f.Search)
}

func matchesSearch(t model.Task, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// FilterTasks keeps the tasks matching f, preserving input order.
func FilterTasks(tasks []model.Task, f Filter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
