package view

import (
	"slices"
	"time"

	"taskboard/internal/clock"
	"taskboard/internal/model"
)

// Query is a filter plus sort selection.
type Query struct {
	Filter
	SortBy    model.SortBy    `json:"sortBy"`
	SortOrder model.SortOrder `json:"sortOrder"`
}

// QueryFromPrefs seeds a query with the persisted view mode and sort preference.
func QueryFromPrefs(p model.Preferences) Query {
	q := Query{
		Filter:    Filter{ViewMode: p.ViewMode, Priority: PriorityAll},
		SortBy:    p.Sort.SortBy,
		SortOrder: p.Sort.SortOrder,
	}
	if !q.ViewMode.Valid() {
		q.ViewMode = model.ViewAll
	}
	if !q.SortBy.Valid() {
		q.SortBy = model.SortByCreatedAt
	}
	if !q.SortOrder.Valid() {
		q.SortOrder = model.SortAsc
	}
	return q
}

type ColumnView struct {
	Column    model.Column `json:"column"`
	Collapsed bool         `json:"collapsed"`
	Tasks     []model.Task `json:"tasks"`
}

// Board is the composed board view.
type Board struct {
	Columns  []model.Column `json:"columns"`
	Tasks    []model.Task   `json:"tasks"`
	ByColumn []ColumnView   `json:"byColumn"`
	Counts   Counts         `json:"counts"`
}

// Compose derives the board view for q.
func (s Sorter) Compose(st model.State, q Query, now time.Time) Board {
	cols := ActiveColumns(st.Columns, st.Lists, q.ListID)
	tasks := s.Sort(FilterTasks(st.Tasks, q.Filter), q.SortBy, q.SortOrder)

	byColumn := make([]ColumnView, 0, len(cols))
	for _, c := range cols {
		cv := ColumnView{
			Column:    c,
			Collapsed: slices.Contains(st.Prefs.CollapsedColumns, c.ID),
			Tasks:     []model.Task{},
		}
		for _, t := range tasks {
			if t.Status == c.ID {
				cv.Tasks = append(cv.Tasks, t)
			}
		}
		byColumn = append(byColumn, cv)
	}

	return Board{
		Columns:  cols,
		Tasks:    tasks,
		ByColumn: byColumn,
		Counts:   ComputeCounts(st.Tasks, q.ListID, clock.Today(now)),
	}
}
