package view

import "taskboard/internal/model"

// Counts are the sidebar badge totals.
type Counts struct {
	ByCategory map[model.CategoryID]int `json:"byCategory"`
	ByStatus   map[model.ColumnID]int   `json:"byStatus"`
	Active     int                      `json:"active"`
	Favorites  int                      `json:"favorites"`
	Archived   int                      `json:"archived"`
	Trash      int                      `json:"trash"`
	DueToday   int                      `json:"dueToday"`
	Overdue    int                      `json:"overdue"`
	Completed  int                      `json:"completed"`
}

// ComputeCounts tallies tasks. Category and status counts cover active
// (non-archived, non-deleted) tasks; status counts are further limited to
// selectedList when set. Favorites, archived and trash totals ignore the list.
// Trash counts what the trash view shows, so a deleted task that is still
// archived is counted nowhere.
func ComputeCounts(tasks []model.Task, selectedList model.ListID, today string) Counts {
	c := Counts{
		ByCategory: map[model.CategoryID]int{},
		ByStatus:   map[model.ColumnID]int{},
	}
	for _, t := range tasks {
		if t.IsDeleted {
			if !t.IsArchived {
				c.Trash++
			}
			continue
		}
		if t.IsArchived {
			c.Archived++
			continue
		}

		c.Active++
		if t.IsFavorite {
			c.Favorites++
		}
		c.ByCategory[t.Category]++
		if selectedList == "" || t.InList(selectedList) {
			c.ByStatus[t.Status]++
		}

		if t.IsCompleted {
			c.Completed++
			continue
		}
		if t.DueDate != nil {
			switch {
			case *t.DueDate == today:
				c.DueToday++
			case *t.DueDate < today:
				c.Overdue++
			}
		}
	}
	return c
}
