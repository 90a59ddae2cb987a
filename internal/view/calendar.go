package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskboard/internal/model"
)

type CalendarDay struct {
	Date  string       `json:"date"`
	Tasks []model.Task `json:"tasks"`
}

// ParseMonth validates a YYYY-MM month string.
func ParseMonth(month string) (string, error) {
	month = strings.TrimSpace(month)
	if _, err := time.Parse("2006-01", month); err != nil {
		return "", fmt.Errorf("month must be YYYY-MM")
	}
	return month, nil
}

// Calendar groups the tasks due within month (YYYY-MM) by due date. The
// filter runs in calendar mode, so archived and deleted tasks are skipped.
func (s Sorter) Calendar(tasks []model.Task, f Filter, month string) []CalendarDay {
	f.ViewMode = model.ViewCalendar
	byDate := map[string][]model.Task{}
	for _, t := range FilterTasks(tasks, f) {
		if t.DueDate == nil || !strings.HasPrefix(*t.DueDate, month+"-") {
			continue
		}
		byDate[*t.DueDate] = append(byDate[*t.DueDate], t)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]CalendarDay, 0, len(dates))
	for _, d := range dates {
		out = append(out, CalendarDay{
			Date:  d,
			Tasks: s.Sort(byDate[d], model.SortByPriority, model.SortAsc),
		})
	}
	return out
}
