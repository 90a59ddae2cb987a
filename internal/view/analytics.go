package view

import (
	"time"

	"taskboard/internal/clock"
	"taskboard/internal/model"
)

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Analytics summarises the non-deleted tasks for the dashboard.
type Analytics struct {
	Total               int                      `json:"total"`
	Open                int                      `json:"open"`
	Completed           int                      `json:"completed"`
	Overdue             int                      `json:"overdue"`
	CompletionRate      float64                  `json:"completionRate"`
	ByPriority          map[model.Priority]int   `json:"byPriority"`
	ByCategory          map[model.CategoryID]int `json:"byCategory"`
	CompletedLast7Days  []DayCount               `json:"completedLast7Days"`
	OpenEstimateMinutes int                      `json:"openEstimateMinutes"`
}

func ComputeAnalytics(tasks []model.Task, now time.Time) Analytics {
	today := clock.Today(now)
	a := Analytics{
		ByPriority: map[model.Priority]int{},
		ByCategory: map[model.CategoryID]int{},
	}

	week := make([]DayCount, 7)
	index := make(map[string]int, 7)
	for i := range week {
		d := clock.Today(now.AddDate(0, 0, i-6))
		week[i] = DayCount{Date: d}
		index[d] = i
	}

	for _, t := range tasks {
		if t.IsDeleted {
			continue
		}
		a.Total++
		a.ByPriority[t.Priority]++
		a.ByCategory[t.Category]++

		if t.IsCompleted {
			a.Completed++
			if t.CompletedAt != nil {
				if i, ok := index[clock.Today(t.CompletedAt.In(now.Location()))]; ok {
					week[i].Count++
				}
			}
			continue
		}
		a.Open++
		if t.DueDate != nil && *t.DueDate < today {
			a.Overdue++
		}
		if t.TimeEstimate != nil {
			a.OpenEstimateMinutes += *t.TimeEstimate
		}
	}

	if a.Total > 0 {
		a.CompletionRate = float64(a.Completed) / float64(a.Total) * 100
	}
	a.CompletedLast7Days = week
	return a
}
