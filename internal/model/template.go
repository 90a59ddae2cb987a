package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type TemplateID string

func NewTemplateID() TemplateID { return TemplateID(uuid.NewString()) }

// TaskTemplate is a snapshot of default field values for new tasks.
// It keeps no link to the tasks created from it.
type TaskTemplate struct {
	ID           TemplateID `json:"id"`
	Name         string     `json:"name"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Priority     Priority   `json:"priority"`
	Category     CategoryID `json:"category"`
	Tags         []string   `json:"tags"`
	Subtasks     []Subtask  `json:"subtasks,omitempty"`
	TimeEstimate *int       `json:"timeEstimate,omitempty"`
	Recurrence   Recurrence `json:"recurrence,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Instantiate builds a new task from the template. Subtasks get fresh ids
// and start incomplete.
func (tpl TaskTemplate) Instantiate(id TaskID, now time.Time) Task {
	subs := make([]Subtask, 0, len(tpl.Subtasks))
	for _, s := range tpl.Subtasks {
		subs = append(subs, Subtask{ID: NewSubtaskID(), Title: s.Title})
	}
	return Task{
		ID:           id,
		Title:        tpl.Title,
		Description:  tpl.Description,
		Priority:     tpl.Priority,
		Category:     tpl.Category,
		Tags:         NormalizeTags(tpl.Tags),
		Subtasks:     subs,
		TimeEstimate: clonePtr(tpl.TimeEstimate),
		Recurrence:   tpl.Recurrence,
		CreatedAt:    now,
	}
}

// TemplateFromTask snapshots the reusable fields of t.
func TemplateFromTask(id TemplateID, name string, t Task, now time.Time) TaskTemplate {
	return TaskTemplate{
		ID:           id,
		Name:         name,
		Title:        t.Title,
		Description:  t.Description,
		Priority:     t.Priority,
		Category:     t.Category,
		Tags:         slices.Clone(t.Tags),
		Subtasks:     slices.Clone(t.Subtasks),
		TimeEstimate: clonePtr(t.TimeEstimate),
		Recurrence:   t.Recurrence,
		CreatedAt:    now,
	}
}

func TemplateIndex(tpls []TaskTemplate, id TemplateID) int {
	return slices.IndexFunc(tpls, func(t TaskTemplate) bool { return t.ID == id })
}
