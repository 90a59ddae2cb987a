package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"taskboard/internal/model"
)

func titles(ts []model.Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Title)
	}
	return out
}

func sampleTasks() []model.Task {
	work := model.ListID("work-list")
	return []model.Task{
		{ID: "1", Title: "Write report", Status: "todo", Priority: model.PriorityHigh, Category: "work", ListID: &work, Tags: []string{"q3"}},
		{ID: "2", Title: "Buy milk", Status: "todo", Priority: model.PriorityLow, Category: "shopping", IsFavorite: true},
		{ID: "3", Title: "Old notes", Status: "done", Priority: model.PriorityMedium, Category: "work", IsArchived: true},
		{ID: "4", Title: "Trash me", Status: "todo", Priority: model.PriorityLow, Category: "personal", IsDeleted: true},
		{ID: "5", Title: "Archived and deleted", Status: "todo", Priority: model.PriorityLow, Category: "personal", IsArchived: true, IsDeleted: true},
		{ID: "6", Title: "Gym", Description: "leg day", Status: "in-progress", Priority: model.PriorityUrgent, Category: "health", IsFavorite: true, IsArchived: true},
	}
}

func TestFilter_ViewModes(t *testing.T) {
	tasks := sampleTasks()

	tests := []struct {
		mode model.ViewMode
		want []string
	}{
		{model.ViewAll, []string{"Write report", "Buy milk"}},
		{model.ViewCalendar, []string{"Write report", "Buy milk"}},
		{model.ViewFavorites, []string{"Buy milk"}},
		{model.ViewArchived, []string{"Old notes", "Gym"}},
		{model.ViewTrash, []string{"Trash me"}},
	}
	for _, tc := range tests {
		t.Run(string(tc.mode), func(t *testing.T) {
			got := FilterTasks(tasks, Filter{ViewMode: tc.mode, Priority: PriorityAll})
			assert.Equal(t, tc.want, titles(got))
		})
	}
}

func TestFilter_Scopes(t *testing.T) {
	tasks := sampleTasks()

	assert.Equal(t, []string{"Write report"}, titles(FilterTasks(tasks, Filter{ViewMode: model.ViewAll, ListID: "work-list"})))
	assert.Equal(t, []string{"Buy milk"}, titles(FilterTasks(tasks, Filter{ViewMode: model.ViewAll, Category: "shopping"})))
	assert.Equal(t, []string{"Write report", "Buy milk"}, titles(FilterTasks(tasks, Filter{ViewMode: model.ViewAll, Status: "todo"})))
	assert.Equal(t, []string{"Write report"}, titles(FilterTasks(tasks, Filter{ViewMode: model.ViewAll, Priority: "high"})))
}

func TestFilter_SearchIsFinalAndCaseInsensitive(t *testing.T) {
	tasks := sampleTasks()

	assert.Equal(t, []string{"Write report"}, titles(FilterTasks(tasks, Filter{ViewMode: model.ViewAll, Search: "REPORT"})))
	assert.Equal(t, []string{"Write report"}, titles(FilterTasks(tasks, Filter{ViewMode: model.ViewAll, Search: "Q3"})))
	// description match, but the archived partition still applies
	assert.Empty(t, FilterTasks(tasks, Filter{ViewMode: model.ViewAll, Search: "leg"}))
	assert.Equal(t, []string{"Gym"}, titles(FilterTasks(tasks, Filter{ViewMode: model.ViewArchived, Search: "leg"})))
	// passing search does not rescue a task failing an earlier step
	assert.Empty(t, FilterTasks(tasks, Filter{ViewMode: model.ViewAll, Category: "work", Search: "milk"}))
}

func taskGen() *rapid.Generator[model.Task] {
	return rapid.Custom(func(t *rapid.T) model.Task {
		return model.Task{
			ID:         model.TaskID(rapid.StringMatching(`[a-z0-9]{6}`).Draw(t, "id")),
			Title:      rapid.StringMatching(`[A-Za-z ]{0,12}`).Draw(t, "title"),
			Status:     model.ColumnID(rapid.SampledFrom([]string{"todo", "doing", "done"}).Draw(t, "status")),
			Priority:   rapid.SampledFrom([]model.Priority{model.PriorityUrgent, model.PriorityHigh, model.PriorityMedium, model.PriorityLow}).Draw(t, "priority"),
			IsFavorite: rapid.Bool().Draw(t, "fav"),
			IsArchived: rapid.Bool().Draw(t, "archived"),
			IsDeleted:  rapid.Bool().Draw(t, "deleted"),
			IsPinned:   rapid.Bool().Draw(t, "pinned"),
		}
	})
}

// A task lands in at most one of the all/archived/trash partitions. Only
// deleted tasks reach the trash, a deleted task shows in no other view and a
// live task shows in exactly one. An archived deleted task is in none.
func TestProperty_PartitionsAreExclusive(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := taskGen().Draw(rt, "task")

		inAll := Filter{ViewMode: model.ViewAll}.Match(task)
		inArchived := Filter{ViewMode: model.ViewArchived}.Match(task)
		inTrash := Filter{ViewMode: model.ViewTrash}.Match(task)

		n := 0
		for _, in := range []bool{inAll, inArchived, inTrash} {
			if in {
				n++
			}
		}
		if n > 1 {
			rt.Fatalf("task %+v in %d partitions", task, n)
		}
		if inTrash && !task.IsDeleted {
			rt.Fatalf("live task %+v in trash", task)
		}
		if task.IsDeleted && (inAll || inArchived) {
			rt.Fatalf("deleted task %+v outside trash", task)
		}
		if !task.IsDeleted && n != 1 {
			rt.Fatalf("non-deleted task %+v in %d partitions", task, n)
		}
	})
}

// The trash badge counts exactly the tasks the trash view shows.
func TestProperty_TrashCountMatchesTrashView(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := rapid.SliceOfN(taskGen(), 0, 20).Draw(rt, "tasks")

		shown := 0
		for _, task := range tasks {
			if (Filter{ViewMode: model.ViewTrash}).Match(task) {
				shown++
			}
		}
		if got := ComputeCounts(tasks, "", "2025-03-10").Trash; got != shown {
			rt.Fatalf("trash count %d, trash view shows %d", got, shown)
		}
	})
}
