package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/model"
)

func TestQueryFromPrefs_FallsBackOnInvalid(t *testing.T) {
	q := QueryFromPrefs(model.Preferences{ViewMode: "bogus", Sort: model.SortPreference{SortBy: "x", SortOrder: "y"}})
	assert.Equal(t, model.ViewAll, q.ViewMode)
	assert.Equal(t, model.SortByCreatedAt, q.SortBy)
	assert.Equal(t, model.SortAsc, q.SortOrder)
	assert.Equal(t, PriorityAll, q.Priority)

	q = QueryFromPrefs(model.Preferences{ViewMode: model.ViewFavorites, Sort: model.SortPreference{SortBy: model.SortByTitle, SortOrder: model.SortDesc}})
	assert.Equal(t, model.ViewFavorites, q.ViewMode)
	assert.Equal(t, model.SortByTitle, q.SortBy)
	assert.Equal(t, model.SortDesc, q.SortOrder)
}

func TestCompose_GroupsByActiveColumns(t *testing.T) {
	st := model.NewState()
	st.Prefs.CollapsedColumns = []model.ColumnID{"review"}
	st.Tasks = []model.Task{
		{ID: "1", Title: "one", Status: "todo", Priority: model.PriorityLow},
		{ID: "2", Title: "two", Status: "todo", Priority: model.PriorityUrgent},
		{ID: "3", Title: "three", Status: "done", Priority: model.PriorityMedium},
		{ID: "4", Title: "gone", Status: "todo", IsDeleted: true},
	}

	q := QueryFromPrefs(st.Prefs)
	q.SortBy = model.SortByPriority
	b := NewSorter("en").Compose(st, q, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	require.Len(t, b.ByColumn, 4)
	assert.Equal(t, []string{"two", "one"}, titles(b.ByColumn[0].Tasks))
	assert.Empty(t, b.ByColumn[1].Tasks)
	assert.True(t, b.ByColumn[2].Collapsed)
	assert.Equal(t, []string{"three"}, titles(b.ByColumn[3].Tasks))
	assert.Equal(t, []string{"two", "three", "one"}, titles(b.Tasks))
	assert.Equal(t, 1, b.Counts.Trash)
}
