package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/model"
)

func cols(ids ...string) []model.Column {
	out := make([]model.Column, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Column{ID: model.ColumnID(id), Title: id})
	}
	return out
}

func ids(cs []model.Column) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, string(c.ID))
	}
	return out
}

func TestActiveColumns_ListWithoutOverrideUsesGlobal(t *testing.T) {
	global := cols("A", "B", "C")
	lists := []model.CustomList{{ID: "L", Name: "List"}}

	assert.Equal(t, []string{"A", "B", "C"}, ids(ActiveColumns(global, lists, "L")))
}

func TestActiveColumns_UnionAndOverride(t *testing.T) {
	global := cols("A", "B")
	lists := []model.CustomList{{ID: "L", Columns: cols("X")}}

	assert.Equal(t, []string{"A", "B", "X"}, ids(ActiveColumns(global, lists, "")))
	assert.Equal(t, []string{"X"}, ids(ActiveColumns(global, lists, "L")))
}

func TestActiveColumns_UnionDeduplicatesFirstSeenWins(t *testing.T) {
	global := cols("A", "B")
	global[0].Title = "global A"
	lists := []model.CustomList{
		{ID: "L1", Columns: []model.Column{{ID: "A", Title: "list A"}, {ID: "X"}}},
		{ID: "L2", Columns: cols("Y", "X", "B")},
	}

	got := ActiveColumns(global, lists, "")
	assert.Equal(t, []string{"A", "B", "X", "Y"}, ids(got))
	assert.Equal(t, "global A", got[0].Title)
}

func TestActiveColumns_UnknownListFallsBackToGlobal(t *testing.T) {
	assert.Equal(t, []string{"A"}, ids(ActiveColumns(cols("A"), nil, "missing")))
}

func TestActiveColumns_DoesNotAliasInput(t *testing.T) {
	global := cols("A", "B")
	got := ActiveColumns(global, nil, "")
	got[0].Title = "changed"
	assert.Equal(t, "A", global[0].Title)
}

func TestEffectiveColumns(t *testing.T) {
	global := cols("A", "B")
	lists := []model.CustomList{{ID: "L", Columns: cols("X", "Y")}, {ID: "M"}}

	assert.Equal(t, []string{"A", "B"}, ids(EffectiveColumns(global, lists, "")))
	assert.Equal(t, []string{"X", "Y"}, ids(EffectiveColumns(global, lists, "L")))
	assert.Equal(t, []string{"A", "B"}, ids(EffectiveColumns(global, lists, "M")))
	assert.True(t, HasOverride(lists, "L"))
	assert.False(t, HasOverride(lists, "M"))
}
