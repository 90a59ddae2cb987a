// Package view derives read models from the board state: the active column
// set, the filtered and sorted task list, badge counts, calendar and
// analytics. Every function is pure.
package view

import (
	"slices"

	"taskboard/internal/model"
)

// ActiveColumns resolves the columns shown for the selected list.
//
// A selected list with a non-empty override uses it verbatim; a selected list
// without one (or an unknown list) uses the global sequence. With no list
// selected the result is the union of the global sequence and every list
// override, deduplicated by id, first seen wins.
func ActiveColumns(global []model.Column, lists []model.CustomList, selected model.ListID) []model.Column {
	if selected != "" {
		return EffectiveColumns(global, lists, selected)
	}

	out := slices.Clone(global)
	seen := make(map[model.ColumnID]bool, len(global))
	for _, c := range global {
		seen[c.ID] = true
	}
	for _, l := range lists {
		for _, c := range l.Columns {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	return out
}

// EffectiveColumns returns the column scope tasks in list id live in:
// the list's override when non-empty, the global sequence otherwise.
// An empty id is the global scope.
func EffectiveColumns(global []model.Column, lists []model.CustomList, id model.ListID) []model.Column {
	if id != "" {
		if i := model.ListIndex(lists, id); i >= 0 && len(lists[i].Columns) > 0 {
			return slices.Clone(lists[i].Columns)
		}
	}
	return slices.Clone(global)
}

// HasOverride reports whether list id carries its own column sequence.
func HasOverride(lists []model.CustomList, id model.ListID) bool {
	i := model.ListIndex(lists, id)
	return i >= 0 && len(lists[i].Columns) > 0
}
