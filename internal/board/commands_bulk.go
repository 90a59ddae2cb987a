package board

import (
	"fmt"
	"slices"

	"taskboard/internal/model"
	"taskboard/internal/view"
)

// bulkTargets resolves the task indexes a bulk command applies to: the
// explicit ids arg when present, the current selection otherwise. Unknown
// ids are skipped.
func bulkTargets(st model.State, args map[string]any) ([]int, error) {
	ids, present, err := getStrings(args, "ids")
	if err != nil {
		return nil, err
	}
	if !present {
		for _, id := range st.Selection.TaskIDs {
			ids = append(ids, string(id))
		}
	}
	var out []int
	for _, id := range ids {
		if i := st.TaskIndex(model.TaskID(id)); i >= 0 && !slices.Contains(out, i) {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: nothing selected", ErrTaskNotFound)
	}
	return out, nil
}

// bulk applies fn to every target, then clears the selection and leaves
// selection mode. fn reports whether it changed the task.
func (e *Engine) bulk(st model.State, args map[string]any, verb string, fn func(*model.Task) (bool, error)) (Result, error) {
	targets, err := bulkTargets(st, args)
	if err != nil {
		return Result{}, err
	}
	n := 0
	for _, i := range targets {
		changed, err := fn(&st.Tasks[i])
		if err != nil {
			return Result{}, err
		}
		if changed {
			n++
		}
	}
	st.Selection = model.Selection{TaskIDs: []model.TaskID{}}

	res := e.ok(st, "Bulk action complete", fmt.Sprintf("%d tasks %s", n, verb))
	res.Affected = n
	return res, nil
}

// bulk.delete { ids? }
func (e *Engine) cmdBulkDelete(st model.State, args map[string]any) (Result, error) {
	now := e.now()
	return e.bulk(st, args, "moved to trash", func(t *model.Task) (bool, error) {
		if t.IsDeleted {
			return false, nil
		}
		t.IsDeleted = true
		t.DeletedAt = model.Ptr(now)
		return true, nil
	})
}

// bulk.archive { ids? }
func (e *Engine) cmdBulkArchive(st model.State, args map[string]any) (Result, error) {
	return e.bulk(st, args, "archived", func(t *model.Task) (bool, error) {
		if t.IsArchived {
			return false, nil
		}
		t.IsArchived = true
		return true, nil
	})
}

// bulk.favorite { ids? }
func (e *Engine) cmdBulkFavorite(st model.State, args map[string]any) (Result, error) {
	return e.bulk(st, args, "added to favorites", func(t *model.Task) (bool, error) {
		if t.IsFavorite {
			return false, nil
		}
		t.IsFavorite = true
		return true, nil
	})
}

// bulk.move_status { ids?, status }
// Tasks whose columns do not include status are left where they are.
func (e *Engine) cmdBulkMoveStatus(st model.State, args map[string]any) (Result, error) {
	status, err := getText(args, "status")
	if err != nil {
		return Result{}, err
	}
	id := model.ColumnID(status)
	if !model.HasColumn(view.ActiveColumns(st.Columns, st.Lists, ""), id) {
		return Result{}, fmt.Errorf("%w: %s", ErrColumnNotFound, id)
	}
	return e.bulk(st, args, "moved", func(t *model.Task) (bool, error) {
		if t.Status == id || !model.HasColumn(scopeColumns(st, t.List()), id) {
			return false, nil
		}
		return true, e.setStatus(st, t, id)
	})
}

// bulk.move_list { ids?, listId? }
func (e *Engine) cmdBulkMoveList(st model.State, args map[string]any) (Result, error) {
	list, err := listArg(st, args, "listId")
	if err != nil {
		return Result{}, err
	}
	return e.bulk(st, args, "moved", func(t *model.Task) (bool, error) {
		if t.InList(list) {
			return false, nil
		}
		return true, e.setList(st, t, list)
	})
}

// selection.toggle_mode {} flips selection mode. Leaving it clears the selection.
func (e *Engine) cmdSelectionToggleMode(st model.State, _ map[string]any) (Result, error) {
	st.Selection.Active = !st.Selection.Active
	if !st.Selection.Active {
		st.Selection.TaskIDs = []model.TaskID{}
	}
	return Result{State: st, Patch: st.Selection}, nil
}

// selection.toggle { id }
func (e *Engine) cmdSelectionToggle(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	id := st.Tasks[i].ID
	if j := slices.Index(st.Selection.TaskIDs, id); j >= 0 {
		st.Selection.TaskIDs = slices.Delete(st.Selection.TaskIDs, j, j+1)
	} else {
		st.Selection.TaskIDs = append(st.Selection.TaskIDs, id)
		st.Selection.Active = true
	}
	return Result{State: st, Affected: 1, Patch: st.Selection}, nil
}

// selection.select_all { ids? }
// Without ids every task of the default view (not archived, not deleted) is selected.
func (e *Engine) cmdSelectionSelectAll(st model.State, args map[string]any) (Result, error) {
	ids, present, err := getStrings(args, "ids")
	if err != nil {
		return Result{}, err
	}
	sel := []model.TaskID{}
	if present {
		for _, id := range ids {
			if st.TaskIndex(model.TaskID(id)) >= 0 && !slices.Contains(sel, model.TaskID(id)) {
				sel = append(sel, model.TaskID(id))
			}
		}
	} else {
		for _, t := range view.FilterTasks(st.Tasks, view.Filter{ViewMode: model.ViewAll}) {
			sel = append(sel, t.ID)
		}
	}
	st.Selection = model.Selection{Active: true, TaskIDs: sel}
	return Result{State: st, Affected: len(sel), Patch: st.Selection}, nil
}

// selection.clear {}
func (e *Engine) cmdSelectionClear(st model.State, _ map[string]any) (Result, error) {
	st.Selection.TaskIDs = []model.TaskID{}
	return Result{State: st, Patch: st.Selection}, nil
}
