package board

import (
	"fmt"
	"slices"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/view"
)

const defaultColumnColor = "#64748b"

func columnArg(cols []model.Column, args map[string]any, key string) (int, error) {
	id, err := getText(args, key)
	if err != nil {
		return -1, err
	}
	i := model.ColumnIndex(cols, model.ColumnID(id))
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrColumnNotFound, id)
	}
	return i, nil
}

// dropCollapsed forgets collapsed ids that no longer name any column.
func dropCollapsed(st *model.State) {
	all := view.ActiveColumns(st.Columns, st.Lists, "")
	st.Prefs.CollapsedColumns = slices.DeleteFunc(st.Prefs.CollapsedColumns, func(id model.ColumnID) bool {
		return !model.HasColumn(all, id)
	})
}

// column.create { listId?, title, color?, isCompletionStatus? }
// Creating in a list without its own columns seeds them from the global set.
func (e *Engine) cmdColumnCreate(st model.State, args map[string]any) (Result, error) {
	list, err := listArg(st, args, "listId")
	if err != nil {
		return Result{}, err
	}
	title, err := getText(args, "title")
	if err != nil {
		return Result{}, err
	}
	color, err := getStringOr(args, "color")
	if err != nil {
		return Result{}, err
	}
	if color == "" {
		color = defaultColumnColor
	}
	done, err := getBoolPtr(args, "isCompletionStatus")
	if err != nil {
		return Result{}, err
	}

	col := model.Column{
		ID:                 model.NewColumnID(),
		Title:              title,
		Color:              color,
		IsCustom:           true,
		IsCompletionStatus: done != nil && *done,
	}
	setScopeColumns(&st, list, append(scopeColumns(st, list), col))

	res := e.ok(st, "Column created", fmt.Sprintf("%q added", title))
	res.Patch = col
	return res, nil
}

// column.update { listId?, id, title?, color?, isCompletionStatus? }
func (e *Engine) cmdColumnUpdate(st model.State, args map[string]any) (Result, error) {
	list, err := listArg(st, args, "listId")
	if err != nil {
		return Result{}, err
	}
	cols := scopeColumns(st, list)
	i, err := columnArg(cols, args, "id")
	if err != nil {
		return Result{}, err
	}

	title, err := getStringPtr(args, "title")
	if err != nil {
		return Result{}, err
	}
	if title != nil {
		s := strings.TrimSpace(*title)
		if s == "" {
			return Result{}, invalid("title is required")
		}
		cols[i].Title = s
	}
	color, err := getStringOr(args, "color")
	if err != nil {
		return Result{}, err
	}
	if color != "" {
		cols[i].Color = color
	}
	done, err := getBoolPtr(args, "isCompletionStatus")
	if err != nil {
		return Result{}, err
	}
	if done != nil {
		cols[i].IsCompletionStatus = *done
	}

	setScopeColumns(&st, list, cols)
	return Result{State: st, Affected: 1, Patch: cols[i]}, nil
}

// column.delete { listId?, id }
// The last column of a scope cannot be deleted. Tasks of the scope sitting
// on the column move to the scope's new first column.
func (e *Engine) cmdColumnDelete(st model.State, args map[string]any) (Result, error) {
	list, err := listArg(st, args, "listId")
	if err != nil {
		return Result{}, err
	}
	cols := scopeColumns(st, list)
	i, err := columnArg(cols, args, "id")
	if err != nil {
		return Result{}, err
	}
	if len(cols) == 1 {
		return e.reject(ErrLastColumn, "Cannot delete column", "A board needs at least one column")
	}
	col := cols[i]

	var affected []int
	for j, t := range st.Tasks {
		if t.Status == col.ID && inScope(st, t, list) {
			affected = append(affected, j)
		}
	}
	remaining := slices.Delete(cols, i, i+1)
	setScopeColumns(&st, list, remaining)
	for _, j := range affected {
		st.Tasks[j].Status = remaining[0].ID
	}
	Reconcile(&st)
	dropCollapsed(&st)

	res := e.ok(st, "Column deleted", fmt.Sprintf("%q removed, %d tasks moved to %q", col.Title, len(affected), remaining[0].Title))
	res.Affected = len(affected)
	return res, nil
}

// column.reorder { listId?, ids }
func (e *Engine) cmdColumnReorder(st model.State, args map[string]any) (Result, error) {
	list, err := listArg(st, args, "listId")
	if err != nil {
		return Result{}, err
	}
	ids, _, err := getStrings(args, "ids")
	if err != nil {
		return Result{}, err
	}
	cols := scopeColumns(st, list)
	if len(ids) != len(cols) {
		return Result{}, invalid("ids must list every column of the scope exactly once")
	}

	ordered := make([]model.Column, 0, len(cols))
	for _, id := range ids {
		i := model.ColumnIndex(cols, model.ColumnID(id))
		if i < 0 {
			return Result{}, fmt.Errorf("%w: %s", ErrColumnNotFound, id)
		}
		if model.HasColumn(ordered, cols[i].ID) {
			return Result{}, invalid("duplicate column id %s", id)
		}
		ordered = append(ordered, cols[i])
	}

	setScopeColumns(&st, list, ordered)
	return Result{State: st, Affected: len(ordered), Patch: ordered}, nil
}

// column.merge { listId?, sourceId, targetId }
func (e *Engine) cmdColumnMerge(st model.State, args map[string]any) (Result, error) {
	list, err := listArg(st, args, "listId")
	if err != nil {
		return Result{}, err
	}
	cols := scopeColumns(st, list)
	si, err := columnArg(cols, args, "sourceId")
	if err != nil {
		return Result{}, err
	}
	ti, err := columnArg(cols, args, "targetId")
	if err != nil {
		return Result{}, err
	}
	if si == ti {
		return Result{}, invalid("cannot merge a column into itself")
	}
	source, target := cols[si], cols[ti]

	var affected []int
	for j, t := range st.Tasks {
		if t.Status == source.ID && inScope(st, t, list) {
			affected = append(affected, j)
		}
	}
	setScopeColumns(&st, list, slices.Delete(cols, si, si+1))
	for _, j := range affected {
		if err := e.setStatus(st, &st.Tasks[j], target.ID); err != nil {
			return Result{}, err
		}
	}
	Reconcile(&st)
	dropCollapsed(&st)

	res := e.ok(st, "Columns merged", fmt.Sprintf("%q merged into %q, %d tasks moved", source.Title, target.Title, len(affected)))
	res.Affected = len(affected)
	return res, nil
}

// column.move_to_list { listId?, id, targetListId }
// Copies the column into the target list's columns and removes it from the
// source scope when that scope keeps at least one column. Every open task on
// that status moves into the target list regardless of its current list.
// Tasks left on a status their scope no longer has are re-homed.
func (e *Engine) cmdColumnMoveToList(st model.State, args map[string]any) (Result, error) {
	source, err := listArg(st, args, "listId")
	if err != nil {
		return Result{}, err
	}
	target, err := listArg(st, args, "targetListId")
	if err != nil {
		return Result{}, err
	}
	if target == "" {
		return Result{}, invalid("targetListId is required")
	}
	if target == source {
		return Result{}, invalid("column already belongs to this list")
	}
	srcCols := scopeColumns(st, source)
	i, err := columnArg(srcCols, args, "id")
	if err != nil {
		return Result{}, err
	}
	col := srcCols[i]

	var tgtCols []model.Column
	if view.HasOverride(st.Lists, target) {
		tgtCols = scopeColumns(st, target)
		if !model.HasColumn(tgtCols, col.ID) {
			tgtCols = append(tgtCols, col)
		}
	} else {
		for _, c := range st.Columns {
			if c.ID != col.ID {
				tgtCols = append(tgtCols, c)
			}
		}
		tgtCols = append(tgtCols, col)
	}

	var movers []int
	for j, t := range st.Tasks {
		if t.Status == col.ID && t.IsActive() {
			movers = append(movers, j)
		}
	}

	setScopeColumns(&st, target, tgtCols)
	if len(srcCols) > 1 {
		setScopeColumns(&st, source, slices.Delete(srcCols, i, i+1))
	}
	for _, j := range movers {
		st.Tasks[j].ListID = model.Ptr(target)
	}
	Reconcile(&st)
	dropCollapsed(&st)

	dest, _ := st.FindList(target)
	res := e.ok(st, "Column moved", fmt.Sprintf("%q moved to %s with %d tasks", col.Title, dest.Name, len(movers)))
	res.Affected = len(movers)
	res.Patch = tgtCols
	return res, nil
}

// column.toggle_collapsed { id }
func (e *Engine) cmdColumnToggleCollapsed(st model.State, args map[string]any) (Result, error) {
	all := view.ActiveColumns(st.Columns, st.Lists, "")
	i, err := columnArg(all, args, "id")
	if err != nil {
		return Result{}, err
	}
	id := all[i].ID
	if j := slices.Index(st.Prefs.CollapsedColumns, id); j >= 0 {
		st.Prefs.CollapsedColumns = slices.Delete(st.Prefs.CollapsedColumns, j, j+1)
	} else {
		st.Prefs.CollapsedColumns = append(st.Prefs.CollapsedColumns, id)
	}
	return Result{State: st, Affected: 1, Patch: st.Prefs.CollapsedColumns}, nil
}
