package board

import (
	"fmt"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/view"
)

// Reconcile re-homes every task whose status is not part of its list's
// effective column set onto the first column of that set. It returns the
// number of tasks moved.
func Reconcile(st *model.State) int {
	moved := 0
	for i := range st.Tasks {
		t := &st.Tasks[i]
		cols := view.EffectiveColumns(st.Columns, st.Lists, t.List())
		if len(cols) == 0 || model.HasColumn(cols, t.Status) {
			continue
		}
		t.Status = cols[0].ID
		moved++
	}
	return moved
}

// listArg reads an optional list id. "" selects the global scope.
func listArg(st model.State, args map[string]any, key string) (model.ListID, error) {
	s, err := getStringOr(args, key)
	if err != nil {
		return "", err
	}
	id := model.ListID(strings.TrimSpace(s))
	if id != "" && model.ListIndex(st.Lists, id) < 0 {
		return "", fmt.Errorf("%w: %s", ErrListNotFound, id)
	}
	return id, nil
}

func scopeColumns(st model.State, list model.ListID) []model.Column {
	return view.EffectiveColumns(st.Columns, st.Lists, list)
}

// setScopeColumns replaces the column sequence of a scope. Writing a list
// scope creates its override.
func setScopeColumns(st *model.State, list model.ListID, cols []model.Column) {
	if list == "" {
		st.Columns = cols
		return
	}
	if i := model.ListIndex(st.Lists, list); i >= 0 {
		st.Lists[i].Columns = cols
	}
}

// inScope reports whether t lives in the column scope of list. The global
// scope holds unassigned tasks and tasks of lists without an override.
func inScope(st model.State, t model.Task, list model.ListID) bool {
	if list != "" {
		return t.InList(list)
	}
	return !view.HasOverride(st.Lists, t.List())
}

func taskArg(st model.State, args map[string]any, key string) (int, error) {
	id, err := getText(args, key)
	if err != nil {
		return -1, err
	}
	i := st.TaskIndex(model.TaskID(id))
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return i, nil
}

// setStatus moves t onto status, which must belong to t's effective columns.
// Landing on a completion column completes the task; leaving one does not
// reopen it.
func (e *Engine) setStatus(st model.State, t *model.Task, status model.ColumnID) error {
	cols := scopeColumns(st, t.List())
	i := model.ColumnIndex(cols, status)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, status)
	}
	t.Status = status
	if cols[i].IsCompletionStatus {
		t.Complete(e.now())
	}
	return nil
}

// setList assigns t to list ("" clears it) and remaps a status that is
// foreign to the destination onto its first column.
func (e *Engine) setList(st model.State, t *model.Task, list model.ListID) error {
	if list == "" {
		t.ListID = nil
	} else {
		t.ListID = model.Ptr(list)
	}
	cols := scopeColumns(st, list)
	if len(cols) == 0 || model.HasColumn(cols, t.Status) {
		return nil
	}
	return e.setStatus(st, t, cols[0].ID)
}
