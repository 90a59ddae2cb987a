package board

import (
	"fmt"
	"slices"

	"taskboard/internal/model"
)

func subtaskIndex(t model.Task, args map[string]any) (int, error) {
	id, err := getText(args, "subtaskId")
	if err != nil {
		return -1, err
	}
	j := slices.IndexFunc(t.Subtasks, func(s model.Subtask) bool { return s.ID == model.SubtaskID(id) })
	if j < 0 {
		return -1, fmt.Errorf("%w: %s", ErrSubtaskNotFound, id)
	}
	return j, nil
}

// subtask.add { id, title }
func (e *Engine) cmdSubtaskAdd(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	title, err := getText(args, "title")
	if err != nil {
		return Result{}, err
	}
	t := &st.Tasks[i]
	t.Subtasks = append(t.Subtasks, model.Subtask{ID: model.NewSubtaskID(), Title: title})
	return Result{State: st, Affected: 1, Patch: *t}, nil
}

// subtask.toggle { id, subtaskId }
func (e *Engine) cmdSubtaskToggle(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	t := &st.Tasks[i]
	j, err := subtaskIndex(*t, args)
	if err != nil {
		return Result{}, err
	}
	t.Subtasks[j].Completed = !t.Subtasks[j].Completed
	return Result{State: st, Affected: 1, Patch: *t}, nil
}

// subtask.delete { id, subtaskId }
func (e *Engine) cmdSubtaskDelete(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	t := &st.Tasks[i]
	j, err := subtaskIndex(*t, args)
	if err != nil {
		return Result{}, err
	}
	t.Subtasks = slices.Delete(t.Subtasks, j, j+1)
	return Result{State: st, Affected: 1, Patch: *t}, nil
}
