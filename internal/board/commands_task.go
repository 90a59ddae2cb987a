package board

import (
	"fmt"
	"strings"
	"time"

	"taskboard/internal/clock"
	"taskboard/internal/model"
)

// taskFields are the optional fields shared by task.create and task.update.
type taskFields struct {
	description  *string
	priority     *model.Priority
	category     *model.CategoryID
	dueDate      *string
	tags         []string
	tagsSet      bool
	timeEstimate *int
	estimateSet  bool
	recurrence   *model.Recurrence
	dependsOn    []string
	dependsSet   bool
}

func readTaskFields(st model.State, args map[string]any) (taskFields, error) {
	var f taskFields
	var err error

	if f.description, err = getStringPtr(args, "description"); err != nil {
		return f, err
	}

	p, err := getStringPtr(args, "priority")
	if err != nil {
		return f, err
	}
	if p != nil && *p != "" {
		pr := model.Priority(*p)
		if !pr.Valid() {
			return f, invalid("unknown priority %q", *p)
		}
		f.priority = &pr
	}

	c, err := getStringPtr(args, "category")
	if err != nil {
		return f, err
	}
	if c != nil && *c != "" {
		id := model.CategoryID(*c)
		if model.CategoryIndex(st.Categories, id) < 0 {
			return f, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		f.category = &id
	}

	if f.dueDate, err = getStringPtr(args, "dueDate"); err != nil {
		return f, err
	}
	if f.dueDate != nil && *f.dueDate != "" {
		if _, err := time.Parse(clock.DateLayout, *f.dueDate); err != nil {
			return f, invalid("dueDate must be YYYY-MM-DD")
		}
	}

	if f.tags, f.tagsSet, err = getStrings(args, "tags"); err != nil {
		return f, err
	}
	for i := range f.tags {
		f.tags[i] = strings.TrimSpace(f.tags[i])
	}

	if f.timeEstimate, f.estimateSet, err = getIntPtr(args, "timeEstimate"); err != nil {
		return f, err
	}

	r, err := getStringPtr(args, "recurrence")
	if err != nil {
		return f, err
	}
	if r != nil {
		rec := model.Recurrence(*r)
		if !rec.Valid() {
			return f, invalid("unknown recurrence %q", *r)
		}
		f.recurrence = &rec
	}

	if f.dependsOn, f.dependsSet, err = getStrings(args, "dependsOn"); err != nil {
		return f, err
	}
	return f, nil
}

func (f taskFields) apply(t *model.Task) {
	if f.description != nil {
		t.Description = *f.description
	}
	if f.priority != nil {
		t.Priority = *f.priority
	}
	if f.category != nil {
		t.Category = *f.category
	}
	if f.dueDate != nil {
		if *f.dueDate == "" {
			t.DueDate = nil
		} else {
			t.DueDate = model.Ptr(*f.dueDate)
		}
	}
	if f.tagsSet {
		t.Tags = model.NormalizeTags(f.tags)
	}
	if f.estimateSet {
		t.TimeEstimate = f.timeEstimate
	}
	if f.recurrence != nil {
		t.Recurrence = *f.recurrence
	}
	if f.dependsSet {
		t.DependsOn = t.DependsOn[:0:0]
		for _, id := range f.dependsOn {
			if id = strings.TrimSpace(id); id != "" && model.TaskID(id) != t.ID {
				t.DependsOn = append(t.DependsOn, model.TaskID(id))
			}
		}
	}
}

// placeNewTask assigns list and status to a task that is not yet in st.
func (e *Engine) placeNewTask(st model.State, t *model.Task, args map[string]any) error {
	list, err := listArg(st, args, "listId")
	if err != nil {
		return err
	}
	if list != "" {
		t.ListID = model.Ptr(list)
	}
	status, err := getStringOr(args, "status")
	if err != nil {
		return err
	}
	if status == "" {
		cols := scopeColumns(st, list)
		if len(cols) == 0 {
			return fmt.Errorf("%w: scope has no columns", ErrColumnNotFound)
		}
		status = string(cols[0].ID)
	}
	return e.setStatus(st, t, model.ColumnID(status))
}

// task.create { title, description?, priority?, category?, status?, dueDate?, tags?, listId?, timeEstimate?, recurrence?, subtasks?, dependsOn? }
func (e *Engine) cmdTaskCreate(st model.State, args map[string]any) (Result, error) {
	title, err := getText(args, "title")
	if err != nil {
		return Result{}, err
	}
	fields, err := readTaskFields(st, args)
	if err != nil {
		return Result{}, err
	}
	subtasks, _, err := getStrings(args, "subtasks")
	if err != nil {
		return Result{}, err
	}

	t := model.Task{
		ID:        model.NewTaskID(),
		Title:     title,
		Priority:  model.PriorityMedium,
		Tags:      []string{},
		CreatedAt: e.now(),
	}
	if len(st.Categories) > 0 {
		t.Category = st.Categories[0].ID
	}
	fields.apply(&t)
	for _, s := range subtasks {
		if s = strings.TrimSpace(s); s != "" {
			t.Subtasks = append(t.Subtasks, model.Subtask{ID: model.NewSubtaskID(), Title: s})
		}
	}
	if err := e.placeNewTask(st, &t, args); err != nil {
		return Result{}, err
	}

	st.Tasks = append(st.Tasks, t)
	res := e.ok(st, "Task created", fmt.Sprintf("%q has been added", t.Title))
	res.Patch = t
	return res, nil
}

// task.create_from_template { templateId, listId?, status?, dueDate? }
func (e *Engine) cmdTaskCreateFromTemplate(st model.State, args map[string]any) (Result, error) {
	id, err := getText(args, "templateId")
	if err != nil {
		return Result{}, err
	}
	i := model.TemplateIndex(st.Templates, model.TemplateID(id))
	if i < 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	tpl := st.Templates[i]

	t := tpl.Instantiate(model.NewTaskID(), e.now())
	if !t.Priority.Valid() {
		t.Priority = model.PriorityMedium
	}
	if model.CategoryIndex(st.Categories, t.Category) < 0 && len(st.Categories) > 0 {
		t.Category = st.Categories[0].ID
	}
	due, err := getStringPtr(args, "dueDate")
	if err != nil {
		return Result{}, err
	}
	if due != nil && *due != "" {
		if _, err := time.Parse(clock.DateLayout, *due); err != nil {
			return Result{}, invalid("dueDate must be YYYY-MM-DD")
		}
		t.DueDate = model.Ptr(*due)
	}
	if err := e.placeNewTask(st, &t, args); err != nil {
		return Result{}, err
	}

	st.Tasks = append(st.Tasks, t)
	res := e.ok(st, "Task created", fmt.Sprintf("%q created from template %q", t.Title, tpl.Name))
	res.Patch = t
	return res, nil
}

// task.update { id, title?, status?, listId?, ...fields of task.create }
// Absent fields are left alone; an empty dueDate or listId clears it.
func (e *Engine) cmdTaskUpdate(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	fields, err := readTaskFields(st, args)
	if err != nil {
		return Result{}, err
	}
	t := &st.Tasks[i]

	if title, err := getStringPtr(args, "title"); err != nil {
		return Result{}, err
	} else if title != nil {
		s := strings.TrimSpace(*title)
		if s == "" {
			return Result{}, invalid("title is required")
		}
		t.Title = s
	}
	fields.apply(t)

	if _, ok := args["listId"]; ok {
		list, err := listArg(st, args, "listId")
		if err != nil {
			return Result{}, err
		}
		if err := e.setList(st, t, list); err != nil {
			return Result{}, err
		}
	}
	status, err := getStringOr(args, "status")
	if err != nil {
		return Result{}, err
	}
	if status != "" && model.ColumnID(status) != t.Status {
		if err := e.setStatus(st, t, model.ColumnID(status)); err != nil {
			return Result{}, err
		}
	}

	return Result{State: st, Affected: 1, Patch: *t}, nil
}

// task.delete { id } moves the task to trash.
func (e *Engine) cmdTaskDelete(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	t := &st.Tasks[i]
	t.IsDeleted = true
	t.DeletedAt = model.Ptr(e.now())
	return e.ok(st, "Task deleted", fmt.Sprintf("%q moved to trash", t.Title)), nil
}

// task.restore { id }
func (e *Engine) cmdTaskRestore(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	t := &st.Tasks[i]
	t.IsDeleted = false
	t.DeletedAt = nil
	return e.ok(st, "Task restored", fmt.Sprintf("%q restored from trash", t.Title)), nil
}

// task.delete_permanent { id }
func (e *Engine) cmdTaskDeletePermanent(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	t := st.Tasks[i]
	if !t.IsDeleted {
		return Result{}, fmt.Errorf("%w: %s", ErrNotInTrash, t.ID)
	}
	st.Tasks = append(st.Tasks[:i], st.Tasks[i+1:]...)
	return e.ok(st, "Task permanently deleted", fmt.Sprintf("%q is gone for good", t.Title)), nil
}

// trash.empty {}
func (e *Engine) cmdTrashEmpty(st model.State, _ map[string]any) (Result, error) {
	kept := st.Tasks[:0]
	removed := 0
	for _, t := range st.Tasks {
		if t.IsDeleted {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	st.Tasks = kept
	res := e.ok(st, "Trash emptied", fmt.Sprintf("%d tasks permanently deleted", removed))
	res.Affected = removed
	return res, nil
}

func (e *Engine) toggleTask(st model.State, args map[string]any, flip func(*model.Task)) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	flip(&st.Tasks[i])
	return Result{State: st, Affected: 1, Patch: st.Tasks[i]}, nil
}

// task.toggle_archive { id }
func (e *Engine) cmdTaskToggleArchive(st model.State, args map[string]any) (Result, error) {
	return e.toggleTask(st, args, func(t *model.Task) { t.IsArchived = !t.IsArchived })
}

// task.toggle_favorite { id }
func (e *Engine) cmdTaskToggleFavorite(st model.State, args map[string]any) (Result, error) {
	return e.toggleTask(st, args, func(t *model.Task) { t.IsFavorite = !t.IsFavorite })
}

// task.toggle_pin { id }
func (e *Engine) cmdTaskTogglePin(st model.State, args map[string]any) (Result, error) {
	return e.toggleTask(st, args, func(t *model.Task) { t.IsPinned = !t.IsPinned })
}

// task.toggle_complete { id }
func (e *Engine) cmdTaskToggleComplete(st model.State, args map[string]any) (Result, error) {
	res, err := e.toggleTask(st, args, func(t *model.Task) {
		if t.IsCompleted {
			t.IsCompleted = false
			t.CompletedAt = nil
			return
		}
		t.Complete(e.now())
	})
	if err != nil {
		return res, err
	}
	if t := res.Patch.(model.Task); t.IsCompleted {
		res.Notification = e.notify(model.NotifySuccess, "Task completed", fmt.Sprintf("%q is done", t.Title))
	}
	return res, nil
}

// task.move_status { id, status }
func (e *Engine) cmdTaskMoveStatus(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	status, err := getText(args, "status")
	if err != nil {
		return Result{}, err
	}
	t := &st.Tasks[i]
	wasCompleted := t.IsCompleted
	if err := e.setStatus(st, t, model.ColumnID(status)); err != nil {
		return Result{}, err
	}
	res := Result{State: st, Affected: 1, Patch: *t}
	if t.IsCompleted && !wasCompleted {
		res.Notification = e.notify(model.NotifySuccess, "Task completed", fmt.Sprintf("%q is done", t.Title))
	}
	return res, nil
}

// task.move_list { id, listId? } moves the task into a list, or out of all lists.
func (e *Engine) cmdTaskMoveList(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	list, err := listArg(st, args, "listId")
	if err != nil {
		return Result{}, err
	}
	t := &st.Tasks[i]
	if err := e.setList(st, t, list); err != nil {
		return Result{}, err
	}
	dest := "no list"
	if l, ok := st.FindList(list); ok {
		dest = l.Name
	}
	res := e.ok(st, "Task moved", fmt.Sprintf("%q moved to %s", t.Title, dest))
	res.Patch = *t
	return res, nil
}

// task.duplicate { id }
func (e *Engine) cmdTaskDuplicate(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	dup := st.Tasks[i].Clone()
	dup.ID = model.NewTaskID()
	dup.Title += " (Copy)"
	dup.CreatedAt = e.now()
	dup.IsFavorite = false
	dup.IsPinned = false

	st.Tasks = append(st.Tasks, dup)
	res := e.ok(st, "Task duplicated", fmt.Sprintf("%q created", dup.Title))
	res.Patch = dup
	return res, nil
}

// task.add_tag { id, tag }
func (e *Engine) cmdTaskAddTag(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	tag, err := getText(args, "tag")
	if err != nil {
		return Result{}, err
	}
	st.Tasks[i].AddTag(tag)
	return Result{State: st, Affected: 1, Patch: st.Tasks[i]}, nil
}

// task.remove_tag { id, tag }
func (e *Engine) cmdTaskRemoveTag(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	tag, err := getString(args, "tag")
	if err != nil {
		return Result{}, err
	}
	st.Tasks[i].RemoveTag(strings.TrimSpace(tag))
	return Result{State: st, Affected: 1, Patch: st.Tasks[i]}, nil
}

// tasks.replace { tasks } swaps the whole task collection, as an import does.
func (e *Engine) cmdTasksReplace(st model.State, args map[string]any) (Result, error) {
	var tasks []model.Task
	if err := decodeArg(args, "tasks", &tasks); err != nil {
		return Result{}, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	for _, t := range tasks {
		if t.ID == "" {
			return Result{}, invalid("every task needs an id")
		}
	}
	st.Tasks = tasks
	res := e.ok(st, "Tasks imported", fmt.Sprintf("%d tasks imported", len(tasks)))
	res.Affected = len(tasks)
	return res, nil
}
