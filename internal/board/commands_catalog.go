package board

import (
	"fmt"
	"slices"
	"strings"

	"taskboard/internal/model"
)

const (
	defaultCategoryColor = "#6366f1"
	defaultListColor     = "#0ea5e9"
)

func iconArg(args map[string]any) (model.Icon, error) {
	s, err := getStringOr(args, "icon")
	if err != nil || s == "" {
		return "", err
	}
	icon := model.Icon(s)
	if !icon.Valid() {
		return "", invalid("unknown icon %q", s)
	}
	return icon, nil
}

func categoryArg(st model.State, args map[string]any, key string) (int, error) {
	id, err := getText(args, key)
	if err != nil {
		return -1, err
	}
	i := model.CategoryIndex(st.Categories, model.CategoryID(id))
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	return i, nil
}

// category.create { name, color?, icon? }
func (e *Engine) cmdCategoryCreate(st model.State, args map[string]any) (Result, error) {
	name, err := getText(args, "name")
	if err != nil {
		return Result{}, err
	}
	color, err := getStringOr(args, "color")
	if err != nil {
		return Result{}, err
	}
	if color == "" {
		color = defaultCategoryColor
	}
	icon, err := iconArg(args)
	if err != nil {
		return Result{}, err
	}
	if icon == "" {
		icon = model.IconStar
	}

	c := model.Category{ID: model.NewCategoryID(), Name: name, Color: color, Icon: icon, IsCustom: true}
	st.Categories = append(st.Categories, c)
	res := e.ok(st, "Category created", fmt.Sprintf("%q added", name))
	res.Patch = c
	return res, nil
}

// category.update { id, name?, color?, icon? }
func (e *Engine) cmdCategoryUpdate(st model.State, args map[string]any) (Result, error) {
	i, err := categoryArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	c := &st.Categories[i]

	name, err := getStringPtr(args, "name")
	if err != nil {
		return Result{}, err
	}
	if name != nil {
		s := strings.TrimSpace(*name)
		if s == "" {
			return Result{}, invalid("name is required")
		}
		c.Name = s
	}
	color, err := getStringOr(args, "color")
	if err != nil {
		return Result{}, err
	}
	if color != "" {
		c.Color = color
	}
	icon, err := iconArg(args)
	if err != nil {
		return Result{}, err
	}
	if icon != "" {
		c.Icon = icon
	}
	return Result{State: st, Affected: 1, Patch: *c}, nil
}

// category.delete { id }
// The last category cannot be deleted. Tasks and templates of the category
// move to the first remaining one.
func (e *Engine) cmdCategoryDelete(st model.State, args map[string]any) (Result, error) {
	i, err := categoryArg(st, args, "id")
	if err != nil {
		return Result{}, err
	}
	if len(st.Categories) == 1 {
		return e.reject(ErrLastCategory, "Cannot delete category", "At least one category is required")
	}
	gone := st.Categories[i]
	st.Categories = slices.Delete(st.Categories, i, i+1)
	fallback := st.Categories[0].ID

	moved := 0
	for j := range st.Tasks {
		if st.Tasks[j].Category == gone.ID {
			st.Tasks[j].Category = fallback
			moved++
		}
	}
	for j := range st.Templates {
		if st.Templates[j].Category == gone.ID {
			st.Templates[j].Category = fallback
		}
	}

	res := e.ok(st, "Category deleted", fmt.Sprintf("%q removed, %d tasks moved to %q", gone.Name, moved, st.Categories[0].Name))
	res.Affected = moved
	return res, nil
}

// list.create { name, color? }
func (e *Engine) cmdListCreate(st model.State, args map[string]any) (Result, error) {
	name, err := getText(args, "name")
	if err != nil {
		return Result{}, err
	}
	color, err := getStringOr(args, "color")
	if err != nil {
		return Result{}, err
	}
	if color == "" {
		color = defaultListColor
	}

	l := model.CustomList{ID: model.NewListID(), Name: name, Color: color, CreatedAt: e.now()}
	st.Lists = append(st.Lists, l)
	res := e.ok(st, "List created", fmt.Sprintf("%q added", name))
	res.Patch = l
	return res, nil
}

// list.update { id, name?, color? }
func (e *Engine) cmdListUpdate(st model.State, args map[string]any) (Result, error) {
	id, err := getText(args, "id")
	if err != nil {
		return Result{}, err
	}
	i := model.ListIndex(st.Lists, model.ListID(id))
	if i < 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrListNotFound, id)
	}
	l := &st.Lists[i]

	name, err := getStringPtr(args, "name")
	if err != nil {
		return Result{}, err
	}
	if name != nil {
		s := strings.TrimSpace(*name)
		if s == "" {
			return Result{}, invalid("name is required")
		}
		l.Name = s
	}
	color, err := getStringOr(args, "color")
	if err != nil {
		return Result{}, err
	}
	if color != "" {
		l.Color = color
	}
	return Result{State: st, Affected: 1, Patch: *l}, nil
}

// list.delete { id }
// Tasks of the list become unassigned and are reconciled against the
// global columns.
func (e *Engine) cmdListDelete(st model.State, args map[string]any) (Result, error) {
	id, err := getText(args, "id")
	if err != nil {
		return Result{}, err
	}
	i := model.ListIndex(st.Lists, model.ListID(id))
	if i < 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrListNotFound, id)
	}
	gone := st.Lists[i]
	st.Lists = slices.Delete(st.Lists, i, i+1)

	released := 0
	for j := range st.Tasks {
		if st.Tasks[j].InList(gone.ID) {
			st.Tasks[j].ListID = nil
			released++
		}
	}
	Reconcile(&st)
	dropCollapsed(&st)

	res := e.ok(st, "List deleted", fmt.Sprintf("%q removed, %d tasks unassigned", gone.Name, released))
	res.Affected = released
	return res, nil
}

// template.create { name, title?, description?, priority?, category?, tags?, subtasks?, timeEstimate?, recurrence? }
func (e *Engine) cmdTemplateCreate(st model.State, args map[string]any) (Result, error) {
	name, err := getText(args, "name")
	if err != nil {
		return Result{}, err
	}
	title, err := getStringOr(args, "title")
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

	// Build through a scratch task so both share field handling.
	scratch := model.Task{Title: strings.TrimSpace(title), Priority: model.PriorityMedium, Tags: []string{}}
	if len(st.Categories) > 0 {
		scratch.Category = st.Categories[0].ID
	}
	fields.apply(&scratch)
	for _, s := range subtasks {
		if s = strings.TrimSpace(s); s != "" {
			scratch.Subtasks = append(scratch.Subtasks, model.Subtask{ID: model.NewSubtaskID(), Title: s})
		}
	}
	if scratch.Title == "" {
		scratch.Title = name
	}

	tpl := model.TemplateFromTask(model.NewTemplateID(), name, scratch, e.now())
	st.Templates = append(st.Templates, tpl)
	res := e.ok(st, "Template created", fmt.Sprintf("%q saved", name))
	res.Patch = tpl
	return res, nil
}

// template.create_from_task { taskId, name? }
func (e *Engine) cmdTemplateCreateFromTask(st model.State, args map[string]any) (Result, error) {
	i, err := taskArg(st, args, "taskId")
	if err != nil {
		return Result{}, err
	}
	t := st.Tasks[i]
	name, err := getStringOr(args, "name")
	if err != nil {
		return Result{}, err
	}
	if name = strings.TrimSpace(name); name == "" {
		name = t.Title
	}

	tpl := model.TemplateFromTask(model.NewTemplateID(), name, t, e.now())
	for j := range tpl.Subtasks {
		tpl.Subtasks[j].Completed = false
	}
	st.Templates = append(st.Templates, tpl)
	res := e.ok(st, "Template created", fmt.Sprintf("%q saved from %q", name, t.Title))
	res.Patch = tpl
	return res, nil
}

// template.delete { id }
func (e *Engine) cmdTemplateDelete(st model.State, args map[string]any) (Result, error) {
	id, err := getText(args, "id")
	if err != nil {
		return Result{}, err
	}
	i := model.TemplateIndex(st.Templates, model.TemplateID(id))
	if i < 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	gone := st.Templates[i]
	st.Templates = slices.Delete(st.Templates, i, i+1)
	return e.ok(st, "Template deleted", fmt.Sprintf("%q removed", gone.Name)), nil
}
