package model

import "slices"

// State is the whole application state. Commands treat it as a value:
// they never mutate the slices of the State they were given.
type State struct {
	Tasks         []Task         `json:"tasks"`
	Lists         []CustomList   `json:"customLists"`
	Categories    []Category     `json:"categories"`
	Columns       []Column       `json:"columns"`
	Templates     []TaskTemplate `json:"templates"`
	Notifications []Notification `json:"notifications"`
	Prefs         Preferences    `json:"preferences"`
	Selection     Selection      `json:"selection"`
}

// NewState returns a state seeded with the default columns and categories.
func NewState() State {
	return State{
		Tasks:         []Task{},
		Lists:         []CustomList{},
		Categories:    DefaultCategories(),
		Columns:       DefaultColumns(),
		Templates:     []TaskTemplate{},
		Notifications: []Notification{},
		Prefs:         DefaultPreferences(),
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Tasks = make([]Task, len(s.Tasks))
	for i, t := range s.Tasks {
		out.Tasks[i] = t.Clone()
	}
	out.Lists = make([]CustomList, len(s.Lists))
	for i, l := range s.Lists {
		out.Lists[i] = l.Clone()
	}
	out.Categories = slices.Clone(s.Categories)
	out.Columns = slices.Clone(s.Columns)
	out.Templates = slices.Clone(s.Templates)
	out.Notifications = slices.Clone(s.Notifications)
	out.Prefs.CollapsedColumns = slices.Clone(s.Prefs.CollapsedColumns)
	out.Selection.TaskIDs = slices.Clone(s.Selection.TaskIDs)
	return out
}

// TaskIndex returns the position of the task with id or -1.
func (s State) TaskIndex(id TaskID) int {
	return slices.IndexFunc(s.Tasks, func(t Task) bool { return t.ID == id })
}

// FindTask looks a task up by id.
func (s State) FindTask(id TaskID) (Task, bool) {
	i := s.TaskIndex(id)
	if i < 0 {
		return Task{}, false
	}
	return s.Tasks[i], true
}

// FindList looks a custom list up by id.
func (s State) FindList(id ListID) (CustomList, bool) {
	i := ListIndex(s.Lists, id)
	if i < 0 {
		return CustomList{}, false
	}
	return s.Lists[i], true
}
