package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type ListID string

func NewListID() ListID { return ListID(uuid.NewString()) }

// CustomList is a named partition over tasks. Columns, when non-empty,
// overrides the global column sequence for tasks in the list.
type CustomList struct {
	ID        ListID    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	Columns   []Column  `json:"columns,omitempty"`
}

func (l CustomList) Clone() CustomList {
	out := l
	out.Columns = slices.Clone(l.Columns)
	return out
}

func ListIndex(lists []CustomList, id ListID) int {
	return slices.IndexFunc(lists, func(l CustomList) bool { return l.ID == id })
}
