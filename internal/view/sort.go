package view

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"taskboard/internal/model"
)

// Sorter orders tasks. Titles compare with the collation rules of Locale.
type Sorter struct {
	Locale language.Tag
}

// NewSorter parses locale (BCP 47) and falls back to English.
func NewSorter(locale string) Sorter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return Sorter{Locale: tag}
}

// Sort returns a stably sorted copy of tasks. Pinned tasks always come first.
// SortAsc keeps each key's natural direction (priority high to low, due date
// soonest first, title A to Z, newest first); SortDesc inverts it. Tasks
// without a due date sort last in either direction.
func (s Sorter) Sort(tasks []model.Task, by model.SortBy, order model.SortOrder) []model.Task {
	out := slices.Clone(tasks)
	col := collate.New(s.Locale)

	slices.SortStableFunc(out, func(a, b model.Task) int {
		if a.IsPinned != b.IsPinned {
			if a.IsPinned {
				return -1
			}
			return 1
		}

		var c int
		switch by {
		case model.SortByPriority:
			c = b.Priority.Rank() - a.Priority.Rank()
		case model.SortByDueDate:
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			}
			c = cmp.Compare(*a.DueDate, *b.DueDate)
		case model.SortByTitle:
			c = col.CompareString(a.Title, b.Title)
		case model.SortByCreatedAt:
			c = b.CreatedAt.Compare(a.CreatedAt)
		default:
			return 0
		}

		if order == model.SortDesc {
			return -c
		}
		return c
	})
	return out
}
