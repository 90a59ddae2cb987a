package model

// ViewMode selects the top-level task partition.
type ViewMode string

const (
	ViewAll       ViewMode = "all"
	ViewFavorites ViewMode = "favorites"
	ViewCalendar  ViewMode = "calendar"
	ViewArchived  ViewMode = "archived"
	ViewTrash     ViewMode = "trash"
)

func (v ViewMode) Valid() bool {
	switch v {
	case ViewAll, ViewFavorites, ViewCalendar, ViewArchived, ViewTrash:
		return true
	}
	return false
}

type SortBy string

const (
	SortByPriority  SortBy = "priority"
	SortByDueDate   SortBy = "dueDate"
	SortByTitle     SortBy = "title"
	SortByCreatedAt SortBy = "createdAt"
)

func (s SortBy) Valid() bool {
	switch s {
	case SortByPriority, SortByDueDate, SortByTitle, SortByCreatedAt:
		return true
	}
	return false
}

// SortOrder asc keeps each sort key's natural direction, desc inverts it.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) Valid() bool { return o == SortAsc || o == SortDesc }

type SortPreference struct {
	SortBy    SortBy    `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
}

type BoardViewType string

const (
	BoardKanban BoardViewType = "kanban"
	BoardList   BoardViewType = "list"
	BoardGrid   BoardViewType = "grid"
)

func (b BoardViewType) Valid() bool {
	return b == BoardKanban || b == BoardList || b == BoardGrid
}

// Preferences are the persisted view settings.
type Preferences struct {
	ViewMode         ViewMode       `json:"viewMode"`
	CompactView      bool           `json:"compactView"`
	BoardViewType    BoardViewType  `json:"boardViewType"`
	Sort             SortPreference `json:"sort"`
	CollapsedColumns []ColumnID     `json:"collapsedColumns"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		ViewMode:         ViewAll,
		BoardViewType:    BoardKanban,
		Sort:             SortPreference{SortBy: SortByCreatedAt, SortOrder: SortAsc},
		CollapsedColumns: []ColumnID{},
	}
}

// Selection is session-only multi-select state used by bulk commands.
type Selection struct {
	Active  bool     `json:"active"`
	TaskIDs []TaskID `json:"taskIds"`
}
