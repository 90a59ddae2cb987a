// Package exchange converts board state to and from its export formats:
// a JSON bundle, CSV and iCalendar.
package exchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"taskboard/internal/model"
)

// ErrInvalidImport is returned for any import payload that is not an object
// with a tasks array.
var ErrInvalidImport = errors.New("invalid import")

// Bundle is the JSON export document.
type Bundle struct {
	Tasks       []model.Task         `json:"tasks"`
	CustomLists []model.CustomList   `json:"customLists"`
	Categories  []model.Category     `json:"categories"`
	Columns     []model.Column       `json:"columns"`
	Templates   []model.TaskTemplate `json:"templates"`
	ExportDate  time.Time            `json:"exportDate"`
}

func NewBundle(st model.State, now time.Time) Bundle {
	return Bundle{
		Tasks:       st.Tasks,
		CustomLists: st.Lists,
		Categories:  st.Categories,
		Columns:     st.Columns,
		Templates:   st.Templates,
		ExportDate:  now,
	}
}

// WriteJSON writes b as indented JSON.
func WriteJSON(w io.Writer, b Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// ParseImport reads an import payload and returns its tasks. Only the tasks
// array is used; the other bundle fields are ignored.
func ParseImport(r io.Reader) ([]model.Task, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	raw, ok := doc["tasks"]
	if !ok {
		return nil, fmt.Errorf("%w: missing tasks", ErrInvalidImport)
	}
	if raw = bytes.TrimSpace(raw); len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: tasks must be an array", ErrInvalidImport)
	}

	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	for i, t := range tasks {
		if t.ID == "" {
			return nil, fmt.Errorf("%w: task %d has no id", ErrInvalidImport, i)
		}
	}
	return tasks, nil
}
