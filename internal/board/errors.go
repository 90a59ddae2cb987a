package board

import (
	"errors"
	"net/http"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrSubtaskNotFound      = errors.New("subtask not found")
	ErrColumnNotFound       = errors.New("column not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrListNotFound         = errors.New("list not found")
	ErrTemplateNotFound     = errors.New("template not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrLastColumn   = errors.New("cannot delete the last column")
	ErrLastCategory = errors.New("cannot delete the last category")
	ErrNotInTrash   = errors.New("task is not in trash")

	ErrInvalidArgs    = errors.New("invalid arguments")
	ErrUnknownCommand = errors.New("unknown command")
)

// StatusCode maps a command error onto the HTTP status returned for it.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrSubtaskNotFound),
		errors.Is(err, ErrColumnNotFound),
		errors.Is(err, ErrCategoryNotFound),
		errors.Is(err, ErrListNotFound),
		errors.Is(err, ErrTemplateNotFound),
		errors.Is(err, ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrLastColumn),
		errors.Is(err, ErrLastCategory),
		errors.Is(err, ErrNotInTrash):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidArgs), errors.Is(err, ErrUnknownCommand):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
