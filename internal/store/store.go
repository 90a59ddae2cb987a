// Package store is the key/value persistence layer. Each logical entity is
// stored as one JSON document under its own key; writes are last-write-wins.
package store

import (
	"context"
	"errors"
	"regexp"
)

// Logical keys.
const (
	KeyTasks            = "tasks"
	KeyLists            = "customLists"
	KeyCategories       = "categories"
	KeyColumns          = "columns"
	KeyCollapsedColumns = "collapsedColumns"
	KeyTemplates        = "templates"
	KeyViewPreference   = "viewPreference"
	KeyCompactView      = "compactView"
	KeyBoardViewType    = "boardViewType"
	KeyNotifications    = "notifications"
	KeySortPreference   = "sortPreference"
	KeySchemaVersion    = "schemaVersion"
)

var (
	ErrInvalidKey = errors.New("invalid store key")
	ErrLocked     = errors.New("store is locked by another process")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Store is an opaque key/value store. Get decodes the value for key into dst
// and reports whether it existed.
type Store interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// GetOr returns the value stored under key, or def when the key is absent.
func GetOr[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	var v T
	ok, err := s.Get(ctx, key, &v)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return ErrInvalidKey
	}
	return nil
}
