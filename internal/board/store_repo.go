package board

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

// SchemaVersion is the persisted task schema version. A store stamped with
// any other version has its tasks wiped on load; every other key survives.
const SchemaVersion = 2

// StoreRepo maps the board state onto the logical keys of a store.Store.
// The state is read once; afterwards the in-memory copy is authoritative and
// every Save writes it through. Write failures are logged, never returned.
type StoreRepo struct {
	mu     sync.Mutex
	store  store.Store
	log    *slog.Logger
	loaded bool
	state  model.State
}

func NewStoreRepo(s store.Store, log *slog.Logger) *StoreRepo {
	if log == nil {
		log = slog.Default()
	}
	return &StoreRepo{store: s, log: log}
}

func (r *StoreRepo) Load(ctx context.Context) (model.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		st, err := r.read(ctx)
		if err != nil {
			return model.State{}, err
		}
		r.state = st
		r.loaded = true
	}
	return r.state.Clone(), nil
}

func (r *StoreRepo) Save(ctx context.Context, st model.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = st.Clone()
	r.loaded = true

	writes := []struct {
		key string
		v   any
	}{
		{store.KeyTasks, st.Tasks},
		{store.KeyLists, st.Lists},
		{store.KeyCategories, st.Categories},
		{store.KeyColumns, st.Columns},
		{store.KeyCollapsedColumns, st.Prefs.CollapsedColumns},
		{store.KeyTemplates, st.Templates},
		{store.KeyViewPreference, st.Prefs.ViewMode},
		{store.KeyCompactView, st.Prefs.CompactView},
		{store.KeyBoardViewType, st.Prefs.BoardViewType},
		{store.KeyNotifications, st.Notifications},
		{store.KeySortPreference, st.Prefs.Sort},
	}
	for _, w := range writes {
		if err := r.store.Set(ctx, w.key, w.v); err != nil {
			r.log.Error("store write failed", "key", w.key, "err", err)
		}
	}
	return nil
}

func (r *StoreRepo) read(ctx context.Context) (model.State, error) {
	st := model.NewState()

	version, err := readKey(ctx, r, store.KeySchemaVersion, 0)
	if err != nil {
		return st, err
	}
	if version != SchemaVersion {
		r.log.Info("task schema changed, clearing stored tasks", "from", version, "to", SchemaVersion)
		if err := r.store.Delete(ctx, store.KeyTasks); err != nil {
			r.log.Error("store delete failed", "key", store.KeyTasks, "err", err)
		}
		if err := r.store.Set(ctx, store.KeySchemaVersion, SchemaVersion); err != nil {
			r.log.Error("store write failed", "key", store.KeySchemaVersion, "err", err)
		}
	}

	if st.Tasks, err = readKey(ctx, r, store.KeyTasks, st.Tasks); err != nil {
		return st, err
	}
	if st.Lists, err = readKey(ctx, r, store.KeyLists, st.Lists); err != nil {
		return st, err
	}
	if st.Categories, err = readKey(ctx, r, store.KeyCategories, st.Categories); err != nil {
		return st, err
	}
	if st.Columns, err = readKey(ctx, r, store.KeyColumns, st.Columns); err != nil {
		return st, err
	}
	if st.Templates, err = readKey(ctx, r, store.KeyTemplates, st.Templates); err != nil {
		return st, err
	}
	if st.Notifications, err = readKey(ctx, r, store.KeyNotifications, st.Notifications); err != nil {
		return st, err
	}

	p := &st.Prefs
	if p.ViewMode, err = readKey(ctx, r, store.KeyViewPreference, p.ViewMode); err != nil {
		return st, err
	}
	if p.CompactView, err = readKey(ctx, r, store.KeyCompactView, p.CompactView); err != nil {
		return st, err
	}
	if p.BoardViewType, err = readKey(ctx, r, store.KeyBoardViewType, p.BoardViewType); err != nil {
		return st, err
	}
	if p.Sort, err = readKey(ctx, r, store.KeySortPreference, p.Sort); err != nil {
		return st, err
	}
	if p.CollapsedColumns, err = readKey(ctx, r, store.KeyCollapsedColumns, p.CollapsedColumns); err != nil {
		return st, err
	}

	normalize(&st)
	return st, nil
}

// readKey returns the stored value or def. Undecodable values fall back to
// def with a warning; any other store error is returned.
func readKey[T any](ctx context.Context, r *StoreRepo, key string, def T) (T, error) {
	v, err := store.GetOr(ctx, r.store, key, def)
	if err == nil {
		return v, nil
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		r.log.Warn("discarding unreadable stored value", "key", key, "err", err)
		return def, nil
	}
	return def, err
}

// normalize restores the invariants a hand-edited or partial store may break.
func normalize(st *model.State) {
	if st.Tasks == nil {
		st.Tasks = []model.Task{}
	}
	if st.Lists == nil {
		st.Lists = []model.CustomList{}
	}
	if len(st.Columns) == 0 {
		st.Columns = model.DefaultColumns()
	}
	if len(st.Categories) == 0 {
		st.Categories = model.DefaultCategories()
	}
	if st.Templates == nil {
		st.Templates = []model.TaskTemplate{}
	}
	if st.Notifications == nil {
		st.Notifications = []model.Notification{}
	}
	if len(st.Notifications) > model.MaxNotifications {
		st.Notifications = st.Notifications[:model.MaxNotifications]
	}

	def := model.DefaultPreferences()
	if !st.Prefs.ViewMode.Valid() {
		st.Prefs.ViewMode = def.ViewMode
	}
	if !st.Prefs.BoardViewType.Valid() {
		st.Prefs.BoardViewType = def.BoardViewType
	}
	if !st.Prefs.Sort.SortBy.Valid() || !st.Prefs.Sort.SortOrder.Valid() {
		st.Prefs.Sort = def.Sort
	}
	if st.Prefs.CollapsedColumns == nil {
		st.Prefs.CollapsedColumns = []model.ColumnID{}
	}
	st.Selection = model.Selection{TaskIDs: []model.TaskID{}}
}
