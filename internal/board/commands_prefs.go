package board

import (
	"fmt"

	"taskboard/internal/model"
)

// prefs.set_view_mode { viewMode }
func (e *Engine) cmdPrefsSetViewMode(st model.State, args map[string]any) (Result, error) {
	s, err := getText(args, "viewMode")
	if err != nil {
		return Result{}, err
	}
	mode := model.ViewMode(s)
	if !mode.Valid() {
		return Result{}, invalid("unknown view mode %q", s)
	}
	st.Prefs.ViewMode = mode
	return Result{State: st, Patch: st.Prefs}, nil
}

// prefs.set_sort { sortBy, sortOrder? }
func (e *Engine) cmdPrefsSetSort(st model.State, args map[string]any) (Result, error) {
	by, err := getText(args, "sortBy")
	if err != nil {
		return Result{}, err
	}
	order, err := getStringOr(args, "sortOrder")
	if err != nil {
		return Result{}, err
	}
	pref := model.SortPreference{SortBy: model.SortBy(by), SortOrder: model.SortOrder(order)}
	if pref.SortOrder == "" {
		pref.SortOrder = model.SortAsc
	}
	if !pref.SortBy.Valid() {
		return Result{}, invalid("unknown sortBy %q", by)
	}
	if !pref.SortOrder.Valid() {
		return Result{}, invalid("unknown sortOrder %q", order)
	}
	st.Prefs.Sort = pref
	return Result{State: st, Patch: st.Prefs}, nil
}

// prefs.set_compact { compact? } sets the flag, or flips it when absent.
func (e *Engine) cmdPrefsSetCompact(st model.State, args map[string]any) (Result, error) {
	v, err := getBoolPtr(args, "compact")
	if err != nil {
		return Result{}, err
	}
	if v == nil {
		st.Prefs.CompactView = !st.Prefs.CompactView
	} else {
		st.Prefs.CompactView = *v
	}
	return Result{State: st, Patch: st.Prefs}, nil
}

// prefs.set_board_view { boardViewType }
func (e *Engine) cmdPrefsSetBoardView(st model.State, args map[string]any) (Result, error) {
	s, err := getText(args, "boardViewType")
	if err != nil {
		return Result{}, err
	}
	bv := model.BoardViewType(s)
	if !bv.Valid() {
		return Result{}, invalid("unknown board view %q", s)
	}
	st.Prefs.BoardViewType = bv
	return Result{State: st, Patch: st.Prefs}, nil
}

// notifications.mark_read { id }
func (e *Engine) cmdNotificationsMarkRead(st model.State, args map[string]any) (Result, error) {
	id, err := getText(args, "id")
	if err != nil {
		return Result{}, err
	}
	for i := range st.Notifications {
		if st.Notifications[i].ID == id {
			st.Notifications[i].Unread = false
			return Result{State: st, Affected: 1}, nil
		}
	}
	return Result{}, fmt.Errorf("%w: %s", ErrNotificationNotFound, id)
}

// notifications.mark_all_read {}
func (e *Engine) cmdNotificationsMarkAllRead(st model.State, _ map[string]any) (Result, error) {
	n := 0
	for i := range st.Notifications {
		if st.Notifications[i].Unread {
			st.Notifications[i].Unread = false
			n++
		}
	}
	return Result{State: st, Affected: n}, nil
}

// notifications.clear {}
func (e *Engine) cmdNotificationsClear(st model.State, _ map[string]any) (Result, error) {
	n := len(st.Notifications)
	st.Notifications = []model.Notification{}
	return Result{State: st, Affected: n}, nil
}
