// Package board holds the named mutation commands over the board state,
// the repository persisting it and the HTTP handler serving both.
package board

import (
	"errors"
	"fmt"
	"time"

	"taskboard/internal/clock"
	"taskboard/internal/model"
)

// Result is the outcome of a command. State never aliases the input state.
type Result struct {
	State        model.State
	Notification *model.Notification
	Affected     int
	Patch        any
}

// Engine executes board commands. It is stateless apart from its clock.
type Engine struct {
	clock clock.Clock
}

func NewEngine(c clock.Clock) *Engine {
	if c == nil {
		c = clock.Real{}
	}
	return &Engine{clock: c}
}

func (e *Engine) now() time.Time { return e.clock.Now() }

// Execute runs cmd against st. On success the command's notification, if
// any, is pushed onto the activity log of the returned state. Rejections
// (ErrLastColumn, ErrLastCategory) return the untouched state together with
// an error notification that is not logged.
func (e *Engine) Execute(st model.State, cmd string, args map[string]any) (Result, error) {
	if args == nil {
		args = map[string]any{}
	}
	res, err := e.executeCommand(st.Clone(), cmd, args)
	if err != nil {
		out := Result{State: st}
		if errors.Is(err, ErrLastColumn) || errors.Is(err, ErrLastCategory) {
			out.Notification = res.Notification
		}
		return out, err
	}
	if res.Notification != nil {
		res.State.Notifications = model.PushNotification(res.State.Notifications, *res.Notification)
	}
	return res, nil
}

// executeCommand dispatches the command to the appropriate handler. Handlers
// receive a deep copy they are free to mutate.
func (e *Engine) executeCommand(st model.State, cmd string, args map[string]any) (Result, error) {
	switch cmd {
	case "task.create":
		return e.cmdTaskCreate(st, args)
	case "task.create_from_template":
		return e.cmdTaskCreateFromTemplate(st, args)
	case "task.update":
		return e.cmdTaskUpdate(st, args)
	case "task.delete":
		return e.cmdTaskDelete(st, args)
	case "task.restore":
		return e.cmdTaskRestore(st, args)
	case "task.delete_permanent":
		return e.cmdTaskDeletePermanent(st, args)
	case "trash.empty":
		return e.cmdTrashEmpty(st, args)
	case "task.toggle_archive":
		return e.cmdTaskToggleArchive(st, args)
	case "task.toggle_favorite":
		return e.cmdTaskToggleFavorite(st, args)
	case "task.toggle_pin":
		return e.cmdTaskTogglePin(st, args)
	case "task.toggle_complete":
		return e.cmdTaskToggleComplete(st, args)
	case "task.move_status":
		return e.cmdTaskMoveStatus(st, args)
	case "task.move_list":
		return e.cmdTaskMoveList(st, args)
	case "task.duplicate":
		return e.cmdTaskDuplicate(st, args)
	case "task.add_tag":
		return e.cmdTaskAddTag(st, args)
	case "task.remove_tag":
		return e.cmdTaskRemoveTag(st, args)
	case "tasks.replace":
		return e.cmdTasksReplace(st, args)
	case "subtask.add":
		return e.cmdSubtaskAdd(st, args)
	case "subtask.toggle":
		return e.cmdSubtaskToggle(st, args)
	case "subtask.delete":
		return e.cmdSubtaskDelete(st, args)
	case "column.create":
		return e.cmdColumnCreate(st, args)
	case "column.update":
		return e.cmdColumnUpdate(st, args)
	case "column.delete":
		return e.cmdColumnDelete(st, args)
	case "column.reorder":
		return e.cmdColumnReorder(st, args)
	case "column.merge":
		return e.cmdColumnMerge(st, args)
	case "column.move_to_list":
		return e.cmdColumnMoveToList(st, args)
	case "column.toggle_collapsed":
		return e.cmdColumnToggleCollapsed(st, args)
	case "category.create":
		return e.cmdCategoryCreate(st, args)
	case "category.update":
		return e.cmdCategoryUpdate(st, args)
	case "category.delete":
		return e.cmdCategoryDelete(st, args)
	case "list.create":
		return e.cmdListCreate(st, args)
	case "list.update":
		return e.cmdListUpdate(st, args)
	case "list.delete":
		return e.cmdListDelete(st, args)
	case "template.create":
		return e.cmdTemplateCreate(st, args)
	case "template.create_from_task":
		return e.cmdTemplateCreateFromTask(st, args)
	case "template.delete":
		return e.cmdTemplateDelete(st, args)
	case "bulk.delete":
		return e.cmdBulkDelete(st, args)
	case "bulk.archive":
		return e.cmdBulkArchive(st, args)
	case "bulk.favorite":
		return e.cmdBulkFavorite(st, args)
	case "bulk.move_status":
		return e.cmdBulkMoveStatus(st, args)
	case "bulk.move_list":
		return e.cmdBulkMoveList(st, args)
	case "selection.toggle_mode":
		return e.cmdSelectionToggleMode(st, args)
	case "selection.toggle":
		return e.cmdSelectionToggle(st, args)
	case "selection.select_all":
		return e.cmdSelectionSelectAll(st, args)
	case "selection.clear":
		return e.cmdSelectionClear(st, args)
	case "prefs.set_view_mode":
		return e.cmdPrefsSetViewMode(st, args)
	case "prefs.set_sort":
		return e.cmdPrefsSetSort(st, args)
	case "prefs.set_compact":
		return e.cmdPrefsSetCompact(st, args)
	case "prefs.set_board_view":
		return e.cmdPrefsSetBoardView(st, args)
	case "notifications.mark_read":
		return e.cmdNotificationsMarkRead(st, args)
	case "notifications.mark_all_read":
		return e.cmdNotificationsMarkAllRead(st, args)
	case "notifications.clear":
		return e.cmdNotificationsClear(st, args)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

// Commands lists every name executeCommand accepts.
var Commands = []string{
	"task.create", "task.create_from_template", "task.update", "task.delete",
	"task.restore", "task.delete_permanent", "trash.empty", "task.toggle_archive",
	"task.toggle_favorite", "task.toggle_pin", "task.toggle_complete",
	"task.move_status", "task.move_list", "task.duplicate", "task.add_tag",
	"task.remove_tag", "tasks.replace",
	"subtask.add", "subtask.toggle", "subtask.delete",
	"column.create", "column.update", "column.delete", "column.reorder",
	"column.merge", "column.move_to_list", "column.toggle_collapsed",
	"category.create", "category.update", "category.delete",
	"list.create", "list.update", "list.delete",
	"template.create", "template.create_from_task", "template.delete",
	"bulk.delete", "bulk.archive", "bulk.favorite", "bulk.move_status", "bulk.move_list",
	"selection.toggle_mode", "selection.toggle", "selection.select_all", "selection.clear",
	"prefs.set_view_mode", "prefs.set_sort", "prefs.set_compact", "prefs.set_board_view",
	"notifications.mark_read", "notifications.mark_all_read", "notifications.clear",
}

func (e *Engine) notify(typ model.NotificationType, title, message string) *model.Notification {
	n := model.NewNotification(typ, title, message, e.now())
	return &n
}

// ok wraps st with a success notification.
func (e *Engine) ok(st model.State, title, message string) Result {
	return Result{State: st, Notification: e.notify(model.NotifySuccess, title, message), Affected: 1}
}

// reject builds the result of an invariant violation.
func (e *Engine) reject(err error, title, message string) (Result, error) {
	return Result{Notification: e.notify(model.NotifyError, title, message)}, err
}
