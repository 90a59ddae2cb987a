package board

import (
	"fmt"
	"net/http"

	"taskboard/internal/clock"
	"taskboard/internal/exchange"
	"taskboard/internal/model"
	"taskboard/internal/view"
)

func attachment(w http.ResponseWriter, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}

// GET /api/export.json
func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, func(st model.State) {
		now := h.clock.Now()
		attachment(w, "application/json; charset=utf-8", "tasks-export-"+clock.Today(now)+".json")
		if err := exchange.WriteJSON(w, exchange.NewBundle(st, now)); err != nil {
			h.log.Error("write json export", "err", err)
		}
	})
}

// GET /api/export.csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, func(st model.State) {
		attachment(w, "text/csv; charset=utf-8", "tasks-export-"+clock.Today(h.clock.Now())+".csv")
		if err := exchange.WriteCSV(w, st.Tasks); err != nil {
			h.log.Error("write csv export", "err", err)
		}
	})
}

// POST /api/import replaces the task collection.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	tasks, err := exchange.ParseImport(r.Body)
	if err != nil {
		h.log.Info("import rejected", "err", err)
		writeErr(w, http.StatusBadRequest, "Failed to import tasks")
		return
	}

	h.withState(w, r, func(st model.State) {
		res, err := h.engine.Execute(st, "tasks.replace", map[string]any{"tasks": tasks})
		if err != nil {
			h.log.Info("import rejected", "err", err)
			writeErr(w, http.StatusBadRequest, "Failed to import tasks")
			return
		}
		_ = h.repo.Save(r.Context(), res.State)
		writeJSON(w, http.StatusOK, CommandResponse{
			OK:           true,
			Affected:     res.Affected,
			Notification: res.Notification,
		})
	})
}

// GET /api/calendar.ics exports every open dated task.
func (h *Handler) CalendarICS(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, func(st model.State) {
		tasks := view.FilterTasks(st.Tasks, view.Filter{ViewMode: model.ViewCalendar})
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		_, _ = w.Write([]byte(exchange.BuildCalendarICS(tasks, h.clock.Now())))
	})
}

// GET /api/tasks/{id}/calendar.ics
func (h *Handler) TaskCalendarICS(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))
	h.withState(w, r, func(st model.State) {
		t, ok := st.FindTask(id)
		if !ok {
			writeErr(w, http.StatusNotFound, ErrTaskNotFound.Error())
			return
		}
		ics, err := exchange.BuildTaskCalendarICS(t, h.clock.Now())
		if err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		attachment(w, "text/calendar; charset=utf-8", "task-"+string(t.ID)+".ics")
		_, _ = w.Write([]byte(ics))
	})
}
