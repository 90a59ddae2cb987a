package board

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"taskboard/internal/clock"
	"taskboard/internal/model"
	"taskboard/internal/view"
)

// Handler handles board-related HTTP requests. Every request runs under one
// mutex so load, execute and save never interleave.
type Handler struct {
	mu     sync.Mutex
	repo   Repo
	engine *Engine
	sorter view.Sorter
	clock  clock.Clock
	log    *slog.Logger
}

// NewHandler creates a new board handler.
func NewHandler(repo Repo, c clock.Clock, sorter view.Sorter, log *slog.Logger) *Handler {
	if c == nil {
		c = clock.Real{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		repo:   repo,
		engine: NewEngine(c),
		sorter: sorter,
		clock:  c,
		log:    log,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

// withState loads the state under the handler lock and passes it to fn.
func (h *Handler) withState(w http.ResponseWriter, r *http.Request, fn func(model.State)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, err := h.repo.Load(r.Context())
	if err != nil {
		h.log.Error("load board state", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to load board")
		return
	}
	fn(st)
}

// GET /api/board/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, func(st model.State) {
		writeJSON(w, http.StatusOK, st)
	})
}

// CommandRequest is the request body for POST /api/board/cmd.
type CommandRequest struct {
	Cmd  string         `json:"cmd"`
	Args map[string]any `json:"args"`
}

// CommandResponse is the response for POST /api/board/cmd.
type CommandResponse struct {
	OK           bool                `json:"ok"`
	Result       any                 `json:"result,omitempty"`
	Affected     int                 `json:"affected"`
	Notification *model.Notification `json:"notification,omitempty"`
	Error        string              `json:"error,omitempty"`
}

// POST /api/board/cmd
func (h *Handler) Command(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Cmd = strings.TrimSpace(req.Cmd)

	h.withState(w, r, func(st model.State) {
		res, err := h.engine.Execute(st, req.Cmd, req.Args)
		if err != nil {
			h.log.Info("board command rejected", "cmd", req.Cmd, "err", err)
			writeJSON(w, StatusCode(err), CommandResponse{
				OK:           false,
				Notification: res.Notification,
				Error:        err.Error(),
			})
			return
		}

		_ = h.repo.Save(r.Context(), res.State)
		h.log.Debug("board command", "cmd", req.Cmd, "affected", res.Affected)

		writeJSON(w, http.StatusOK, CommandResponse{
			OK:           true,
			Result:       res.Patch,
			Affected:     res.Affected,
			Notification: res.Notification,
		})
	})
}

// queryFromRequest overlays the request's query parameters on the persisted
// view preferences.
func queryFromRequest(r *http.Request, prefs model.Preferences) (view.Query, error) {
	q := view.QueryFromPrefs(prefs)
	v := r.URL.Query()

	if s := v.Get("viewMode"); s != "" {
		q.ViewMode = model.ViewMode(s)
		if !q.ViewMode.Valid() {
			return q, errors.New("unknown viewMode")
		}
	}
	if s := v.Get("sortBy"); s != "" {
		q.SortBy = model.SortBy(s)
		if !q.SortBy.Valid() {
			return q, errors.New("unknown sortBy")
		}
	}
	if s := v.Get("sortOrder"); s != "" {
		q.SortOrder = model.SortOrder(s)
		if !q.SortOrder.Valid() {
			return q, errors.New("unknown sortOrder")
		}
	}
	if s := v.Get("priority"); s != "" {
		if s != view.PriorityAll && !model.Priority(s).Valid() {
			return q, errors.New("unknown priority")
		}
		q.Priority = s
	}
	q.ListID = model.ListID(v.Get("listId"))
	q.Category = model.CategoryID(v.Get("category"))
	q.Status = model.ColumnID(v.Get("status"))
	q.Search = v.Get("q")
	return q, nil
}

// GET /api/board/view
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, func(st model.State) {
		q, err := queryFromRequest(r, st.Prefs)
		if err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"query":       q,
			"preferences": st.Prefs,
			"board":       h.sorter.Compose(st, q, h.clock.Now()),
		})
	})
}

// GET /api/board/calendar?month=YYYY-MM
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = clock.Today(h.clock.Now())[:7]
	}
	month, err := view.ParseMonth(month)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	h.withState(w, r, func(st model.State) {
		q, err := queryFromRequest(r, st.Prefs)
		if err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"month": month,
			"days":  h.sorter.Calendar(st.Tasks, q.Filter, month),
		})
	})
}

// GET /api/board/analytics
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, func(st model.State) {
		writeJSON(w, http.StatusOK, view.ComputeAnalytics(st.Tasks, h.clock.Now()))
	})
}
