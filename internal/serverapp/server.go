// Package serverapp assembles the HTTP handler: storage, the board, the
// weather proxy, probes and middleware.
package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/clock"
	"taskboard/internal/config"
	"taskboard/internal/httpmw"
	"taskboard/internal/server"
	"taskboard/internal/store"
	"taskboard/internal/view"
	"taskboard/internal/weather"
)

type Options struct {
	Config *config.Config
	Clock  clock.Clock
	Logger *slog.Logger

	// Store overrides the file store rooted at Config.Storage.DataDir.
	Store store.Store
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := *opts.Config
	cfg.ApplyDefaults()
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Store == nil {
		fs, err := store.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, err
		}
		opts.Store = fs
	}

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "taskboard",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		var version int
		if _, err := opts.Store.Get(ctx, store.KeySchemaVersion, &version); err != nil {
			opts.Logger.Warn("readiness check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "task storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "taskboard",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	repo := board.NewStoreRepo(opts.Store, opts.Logger.With("component", "store"))
	boardHandler := board.NewHandler(repo, opts.Clock, view.NewSorter(cfg.Locale), opts.Logger.With("component", "board"))

	server.Handle(mux, rr, "GET /api/board/state", "Full board state", "", boardHandler.GetState)
	server.Handle(mux, rr, "POST /api/board/cmd", "Run a board command", `{"cmd":"task.create","args":{"title":"Write report","priority":"high"}}`, boardHandler.Command)
	server.Handle(mux, rr, "GET /api/board/view", "Filtered, sorted and grouped tasks", "", boardHandler.View)
	server.Handle(mux, rr, "GET /api/board/calendar", "Tasks by due date for a month", "", boardHandler.Calendar)
	server.Handle(mux, rr, "GET /api/board/analytics", "Completion analytics", "", boardHandler.Analytics)
	server.Handle(mux, rr, "GET /api/export.json", "Export bundle as JSON", "", boardHandler.ExportJSON)
	server.Handle(mux, rr, "GET /api/export.csv", "Export tasks as CSV", "", boardHandler.ExportCSV)
	server.Handle(mux, rr, "POST /api/import", "Replace tasks from an export bundle", `{"tasks":[]}`, boardHandler.Import)
	server.Handle(mux, rr, "GET /api/calendar.ics", "iCalendar feed of dated tasks", "", boardHandler.CalendarICS)
	server.Handle(mux, rr, "GET /api/tasks/{id}/calendar.ics", "iCalendar event for one task", "", boardHandler.TaskCalendarICS)

	weatherHandler := weather.NewHandler(weather.NewClient(weather.Config{
		ForecastURL: cfg.Weather.ForecastURL,
		GeocodeURL:  cfg.Weather.GeocodeURL,
		Timeout:     cfg.Weather.Timeout,
	}), opts.Logger.With("component", "weather"))
	server.Handle(mux, rr, "GET /api/weather", "Weather report for lat/lng", "", weatherHandler.Get)

	server.RegisterIndex(mux, rr)

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
