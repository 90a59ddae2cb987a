package weather

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

type Handler struct {
	client *Client
	log    *slog.Logger
}

func NewHandler(client *Client, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{client: client, log: log}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseCoord(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// GET /api/weather?lat=&lng=
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	lat, okLat := parseCoord(r.URL.Query().Get("lat"))
	lng, okLng := parseCoord(r.URL.Query().Get("lng"))
	if !okLat || !okLng {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Latitude and longitude are required"})
		return
	}

	report, err := h.client.Report(r.Context(), lat, lng)
	if err != nil {
		h.log.Error("weather fetch failed", "lat", lat, "lng", lng, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to fetch weather data"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}
