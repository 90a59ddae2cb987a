// Package server keeps a self-describing index of the HTTP routes.
package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

type RouteDoc struct {
	Method      string `json:"method"`
	Pattern     string `json:"pattern"`
	Summary     string `json:"summary,omitempty"`
	ExampleBody string `json:"example_body,omitempty"`
}

type RouteRegistry struct {
	routes []RouteDoc
}

func (rr *RouteRegistry) Add(doc RouteDoc) {
	rr.routes = append(rr.routes, doc)
}

// List returns the registered routes ordered by pattern, then method.
func (rr *RouteRegistry) List() []RouteDoc {
	out := make([]RouteDoc, len(rr.routes))
	copy(out, rr.routes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Handle registers h on mux under "METHOD /pattern" and records it.
func Handle(mux *http.ServeMux, rr *RouteRegistry, methodAndPattern, summary, exampleBody string, h http.HandlerFunc) {
	method, pattern, ok := strings.Cut(methodAndPattern, " ")
	if !ok {
		method, pattern = "", methodAndPattern
	}
	rr.Add(RouteDoc{Method: method, Pattern: pattern, Summary: summary, ExampleBody: exampleBody})
	mux.HandleFunc(methodAndPattern, h)
}

// RegisterIndex serves the registry itself at GET /api/routes.
func RegisterIndex(mux *http.ServeMux, rr *RouteRegistry) {
	Handle(mux, rr, "GET /api/routes", "List HTTP routes", "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(rr.List())
	})
}
