package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_RegistersAndRecords(t *testing.T) {
	mux := http.NewServeMux()
	var rr RouteRegistry

	Handle(mux, &rr, "POST /api/board/cmd", "Run a board command", `{"cmd":"task.create"}`, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	Handle(mux, &rr, "GET /api/board/state", "Full state", "", func(w http.ResponseWriter, r *http.Request) {})
	RegisterIndex(mux, &rr)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/board/cmd", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/routes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var docs []RouteDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 3)
	assert.Equal(t, RouteDoc{Method: "POST", Pattern: "/api/board/cmd", Summary: "Run a board command", ExampleBody: `{"cmd":"task.create"}`}, docs[0])
	assert.Equal(t, "/api/board/state", docs[1].Pattern)
	assert.Equal(t, "/api/routes", docs[2].Pattern)
}

func TestList_ReturnsCopy(t *testing.T) {
	var rr RouteRegistry
	rr.Add(RouteDoc{Method: "GET", Pattern: "/a"})

	got := rr.List()
	got[0].Pattern = "/mutated"
	assert.Equal(t, "/a", rr.List()[0].Pattern)
}
