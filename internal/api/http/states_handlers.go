package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/creditmap/internal/dashboard"
)

// GET /api/states
func ListStatesHandler(b *dashboard.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := b.States()
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		report, _ := b.Report()
		writeJSON(w, http.StatusOK, map[string]any{
			"states":  recs,
			"invalid": report.Invalid,
		})
	}
}

// GET /api/states/{name}
func GetStateHandler(b *dashboard.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		rec, ok := b.State(name)
		if !ok {
			writeError(w, http.StatusNotFound, "no record for "+name)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}
