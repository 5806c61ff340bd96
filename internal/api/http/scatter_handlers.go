package http

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/mind-engage/creditmap/internal/dashboard"
	"github.com/mind-engage/creditmap/internal/samples"
)

// POST /api/scatter/generate
func GenerateScatterHandler(b *dashboard.Board, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pts, err := b.GenerateScatter(r.Context())
		if err != nil {
			log.Warn("generate scatter", zap.Error(err))
			writeError(w, http.StatusBadGateway, "sample service unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"count": len(pts), "points": pts})
	}
}

// GET /api/samples?n=200 in the sample service's wire format.
func SamplesHandler(store *samples.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := store.BatchSize
		if s := r.URL.Query().Get("n"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v <= 0 || v > 5000 {
				writeError(w, http.StatusBadRequest, "n must be in 1..5000")
				return
			}
			n = v
		}
		pts, err := store.Random(r.Context(), n)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]samples.Wire, len(pts))
		for i, p := range pts {
			out[i] = p.Wire()
		}
		writeJSON(w, http.StatusOK, out)
	}
}
