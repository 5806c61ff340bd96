package http

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mind-engage/creditmap/internal/auth"
	"github.com/mind-engage/creditmap/internal/dashboard"
	"github.com/mind-engage/creditmap/internal/export"
	"github.com/mind-engage/creditmap/internal/history"
	"github.com/mind-engage/creditmap/internal/samples"
	"github.com/mind-engage/creditmap/internal/storage"
)

// POST /admin/reload
func ReloadHandler(b *dashboard.Board, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("dataset reload requested", zap.String("subject", auth.Subject(r.Context())))
		if err := b.Load(r.Context()); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		report, _ := b.Report()
		writeJSON(w, http.StatusOK, map[string]any{"rows": report.Rows, "invalid": len(report.Invalid)})
	}
}

// GET /admin/predictions?kind=loan&limit=50
func ListPredictionsHandler(repo *history.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := history.Kind(r.URL.Query().Get("kind"))
		if kind != "" && kind != history.KindLoan && kind != history.KindCredit {
			writeError(w, http.StatusBadRequest, "kind must be loan or credit")
			return
		}
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		recs, err := repo.List(r.Context(), kind, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if recs == nil {
			recs = []history.Record{}
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

// POST /admin/snapshots
func SnapshotHandler(b *dashboard.Board, bs storage.BlobStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := b.Snapshot(bs, time.Now())
		if err != nil {
			log.Error("snapshot", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		log.Info("snapshot stored",
			zap.String("subject", auth.Subject(r.Context())),
			zap.Int("files", len(infos)))
		writeJSON(w, http.StatusCreated, infos)
	}
}

// GET /admin/snapshots
func ListSnapshotsHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := bs.List("snapshots/")
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if infos == nil {
			infos = []storage.Info{}
		}
		writeJSON(w, http.StatusOK, infos)
	}
}

// GET /admin/export/{dataset}.parquet for states, samples or predictions.
func ExportHandler(b *dashboard.Board, store *samples.Store, repo *history.Repo, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "dataset")
		var write func(io.Writer) error
		switch name {
		case "states":
			recs, err := b.States()
			if err != nil {
				writeError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
			write = func(w io.Writer) error { return export.WriteStates(w, recs) }
		case "samples":
			if store == nil {
				writeError(w, http.StatusNotFound, "samples store not configured")
				return
			}
			pts, err := store.All(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			write = func(w io.Writer) error { return export.WriteSamples(w, pts) }
		case "predictions":
			if repo == nil {
				writeError(w, http.StatusNotFound, "prediction history not configured")
				return
			}
			recs, err := repo.List(r.Context(), "", 1000)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			write = func(w io.Writer) error { return export.WritePredictions(w, recs) }
		default:
			writeError(w, http.StatusNotFound, "unknown dataset "+strconv.Quote(name))
			return
		}
		w.Header().Set("Content-Type", "application/vnd.apache.parquet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.parquet"`)
		if err := write(w); err != nil {
			log.Error("parquet export", zap.String("dataset", name), zap.Error(err))
		}
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
