package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mind-engage/creditmap/internal/auth"
	"github.com/mind-engage/creditmap/internal/storage"
)

// MountAssets serves blobs read-only: GET /assets/<key>.
func MountAssets(r chi.Router, bs storage.BlobStore) {
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")        // everything after /assets/
		key = strings.TrimPrefix(key, "/") // normalize
		rc, err := bs.Get(key)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
				http.Error(w, "not found: "+key, http.StatusNotFound)
				return
			}
			http.Error(w, "read error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	})
}

// PUT /admin/datasets/<key>  (raw body, or multipart "file")
// Replaces a dataset blob; a reload picks it up.
func UploadDatasetHandler(bs storage.BlobStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		var body io.Reader = http.MaxBytesReader(w, r.Body, 64<<20)
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			f, _, err := r.FormFile("file")
			if err != nil {
				http.Error(w, "file required", http.StatusBadRequest)
				return
			}
			defer f.Close()
			body = f
		}
		k, err := bs.Put(key, body)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidKey) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		info, err := bs.Stat(k)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		log.Info("dataset uploaded",
			zap.String("subject", auth.Subject(r.Context())),
			zap.String("key", k),
			zap.Int64("size", info.Size))
		writeJSON(w, http.StatusCreated, info)
	}
}
