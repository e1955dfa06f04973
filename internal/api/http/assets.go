package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/examdesk/internal/storage"
)

// MountAssets serves stored blobs: GET /assets/{bucket}/*
func MountAssets(r chi.Router, bs storage.BlobStore) {
	r.Get("/{bucket}/*", func(w http.ResponseWriter, r *http.Request) {
		bucket := chi.URLParam(r, "bucket")
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if key == "" {
			http.NotFound(w, r)
			return
		}
		rc, err := bs.Get(r.Context(), bucket, key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = io.Copy(w, rc)
	})
}
