package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

const indexFile = "index.html"

// StaticHandler serves the single-page frontend.
// Paths that do not name an asset get the entry document so the client
// can route them (e.g. /manual).
type StaticHandler struct {
	files  fs.FS
	logger *slog.Logger
}

// NewStaticHandler creates a StaticHandler over files, whose root must hold index.html.
func NewStaticHandler(files fs.FS, logger *slog.Logger) *StaticHandler {
	return &StaticHandler{
		files:  files,
		logger: logger,
	}
}

// ServeHTTP handles GET /*.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")

	if name != "" && name != indexFile {
		info, err := fs.Stat(h.files, name)
		if err == nil && !info.IsDir() {
			http.ServeFileFS(w, r, h.files, name)
			return
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			h.logger.Warn("static asset lookup failed",
				slog.String("path", name),
				slog.String("error", err.Error()),
			)
		}
	}

	h.serveIndex(w, r)
}

func (h *StaticHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.files, indexFile)
	if err != nil {
		h.logger.Error("entry document missing", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Frontend not available")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}
