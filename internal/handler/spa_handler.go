package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"rsvp-relay/internal/container"
	"rsvp-relay/pkg/errors"
	"rsvp-relay/pkg/logger"
)

const (
	staticCacheControl = "public, max-age=3600"
	indexFile          = "index.html"
)

// Fallback failure messages
const (
	MsgAPIRouteNotFound = "API route not found"
	MsgRouteNotFound    = "Route not found"
	MsgFrontendMissing  = "Frontend build not found. Run npm run build before starting the server."
)

// SPAHandler serves the built frontend. Unknown paths get index.html so the
// client router can take over.
type SPAHandler struct {
	distDir string
	root    http.Dir
	logger  *logger.Logger
}

// NewSPAHandler creates a handler for the configured dist directory
func NewSPAHandler(container *container.Container) *SPAHandler {
	distDir := container.GetConfig().DistDir
	return &SPAHandler{
		distDir: distDir,
		root:    http.Dir(distDir),
		logger:  container.GetLogger(),
	}
}

// ServeHTTP handles every route not claimed by the API
func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		respondJSON(w, http.StatusNotFound, errors.NewNotFoundError(MsgRouteNotFound).Response())
		return
	}

	if h.serveStatic(w, r) {
		return
	}

	f, err := os.Open(filepath.Join(h.distDir, indexFile))
	if err != nil {
		h.logger.WithField("dist_dir", h.distDir).Warn("Frontend build missing")
		respondJSON(w, http.StatusServiceUnavailable, errors.NewUnavailableError(MsgFrontendMissing).Response())
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		respondJSON(w, http.StatusServiceUnavailable, errors.NewUnavailableError(MsgFrontendMissing).Response())
		return
	}

	http.ServeContent(w, r, indexFile, info.ModTime(), f)
}

// serveStatic serves a regular file from the dist directory. Directories are
// never listed or indexed.
func (h *SPAHandler) serveStatic(w http.ResponseWriter, r *http.Request) bool {
	name := path.Clean("/" + r.URL.Path)
	if name == "/" {
		return false
	}

	f, err := h.root.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	w.Header().Set("Cache-Control", staticCacheControl)
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}

// APINotFound answers unknown API paths and methods
func APINotFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, errors.NewNotFoundError(MsgAPIRouteNotFound).Response())
}
