package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"sortir/internal/assets"
	"sortir/internal/logging"
	"sortir/internal/media"
)

// Scan lists the matching files of a folder, sorted.
//
//	GET /api/scan?folder=<abs>&ext=jpg,png&sort=name&order=asc
func (h *Handlers) Scan(w http.ResponseWriter, r *http.Request) {
	folder := r.URL.Query().Get("folder")
	if folder == "" {
		writeJSONError(w, "folder parameter is required", http.StatusBadRequest)
		return
	}
	if !filepath.IsAbs(folder) {
		writeJSONError(w, "folder must be an absolute path", http.StatusBadRequest)
		return
	}

	var exts []string
	if raw := r.URL.Query().Get("ext"); raw != "" {
		exts = strings.Split(raw, ",")
	}

	field := media.SortField(r.URL.Query().Get("sort"))
	if field == "" {
		field = media.SortByName
	}
	order := media.SortOrder(r.URL.Query().Get("order"))
	if order == "" {
		order = media.SortAsc
	}

	files := media.Scan(folder, exts, field, order)

	if h.watcher != nil {
		h.watcher.WatchFolder(folder)
	}
	if h.prewarmer != nil {
		h.prewarmer.Warm(folder, files)
	}

	writeJSON(w, map[string]interface{}{"files": files})
}

// renderResponse is the control-channel render result. Src is a data:
// URI, a video|<url> tagged streaming reference, or null when the
// source cannot be rendered.
type renderResponse struct {
	Src *string `json:"src"`
}

// Render produces a rendition reference for a single asset.
//
//	GET /api/render?path=<abs>&thumbnail=true
//
// Thumbnails come back inline as data URIs through the shared cache.
// Full-view requests return a data URI for images and a tagged
// streaming URL for videos, which are too large to round-trip through
// base64.
func (h *Handlers) Render(w http.ResponseWriter, r *http.Request) {
	path, ok := requireAbsPath(w, r)
	if !ok {
		return
	}

	thumbnail := r.URL.Query().Get("thumbnail") == "true"
	kind := assets.Classify(path)

	if thumbnail {
		data, err := h.cache.Get(path)
		if err != nil {
			logging.Warn("render: thumbnail failed for %s: %v", path, err)
			writeJSON(w, renderResponse{Src: nil})
			return
		}
		src := media.DataURI(data)
		writeJSON(w, renderResponse{Src: &src})
		return
	}

	if kind == assets.KindVideo {
		src := "video|" + h.streaming.ViewURL(path)
		writeJSON(w, renderResponse{Src: &src})
		return
	}

	data, err := h.renderer.Render(path, media.ProfilePreview)
	if err != nil {
		logging.Warn("render: preview failed for %s: %v", path, err)
		writeJSON(w, renderResponse{Src: nil})
		return
	}
	src := media.DataURI(data)
	writeJSON(w, renderResponse{Src: &src})
}

// Metadata returns the best-effort metadata record for an asset.
//
//	GET /api/metadata?path=<abs>
func (h *Handlers) Metadata(w http.ResponseWriter, r *http.Request) {
	path, ok := requireAbsPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, media.Describe(path))
}

// lifecycleRequest is the shared body shape of the move, delete, and
// restore commands.
type lifecycleRequest struct {
	Filename     string `json:"filename"`
	SourceFolder string `json:"sourceFolder"`
	DestFolder   string `json:"destFolder,omitempty"`
	Overwrite    bool   `json:"overwrite,omitempty"`
}

// lifecycleResponse is the {success, error?} result shape.
type lifecycleResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Move files an asset into a destination folder.
//
//	POST /api/move {"filename": ..., "sourceFolder": ..., "destFolder": ..., "overwrite": false}
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLifecycleRequest(w, r)
	if !ok {
		return
	}
	if req.DestFolder == "" {
		writeJSONError(w, "destFolder is required", http.StatusBadRequest)
		return
	}
	writeLifecycleResult(w, h.lifecycle.Move(req.Filename, req.SourceFolder, req.DestFolder, req.Overwrite))
}

// SoftDelete moves an asset to the source folder's trash area.
//
//	POST /api/delete {"filename": ..., "sourceFolder": ...}
func (h *Handlers) SoftDelete(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLifecycleRequest(w, r)
	if !ok {
		return
	}
	writeLifecycleResult(w, h.lifecycle.SoftDelete(req.Filename, req.SourceFolder))
}

// Restore moves an asset back out of the trash area.
//
//	POST /api/restore {"filename": ..., "sourceFolder": ...}
func (h *Handlers) Restore(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLifecycleRequest(w, r)
	if !ok {
		return
	}
	writeLifecycleResult(w, h.lifecycle.Restore(req.Filename, req.SourceFolder))
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// GetVersion reports the build version.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"version": h.version})
}

func decodeLifecycleRequest(w http.ResponseWriter, r *http.Request) (lifecycleRequest, bool) {
	var req lifecycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}
	if req.Filename == "" || req.SourceFolder == "" {
		writeJSONError(w, "filename and sourceFolder are required", http.StatusBadRequest)
		return req, false
	}
	// A filename carrying separators could escape the source folder.
	if req.Filename != filepath.Base(req.Filename) {
		writeJSONError(w, "filename must not contain path separators", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// writeLifecycleResult maps a pipeline error to the {success, error?}
// record. Lifecycle failures are results, not HTTP errors: the UI
// presents them as dialogs, and the listener stays healthy.
func writeLifecycleResult(w http.ResponseWriter, err error) {
	if err == nil {
		writeJSON(w, lifecycleResponse{Success: true})
		return
	}
	writeJSON(w, lifecycleResponse{Success: false, Error: err.Error()})
}

func requireAbsPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "path parameter is required", http.StatusBadRequest)
		return "", false
	}
	if !filepath.IsAbs(path) {
		writeJSONError(w, "path must be absolute", http.StatusBadRequest)
		return "", false
	}
	return filepath.Clean(path), true
}
