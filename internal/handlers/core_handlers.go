package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// HandleHealth responds with a fixed OK body
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// HandleStats serves the metrics snapshot
func (s *Server) HandleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, s.Metrics.Snapshot())
	}
}

// HandleClientApp is the catchall for unmatched routes: it serves the
// client build, falling back to index.html so client-side routing works.
func (s *Server) HandleClientApp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ClientDir == "" {
			s.respondJSON(w, http.StatusNotFound, errorResponse{Msg: "Not found"})
			return
		}

		// Reject path traversal before touching the filesystem.
		clean := filepath.Clean(r.URL.Path)
		if strings.Contains(clean, "..") {
			s.respondJSON(w, http.StatusNotFound, errorResponse{Msg: "Not found"})
			return
		}

		path := filepath.Join(s.ClientDir, clean)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}

		http.ServeFile(w, r, filepath.Join(s.ClientDir, "index.html"))
	}
}
