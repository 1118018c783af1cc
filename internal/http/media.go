package httpapi

import (
	"net/http"
	"os"

	"kaizen-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

// ServeUpload streams a stored case image inline.
func (s *Server) ServeUpload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	path, err := s.Uploads.Resolve(filename)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	file, err := os.Open(path)
	if err != nil {
		WriteError(w, http.StatusNotFound, "File not found")
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil || info.IsDir() {
		WriteError(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", services.ContentTypeFor(filename))
	w.Header().Set("Content-Disposition", "inline; filename=\""+filename+"\"")
	http.ServeContent(w, r, filename, info.ModTime(), file)
}
