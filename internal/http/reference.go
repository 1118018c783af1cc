package httpapi

import (
	"net/http"

	"kaizen-backend-go/internal/services"
)

func (s *Server) ListFactories(w http.ResponseWriter, r *http.Request) {
	items, err := services.ListFactories(r.Context(), s.DB)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) ListDepartments(w http.ResponseWriter, r *http.Request) {
	factoryID, ok := optionalInt64(r.URL.Query().Get("factoryId"))
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid factoryId")
		return
	}
	items, err := services.ListDepartments(r.Context(), s.DB, factoryID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}
