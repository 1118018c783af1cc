package httpapi

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"kaizen-backend-go/internal/services"
)

type UpdateCaseRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	FactoryID    *int64  `json:"factoryId"`
	DepartmentID *int64  `json:"departmentId"`
}

func (s *Server) ListCases(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	factoryID, ok := optionalInt64(query.Get("factoryId"))
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid factoryId")
		return
	}
	departmentID, ok := optionalInt64(query.Get("departmentId"))
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid departmentId")
		return
	}
	items, err := services.ListCases(r.Context(), s.DB, services.CaseFilter{
		FactoryID:    factoryID,
		DepartmentID: departmentID,
		Keyword:      query.Get("keyword"),
		SortBy:       query.Get("sortBy"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toCaseDTOs(items))
}

// GetCase returns the case and, when a viewer is known, counts the view first
// so the response already carries it.
func (s *Server) GetCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := pathID(r, "caseId")
	if !ok {
		WriteError(w, http.StatusNotFound, "Case not found")
		return
	}
	viewerID, hasViewer, err := actingUserID(r, r.URL.Query().Get("userId"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid userId")
		return
	}
	if hasViewer {
		if _, err := services.RecordView(r.Context(), s.DB, caseID, viewerID, services.Today(time.Now())); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	view, err := services.GetCase(r.Context(), s.DB, caseID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toCaseDTO(view))
}

func (s *Server) CreateCase(w http.ResponseWriter, r *http.Request) {
	limit := s.Config.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit*services.MaxImagesPerCase+maxFormMemory)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	factoryID, ok := requiredInt64(r, "factoryId")
	if !ok {
		WriteError(w, http.StatusBadRequest, "factoryId is required")
		return
	}
	departmentID, ok := requiredInt64(r, "departmentId")
	if !ok {
		WriteError(w, http.StatusBadRequest, "departmentId is required")
		return
	}
	userID, hasUser, err := actingUserID(r, r.FormValue("userId"))
	if err != nil || !hasUser {
		WriteError(w, http.StatusBadRequest, "userId is required")
		return
	}

	headers := r.MultipartForm.File["images"]
	images := make([]services.ImageUpload, 0, len(headers))
	for i, header := range headers {
		if i >= services.MaxImagesPerCase {
			break
		}
		if limit > 0 && header.Size > limit {
			WriteError(w, http.StatusBadRequest, "Image file is too large: "+header.Filename)
			return
		}
		images = append(images, imageUpload(header))
	}

	view, err := services.CreateCase(r.Context(), s.DB, s.Uploads, services.CreateCaseInput{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		FactoryID:    factoryID,
		DepartmentID: departmentID,
		UserID:       userID,
		Images:       images,
	})
	if err != nil {
		if services.IsStatus(err, http.StatusBadRequest) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, toCaseDTO(view))
}

func imageUpload(header *multipart.FileHeader) services.ImageUpload {
	return services.ImageUpload{
		Filename: header.Filename,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

func requiredInt64(r *http.Request, key string) (int64, bool) {
	value, ok := optionalInt64(r.FormValue(key))
	if !ok || value == nil {
		return 0, false
	}
	return *value, true
}

// UpdateCase accepts a JSON body or query/form parameters. Absent fields are
// left unchanged.
func (s *Server) UpdateCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := pathID(r, "caseId")
	if !ok {
		WriteError(w, http.StatusNotFound, "Case not found")
		return
	}
	var req UpdateCaseRequest
	if isJSON(r) {
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid payload")
			return
		}
	} else {
		if err := parseParams(r); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid payload")
			return
		}
		req.Title = optionalString(r, "title")
		req.Description = optionalString(r, "description")
		if req.FactoryID, ok = optionalInt64(r.FormValue("factoryId")); !ok {
			WriteError(w, http.StatusBadRequest, "Invalid factoryId")
			return
		}
		if req.DepartmentID, ok = optionalInt64(r.FormValue("departmentId")); !ok {
			WriteError(w, http.StatusBadRequest, "Invalid departmentId")
			return
		}
	}
	view, err := services.UpdateCase(r.Context(), s.DB, caseID, services.CaseUpdate{
		Title:        trimmed(req.Title),
		Description:  req.Description,
		FactoryID:    req.FactoryID,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toCaseDTO(view))
}

func (s *Server) DeleteCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := pathID(r, "caseId")
	if !ok {
		WriteError(w, http.StatusNotFound, "Case not found")
		return
	}
	if err := services.DeleteCase(r.Context(), s.DB, s.Uploads, caseID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	out := strings.TrimSpace(*value)
	return &out
}
