package httpapi

import (
	"net/http"

	"kaizen-backend-go/internal/services"
)

type CommentRequest struct {
	Content string `json:"content"`
	UserID  *int64 `json:"userId"`
}

func (s *Server) ToggleLike(w http.ResponseWriter, r *http.Request) {
	caseID, ok := pathID(r, "caseId")
	if !ok {
		WriteError(w, http.StatusNotFound, "Case not found")
		return
	}
	if err := parseParams(r); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	userID, hasUser, err := actingUserID(r, r.FormValue("userId"))
	if err != nil || !hasUser {
		WriteError(w, http.StatusBadRequest, "userId is required")
		return
	}
	count, err := services.ToggleLike(r.Context(), s.DB, caseID, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, LikeResponse{LikeCount: count})
}

func (s *Server) ListComments(w http.ResponseWriter, r *http.Request) {
	caseID, ok := pathID(r, "caseId")
	if !ok {
		WriteJSON(w, http.StatusOK, []CommentDTO{})
		return
	}
	items, err := services.ListComments(r.Context(), s.DB, caseID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]CommentDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toCommentDTO(item))
	}
	WriteJSON(w, http.StatusOK, out)
}

// AddComment reads {content, userId} from a JSON body or from form fields.
func (s *Server) AddComment(w http.ResponseWriter, r *http.Request) {
	caseID, ok := pathID(r, "caseId")
	if !ok {
		WriteError(w, http.StatusNotFound, "Case not found")
		return
	}
	var req CommentRequest
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
		req.Content = r.FormValue("content")
		if req.UserID, ok = optionalInt64(r.FormValue("userId")); !ok {
			WriteError(w, http.StatusBadRequest, "Invalid userId")
			return
		}
	}
	if req.UserID == nil {
		if id, ok := CurrentUserID(r); ok {
			req.UserID = &id
		}
	}
	if req.UserID == nil {
		WriteError(w, http.StatusBadRequest, "userId is required")
		return
	}
	comment, err := services.AddComment(r.Context(), s.DB, caseID, *req.UserID, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toCommentDTO(comment))
}
