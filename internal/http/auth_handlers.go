package httpapi

import (
	"encoding/json"
	"net/http"

	"kaizen-backend-go/internal/models"
	"kaizen-backend-go/internal/services"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

type LoginResponse struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Email       *string `json:"email"`
	IsAdmin     bool    `json:"isAdmin"`
	AccessToken string  `json:"accessToken"`
	ExpiresAt   int64   `json:"expiresAt"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	user, err := services.RegisterUser(r.Context(), s.DB, s.Tokens, req.Username, req.Password, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, RegisterResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	user, err := services.AuthenticateUser(r.Context(), s.DB, s.Tokens, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	access, exp, err := s.Tokens.CreateAccessToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, loginResponse(user, access, exp))
}

func loginResponse(user models.User, access string, exp int64) LoginResponse {
	return LoginResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsAdmin:     user.IsAdmin,
		AccessToken: access,
		ExpiresAt:   exp,
	}
}
