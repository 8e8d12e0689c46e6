package api

import (
	"encoding/json"
	"net/http"

	"slotswapper/internal/db"
	"slotswapper/internal/entities"
	"slotswapper/internal/service"
)

type AuthHandler struct {
	Service service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.Service.Register(req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse(user, token))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.Service.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse(user, token))
}

func authResponse(user *db.User, token string) AuthResponse {
	return AuthResponse{
		Token: token,
		User: entities.OwnerDisplay{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}
}
