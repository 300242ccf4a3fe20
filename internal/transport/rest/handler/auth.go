package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mindscreen/internal/model"
	"mindscreen/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(req.Username, req.Password)
	if errors.Is(err, service.ErrAuthDisabled) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeErrorDetails(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

// NotFound answers unknown routes with a JSON error.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeErrorDetails(w, http.StatusNotFound, "Endpoint not found", r.Method+" "+r.URL.Path)
}
