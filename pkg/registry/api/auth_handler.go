package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/registrylabs/content-registry/pkg/registry"
	"github.com/registrylabs/content-registry/pkg/registry/auth"
)

// AuthHandler handles registration, login, and the current-user lookup
type AuthHandler struct {
	service registry.Service
	tokens  *auth.TokenService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service registry.Service, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens}
}

// Routes returns the routes for authentication
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.tokens))
		r.Get("/me", h.Me)
	})

	return r
}

// RegisterRequest is the request body for registration
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse carries a fresh token alongside the user it belongs to
type SessionResponse struct {
	Success bool                 `json:"success"`
	Token   string               `json:"token"`
	User    *registry.PublicUser `json:"user"`
}

// Register creates a new user and logs them in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.RegisterUser(r.Context(), registry.RegisterUserRequest{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pub := user.Public()
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SessionResponse{Success: true, Token: token, User: &pub})
}

// Login authenticates a user by email and password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeErrorMessage(w, r, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pub := user.Public()
	render.JSON(w, r, SessionResponse{Success: true, Token: token, User: &pub})
}

// UserResponse is the envelope for a single user
type UserResponse struct {
	Success bool                 `json:"success"`
	Data    *registry.PublicUser `json:"data"`
}

// Me returns the authenticated user's record. The token can outlive the
// account, so a valid token with no backing user is a 404, not a 401.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := AuthenticatedUserID(r.Context())
	if !ok {
		writeErrorMessage(w, r, http.StatusUnauthorized, "Not authorized to access this route. No token provided.")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pub := user.Public()
	render.JSON(w, r, UserResponse{Success: true, Data: &pub})
}
