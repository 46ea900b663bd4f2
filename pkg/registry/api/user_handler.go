package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/registrylabs/content-registry/pkg/registry"
)

// UserHandler serves public user profiles
type UserHandler struct {
	service registry.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(service registry.Service) *UserHandler {
	return &UserHandler{service: service}
}

// Routes returns the routes for user profiles
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{username}", h.Profile)
	return r
}

// ProfileResponse is the envelope for a public profile
type ProfileResponse struct {
	Success  bool                `json:"success"`
	User     registry.PublicUser `json:"user"`
	Contents []*registry.Content `json:"contents"`
}

// Profile returns a user's public record and their content, newest first
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetUserProfile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, ProfileResponse{
		Success:  true,
		User:     profile.User,
		Contents: profile.Contents,
	})
}
