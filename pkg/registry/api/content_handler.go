package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/registrylabs/content-registry/pkg/registry"
	"github.com/registrylabs/content-registry/pkg/registry/auth"
)

// ContentHandler handles HTTP requests for content items
type ContentHandler struct {
	service  registry.Service
	tokens   *auth.TokenService
	uploader *uploader
}

// NewContentHandler creates a new content handler
func NewContentHandler(service registry.Service, tokens *auth.TokenService, store registry.BlobStore, maxUploadBytes int64) *ContentHandler {
	return &ContentHandler{
		service:  service,
		tokens:   tokens,
		uploader: newUploader(store, nil, maxUploadBytes),
	}
}

// Routes returns the routes for content
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public reads
	r.Get("/user/{userID}", h.ListByUser)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.tokens))
		r.Post("/", h.Create)
		r.Get("/my-content", h.ListMine)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	// Static routes above win over the wildcard.
	r.Get("/{id}", h.Get)

	return r
}

// ContentResponse is the envelope for a single content item
type ContentResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ContentListResponse is the envelope for content listings
type ContentListResponse struct {
	Success bool                `json:"success"`
	Count   int                 `json:"count"`
	Data    []*registry.Content `json:"data"`
}

// createFields is the JSON shape for creating content without a file
type createFields struct {
	Title   string `json:"title"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Create creates a content item. File posts arrive as multipart/form-data
// with the file under "file"; text posts may use either multipart fields
// or a JSON body.
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := AuthenticatedUserID(r.Context())
	if !ok {
		writeErrorMessage(w, r, http.StatusUnauthorized, "Not authorized to access this route. No token provided.")
		return
	}

	var fields createFields
	var blob *registry.BlobDescriptor

	if isMultipart(r) {
		if err := h.uploader.parseMultipart(w, r); err != nil {
			writeError(w, r, err)
			return
		}
		fields.Title = r.FormValue("title")
		fields.Type = r.FormValue("type")
		fields.Content = r.FormValue("content")

		var err error
		blob, err = h.uploader.readUpload(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			writeErrorMessage(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	content, err := h.service.CreateContent(r.Context(), registry.CreateContentRequest{
		OwnerID: userID,
		Title:   fields.Title,
		Type:    registry.ContentType(fields.Type),
		Body:    fields.Content,
		Blob:    blob,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ContentResponse{Success: true, Data: content})
}

// Get returns a content item with its owner attached
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		// Malformed ids can't name anything, same outcome as a miss.
		writeErrorMessage(w, r, http.StatusNotFound, "Content not found")
		return
	}

	content, err := h.service.GetContentWithOwner(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, ContentResponse{Success: true, Data: content})
}

// ListByUser returns all content owned by the given user, newest first
func (h *ContentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeErrorMessage(w, r, http.StatusNotFound, "User not found")
		return
	}

	contents, err := h.service.ListContentByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, ContentListResponse{Success: true, Count: len(contents), Data: contents})
}

// ListMine returns the authenticated user's content, newest first
func (h *ContentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := AuthenticatedUserID(r.Context())
	if !ok {
		writeErrorMessage(w, r, http.StatusUnauthorized, "Not authorized to access this route. No token provided.")
		return
	}

	contents, err := h.service.ListContentByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, ContentListResponse{Success: true, Count: len(contents), Data: contents})
}

// updateFields is the JSON shape for updating content. Pointer fields
// distinguish "absent" from "set to empty".
type updateFields struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Update applies a partial update to a content item the caller owns
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := AuthenticatedUserID(r.Context())
	if !ok {
		writeErrorMessage(w, r, http.StatusUnauthorized, "Not authorized to access this route. No token provided.")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorMessage(w, r, http.StatusNotFound, "Content not found")
		return
	}

	var fields updateFields
	var blob *registry.BlobDescriptor

	if isMultipart(r) {
		if err := h.uploader.parseMultipart(w, r); err != nil {
			writeError(w, r, err)
			return
		}
		// Field presence in the form, not emptiness, decides what changes.
		if values, present := r.MultipartForm.Value["title"]; present && len(values) > 0 {
			fields.Title = &values[0]
		}
		if values, present := r.MultipartForm.Value["content"]; present && len(values) > 0 {
			fields.Content = &values[0]
		}

		blob, err = h.uploader.readUpload(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			writeErrorMessage(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	content, err := h.service.UpdateContent(r.Context(), registry.UpdateContentRequest{
		ID:          id,
		RequesterID: userID,
		Title:       fields.Title,
		Body:        fields.Content,
		Blob:        blob,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, ContentResponse{Success: true, Message: "Content updated successfully", Data: content})
}

// Delete removes a content item the caller owns
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := AuthenticatedUserID(r.Context())
	if !ok {
		writeErrorMessage(w, r, http.StatusUnauthorized, "Not authorized to access this route. No token provided.")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorMessage(w, r, http.StatusNotFound, "Content not found")
		return
	}

	if err := h.service.DeleteContent(r.Context(), id, userID); err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, ContentResponse{Success: true, Message: "Content deleted successfully"})
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
