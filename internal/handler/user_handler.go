package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-task-manager/internal/model"
	"go-task-manager/internal/service"
	"go-task-manager/pkg/apierror"
)

const maxAvatarSize = 10 << 20 // 10 MiB

type UserHandler struct {
	users *service.UserService
	media *service.MediaService
}

func NewUserHandler(users *service.UserService, media *service.MediaService) *UserHandler {
	return &UserHandler{users: users, media: media}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, users, nil)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	user, err := h.users.Update(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "user deleted successfully"}, nil)
}

// UploadAvatar replaces the user's avatar with a freshly uploaded image; the
// previous Cloudinary asset is removed.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		writeError(w, apierror.Unavailable("image hosting is not configured"))
		return
	}

	userID := chi.URLParam(r, "id")
	current, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeError(w, apierror.BadRequest("invalid multipart body", ""))
		return
	}

	_, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, apierror.BadRequest("file field is required", ""))
		return
	}

	uploaded, err := h.media.Upload(r.Context(), fileHeader, "avatars", current.Avatar)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.SetAvatar(r.Context(), userID, uploaded.URL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}
