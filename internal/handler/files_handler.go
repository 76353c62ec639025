package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-task-manager/internal/model"
	"go-task-manager/internal/service"
	"go-task-manager/pkg/apierror"
)

const maxUploadSize = 20 << 20 // 20 MiB

// FilesHandler exposes the Cloudinary-backed image operations. When the
// media service is not configured every endpoint reports unavailable.
type FilesHandler struct {
	media *service.MediaService
}

func NewFilesHandler(media *service.MediaService) *FilesHandler {
	return &FilesHandler{media: media}
}

func (h *FilesHandler) available(w http.ResponseWriter) bool {
	if h.media == nil {
		writeError(w, apierror.Unavailable("image hosting is not configured"))
		return false
	}
	return true
}

func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, apierror.BadRequest("invalid multipart body", ""))
		return
	}

	_, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, apierror.BadRequest("file field is required", ""))
		return
	}

	folder := r.FormValue("folder")
	oldImageURL := r.FormValue("oldImageUrl")

	uploaded, err := h.media.Upload(r.Context(), fileHeader, folder, oldImageURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, uploaded, nil)
}

func (h *FilesHandler) UploadFromURL(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	defer r.Body.Close()

	var payload model.UploadFromURLRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	uploaded, err := h.media.UploadFromURL(r.Context(), payload.ImageURL, payload.PublicID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, uploaded, nil)
}

func (h *FilesHandler) OptimizedURL(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	url, err := h.media.OptimizedURL(chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"optimized_url": url}, nil)
}

func (h *FilesHandler) TransformedURL(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	width, err := strconv.Atoi(chi.URLParam(r, "width"))
	if err != nil {
		writeError(w, apierror.BadRequest("width must be an integer", ""))
		return
	}
	height, err := strconv.Atoi(chi.URLParam(r, "height"))
	if err != nil {
		writeError(w, apierror.BadRequest("height must be an integer", ""))
		return
	}

	url, err := h.media.TransformedURL(chi.URLParam(r, "*"), width, height)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"transformed_url": url}, nil)
}

func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	// Public IDs may contain slashes, hence the wildcard route parameter.
	if err := h.media.Delete(r.Context(), chi.URLParam(r, "*")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "image deleted successfully"}, nil)
}
