package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ca27people/backend/internal/httputil"
	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/service"
)

// MediaHandler handles object-storage endpoints that are not tied to a
// specific resource.
type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

type presignThumbnailRequest struct {
	ContentType string `json:"content_type"`
}

// PresignThumbnail handles POST /api/media/thumbnail-upload. The client PUTs
// the file straight to storage with the returned URL, keeping large bodies
// off the API server.
func (h *MediaHandler) PresignThumbnail(w http.ResponseWriter, r *http.Request) {
	var req presignThumbnailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	result, err := h.mediaService.PresignThumbnailUpload(r.Context(), req.ContentType)
	if err != nil {
		if errors.Is(err, model.ErrInvalidImageType) {
			httputil.WriteBadRequest(w, "Thumbnail must be a JPEG, PNG, WebP or GIF image")
			return
		}
		log.Printf("[MediaHandler] Presign failed: %v", err)
		httputil.WriteInternalError(w, "Failed to presign upload")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
