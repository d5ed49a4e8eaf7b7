package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ca27people/backend/internal/httputil"
	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/service"
	"github.com/ca27people/backend/internal/transport/http/middleware"
)

// ProfileHandler handles the member directory and profile pages.
type ProfileHandler struct {
	profileService *service.ProfileService
	mediaService   *service.MediaService
}

func NewProfileHandler(profileService *service.ProfileService, mediaService *service.MediaService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		mediaService:   mediaService,
	}
}

// List handles GET /api/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.List(r.Context())
	if err != nil {
		log.Printf("[ProfileHandler] List failed: %v", err)
		httputil.WriteInternalError(w, "Failed to load profiles")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profiles)
}

// Get handles GET /api/profiles/{userID}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteNotFound(w, "Profile not found")
			return
		}
		log.Printf("[ProfileHandler] Get failed: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to load profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// Update handles PUT /api/profiles/{userID}
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	profile, err := h.profileService.Update(r.Context(), actorID, middleware.GetIsAdminFromContext(r.Context()), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProfileNotFound):
			httputil.WriteNotFound(w, "Profile not found")
		case errors.Is(err, model.ErrNotProfileOwner):
			httputil.WriteForbidden(w, "You can only edit your own profile")
		case errors.Is(err, model.ErrInvalidRole):
			httputil.WriteBadRequest(w, "Role must be business, engineer or designer")
		default:
			log.Printf("[ProfileHandler] Update failed: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to update profile")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UploadPhoto handles POST /api/profiles/{userID}/photo. Accepts a multipart
// "photo" field, resizes it server-side and replaces the stored object.
func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}
	if actorID != userID && !middleware.GetIsAdminFromContext(r.Context()) {
		httputil.WriteForbidden(w, "You can only change your own photo")
		return
	}

	if err := r.ParseMultipartForm(model.MaxPhotoSizeBytes); err != nil {
		httputil.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		httputil.WriteBadRequest(w, "Photo file is required")
		return
	}
	defer file.Close()

	result, err := h.mediaService.UploadProfilePhoto(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Photo exceeds the 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Photo must be a JPEG, PNG, WebP or GIF image")
		default:
			log.Printf("[ProfileHandler] Photo upload failed: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to upload photo")
		}
		return
	}

	oldKey, err := h.profileService.SetPhoto(r.Context(), userID, result.URL, result.Key)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteNotFound(w, "Profile not found")
			return
		}
		log.Printf("[ProfileHandler] SetPhoto failed: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to update photo")
		return
	}

	// Old object cleanup is best effort; a leaked object is harmless.
	if oldKey != nil {
		if err := h.mediaService.DeleteObject(r.Context(), *oldKey); err != nil {
			log.Printf("[ProfileHandler] Old photo cleanup failed: key=%s err=%v", *oldKey, err)
		}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"photo_url": result.URL})
}

// Comments handles GET /api/profiles/{userID}/comments
func (h *ProfileHandler) Comments(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	comments, err := h.profileService.Comments(r.Context(), userID, middleware.ViewerID(r.Context()))
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			httputil.WriteNotFound(w, "Profile not found")
			return
		}
		log.Printf("[ProfileHandler] Comments failed: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to load comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// AddComment handles POST /api/profiles/{userID}/comments
func (h *ProfileHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.profileService.AddComment(r.Context(), userID, actorID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProfileNotFound):
			httputil.WriteNotFound(w, "Profile not found")
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequest(w, "Comment content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Comment is too long")
		default:
			log.Printf("[ProfileHandler] AddComment failed: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to post comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/profiles/comments/{commentID}
func (h *ProfileHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := parseIDParam(r, "commentID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	err = h.profileService.DeleteComment(r.Context(), actorID, middleware.GetIsAdminFromContext(r.Context()), commentID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProfileCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You cannot delete this comment")
		default:
			log.Printf("[ProfileHandler] DeleteComment failed: comment=%d err=%v", commentID, err)
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}

// LikeComment handles POST /api/profiles/comments/{commentID}/like
func (h *ProfileHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := parseIDParam(r, "commentID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	result, err := h.profileService.LikeComment(r.Context(), commentID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProfileCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrAlreadyLiked):
			httputil.WriteConflictWithCode(w, model.CodeAlreadyLiked, "Already liked this comment")
		default:
			log.Printf("[ProfileHandler] LikeComment failed: comment=%d err=%v", commentID, err)
			httputil.WriteInternalError(w, "Failed to like comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// UnlikeComment handles DELETE /api/profiles/comments/{commentID}/like
func (h *ProfileHandler) UnlikeComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := parseIDParam(r, "commentID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	result, err := h.profileService.UnlikeComment(r.Context(), commentID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProfileCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotLiked):
			httputil.WriteBadRequest(w, "You have not liked this comment")
		default:
			log.Printf("[ProfileHandler] UnlikeComment failed: comment=%d err=%v", commentID, err)
			httputil.WriteInternalError(w, "Failed to unlike comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
