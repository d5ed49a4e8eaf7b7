package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ca27people/backend/internal/httputil"
	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/service"
	"github.com/ca27people/backend/internal/transport/http/middleware"
)

// NotificationHandler handles the notification feed and badge.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	resp, err := h.notificationService.List(r.Context(), userID)
	if err != nil {
		log.Printf("[NotificationHandler] List failed: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to load notifications")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	count, err := h.notificationService.UnreadCount(r.Context(), userID)
	if err != nil {
		log.Printf("[NotificationHandler] UnreadCount failed: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to load unread count")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

// MarkRead handles POST /api/notifications/mark-read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if len(req.NotificationIDs) == 0 {
		httputil.WriteBadRequest(w, "notification_ids is required")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), userID, req.NotificationIDs); err != nil {
		log.Printf("[NotificationHandler] MarkRead failed: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to mark notifications read")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Marked as read"})
}

// MarkAllRead handles POST /api/notifications/mark-all-read
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if err := h.notificationService.MarkAllRead(r.Context(), userID); err != nil {
		log.Printf("[NotificationHandler] MarkAllRead failed: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to mark notifications read")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "All marked as read"})
}
