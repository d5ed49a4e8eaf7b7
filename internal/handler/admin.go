package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/ca27people/backend/internal/httputil"
	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/service"
	"github.com/ca27people/backend/internal/transport/http/middleware"
)

// AdminHandler handles the admin dashboard. The admin middleware runs before
// every route here.
type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		log.Printf("[AdminHandler] Stats failed: %v", err)
		httputil.WriteInternalError(w, "Failed to load stats")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// Members handles GET /api/admin/members
func (h *AdminHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.adminService.ListMembers(r.Context())
	if err != nil {
		log.Printf("[AdminHandler] Members failed: %v", err)
		httputil.WriteInternalError(w, "Failed to load members")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, members)
}

// DeleteMember handles DELETE /api/admin/members/{userID}
func (h *AdminHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
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

	if actorID == userID {
		httputil.WriteBadRequest(w, "You cannot delete your own account")
		return
	}

	if err := h.adminService.DeleteMember(r.Context(), actorID, userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[AdminHandler] DeleteMember failed: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to delete member")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Member deleted"})
}
