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

// EventHandler handles the events calendar.
type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List handles GET /api/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context(), middleware.ViewerID(r.Context()))
	if err != nil {
		log.Printf("[EventHandler] List failed: %v", err)
		httputil.WriteInternalError(w, "Failed to load events")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, events)
}

// Get handles GET /api/events/{eventID}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIDParam(r, "eventID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid event ID")
		return
	}

	event, err := h.eventService.Get(r.Context(), eventID, middleware.ViewerID(r.Context()))
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			httputil.WriteNotFound(w, "Event not found")
			return
		}
		log.Printf("[EventHandler] Get failed: event=%d err=%v", eventID, err)
		httputil.WriteInternalError(w, "Failed to load event")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, event)
}

// Create handles POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	event, err := h.eventService.Create(r.Context(), actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTitleRequired):
			httputil.WriteBadRequest(w, "Title is required")
		case errors.Is(err, model.ErrEventDateNeeded):
			httputil.WriteBadRequest(w, "Event date is required")
		case errors.Is(err, model.ErrBadEventDate):
			httputil.WriteBadRequest(w, "Event date must be YYYY-MM-DD")
		default:
			log.Printf("[EventHandler] Create failed: %v", err)
			httputil.WriteInternalError(w, "Failed to create event")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, event)
}

// Delete handles DELETE /api/events/{eventID}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIDParam(r, "eventID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid event ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	err = h.eventService.Delete(r.Context(), actorID, middleware.GetIsAdminFromContext(r.Context()), eventID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEventNotFound):
			httputil.WriteNotFound(w, "Event not found")
		case errors.Is(err, model.ErrNotEventOwner):
			httputil.WriteForbidden(w, "You can only delete your own events")
		default:
			log.Printf("[EventHandler] Delete failed: event=%d err=%v", eventID, err)
			httputil.WriteInternalError(w, "Failed to delete event")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Event deleted"})
}

// Join handles POST /api/events/{eventID}/join
func (h *EventHandler) Join(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIDParam(r, "eventID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid event ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if err := h.eventService.Join(r.Context(), eventID, actorID); err != nil {
		switch {
		case errors.Is(err, model.ErrEventNotFound):
			httputil.WriteNotFound(w, "Event not found")
		case errors.Is(err, model.ErrAlreadyJoined):
			httputil.WriteConflictWithCode(w, model.CodeAlreadyJoined, "Already joined this event")
		default:
			log.Printf("[EventHandler] Join failed: event=%d user=%d err=%v", eventID, actorID, err)
			httputil.WriteInternalError(w, "Failed to join event")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Joined event"})
}

// Leave handles DELETE /api/events/{eventID}/join
func (h *EventHandler) Leave(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIDParam(r, "eventID")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid event ID")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if err := h.eventService.Leave(r.Context(), eventID, actorID); err != nil {
		switch {
		case errors.Is(err, model.ErrEventNotFound):
			httputil.WriteNotFound(w, "Event not found")
		case errors.Is(err, model.ErrNotJoined):
			httputil.WriteBadRequest(w, "You have not joined this event")
		default:
			log.Printf("[EventHandler] Leave failed: event=%d user=%d err=%v", eventID, actorID, err)
			httputil.WriteInternalError(w, "Failed to leave event")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Left event"})
}
