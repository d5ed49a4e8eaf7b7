package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ca27people/backend/internal/httputil"
	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/service"
	"github.com/ca27people/backend/internal/transport/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewAuthHandler(userService *service.UserService, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "Email and password are required")
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteConflictWithCode(w, model.CodeEmailTaken, "Email is already registered")
		case errors.Is(err, model.ErrPasswordTooShort):
			httputil.WriteBadRequest(w, "Password must be at least 6 characters")
		default:
			log.Printf("[AuthHandler] Register failed: %v", err)
			httputil.WriteInternalError(w, "Failed to register")
		}
		return
	}

	pair, err := h.authService.GenerateTokenPair(r.Context(), user, r.UserAgent(), getClientIP(r))
	if err != nil {
		log.Printf("[AuthHandler] Token generation failed after register: user=%d err=%v", user.ID, err)
		httputil.WriteInternalError(w, "Failed to issue tokens")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, model.LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid email or password")
			return
		}
		log.Printf("[AuthHandler] Login failed: %v", err)
		httputil.WriteInternalError(w, "Failed to log in")
		return
	}

	pair, err := h.authService.GenerateTokenPair(r.Context(), user, r.UserAgent(), getClientIP(r))
	if err != nil {
		log.Printf("[AuthHandler] Token generation failed: user=%d err=%v", user.ID, err)
		httputil.WriteInternalError(w, "Failed to issue tokens")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[AuthHandler] Me failed: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to load user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Refresh handles POST /api/auth/refresh. A valid refresh token is rotated;
// presenting a revoked one revokes the whole family.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		httputil.WriteBadRequest(w, "Refresh token is required")
		return
	}

	pair, user, err := h.authService.RefreshTokens(r.Context(), h.userService, req.RefreshToken, r.UserAgent(), getClientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrRefreshTokenNotFound):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid refresh token")
		case errors.Is(err, model.ErrRefreshTokenExpired):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Refresh token has expired")
		case errors.Is(err, model.ErrRefreshTokenReused):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenReused, "Refresh token reuse detected")
		default:
			log.Printf("[AuthHandler] Refresh failed: %v", err)
			httputil.WriteInternalError(w, "Failed to refresh tokens")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Logout handles POST /api/auth/logout. Revoking an unknown token still
// succeeds so a stale client can always log out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req model.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.RefreshToken != "" {
		if err := h.authService.RevokeRefreshToken(r.Context(), req.RefreshToken); err != nil &&
			!errors.Is(err, model.ErrRefreshTokenNotFound) {
			log.Printf("[AuthHandler] Logout revoke failed: %v", err)
		}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// LogoutAll handles POST /api/auth/logout-all
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if err := h.authService.RevokeAllUserTokens(r.Context(), userID); err != nil {
		log.Printf("[AuthHandler] LogoutAll failed: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to log out")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out from all devices"})
}

// getClientIP extracts the client IP, preferring proxy headers.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}
