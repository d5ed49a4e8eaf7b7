package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ca27people/backend/internal/httputil"
	"github.com/ca27people/backend/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated member's ID
	UserIDKey contextKey = "user_id"

	// IsAdminKey is the context key for the is_admin claim. Admin status
	// travels in the signed token, never in client-held state.
	IsAdminKey contextKey = "is_admin"
)

// AuthMiddleware creates a middleware that validates JWT access tokens.
// Checks the Authorization header first, then falls back to the cookie.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				httputil.WriteUnauthorized(w, "Missing authentication token")
				return
			}

			ctx, ok := authenticate(w, r.Context(), tokenString, jwtSecret)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches identity when a valid token is present and
// passes the request through anonymously otherwise. Used on read endpoints
// where is_liked and is_joined depend on the viewer.
func OptionalAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parseClaims(tokenString, jwtSecret)
			if err != nil {
				// Invalid token on an optional route degrades to anonymous
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), claims)))
		})
	}
}

// AdminMiddleware rejects requests whose token lacks the is_admin claim.
// Must run after AuthMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetIsAdminFromContext(r.Context()) {
			httputil.WriteForbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	cookie, err := r.Cookie("access_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

func parseClaims(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func contextWithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	if userIDFloat, ok := claims["user_id"].(float64); ok {
		ctx = context.WithValue(ctx, UserIDKey, int64(userIDFloat))
	}
	if isAdmin, ok := claims["is_admin"].(bool); ok {
		ctx = context.WithValue(ctx, IsAdminKey, isAdmin)
	}
	return ctx
}

func authenticate(w http.ResponseWriter, ctx context.Context, tokenString, jwtSecret string) (context.Context, bool) {
	claims, err := parseClaims(tokenString, jwtSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Access token has expired")
			return ctx, false
		}
		httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid authentication token")
		return ctx, false
	}

	if _, ok := claims["user_id"].(float64); !ok {
		httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid token claims")
		return ctx, false
	}

	return contextWithClaims(ctx, claims), true
}

// GetUserIDFromContext extracts the member ID from the request context.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetIsAdminFromContext reports whether the request carries a valid admin
// claim. Absent means false.
func GetIsAdminFromContext(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(IsAdminKey).(bool)
	return ok && isAdmin
}

// ViewerID returns the member ID as a nullable pointer for optional-auth
// read endpoints.
func ViewerID(ctx context.Context) *int64 {
	if id, ok := GetUserIDFromContext(ctx); ok {
		return &id
	}
	return nil
}
