package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ca27people/backend/internal/config"
	"github.com/ca27people/backend/internal/handler"
	"github.com/ca27people/backend/internal/httputil"
	"github.com/ca27people/backend/internal/transport/http/middleware"
)

// RouterConfig holds everything the router needs to wire up routes.
type RouterConfig struct {
	Config *config.Config

	AuthHandler         *handler.AuthHandler
	ProfileHandler      *handler.ProfileHandler
	PostHandler         *handler.PostHandler
	EventHandler        *handler.EventHandler
	NotificationHandler *handler.NotificationHandler
	AdminHandler        *handler.AdminHandler
	MediaHandler        *handler.MediaHandler
}

// NewRouter builds the HTTP route tree: the JSON API under /api and the
// static site behind the Basic auth gate everywhere else.
func NewRouter(rc RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	jwtSecret := rc.Config.JWTSecret
	optionalAuth := middleware.OptionalAuthMiddleware(jwtSecret)
	requireAuth := middleware.AuthMiddleware(jwtSecret)

	r.Route("/api", func(api chi.Router) {
		// Public auth endpoints
		api.Post("/auth/register", rc.AuthHandler.Register)
		api.Post("/auth/login", rc.AuthHandler.Login)
		api.Post("/auth/refresh", rc.AuthHandler.Refresh)
		api.Post("/auth/logout", rc.AuthHandler.Logout)

		// Public reads; viewer identity is attached when present so
		// is_liked and is_joined come back correct.
		api.With(optionalAuth).Get("/profiles", rc.ProfileHandler.List)
		api.With(optionalAuth).Get("/profiles/{userID}", rc.ProfileHandler.Get)
		api.With(optionalAuth).Get("/profiles/{userID}/comments", rc.ProfileHandler.Comments)
		api.With(optionalAuth).Get("/posts", rc.PostHandler.List)
		api.With(optionalAuth).Get("/posts/{postID}", rc.PostHandler.Get)
		api.With(optionalAuth).Get("/posts/{postID}/comments", rc.PostHandler.Comments)
		api.With(optionalAuth).Get("/events", rc.EventHandler.List)
		api.With(optionalAuth).Get("/events/{eventID}", rc.EventHandler.Get)

		// Authenticated endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(requireAuth)

			protected.Get("/auth/me", rc.AuthHandler.Me)
			protected.Post("/auth/logout-all", rc.AuthHandler.LogoutAll)

			protected.Put("/profiles/{userID}", rc.ProfileHandler.Update)
			protected.Post("/profiles/{userID}/photo", rc.ProfileHandler.UploadPhoto)
			protected.Post("/profiles/{userID}/comments", rc.ProfileHandler.AddComment)
			protected.Delete("/profiles/comments/{commentID}", rc.ProfileHandler.DeleteComment)
			protected.Post("/profiles/comments/{commentID}/like", rc.ProfileHandler.LikeComment)
			protected.Delete("/profiles/comments/{commentID}/like", rc.ProfileHandler.UnlikeComment)

			protected.Post("/posts", rc.PostHandler.Create)
			protected.Post("/posts/preview", rc.PostHandler.Preview)
			protected.Put("/posts/{postID}", rc.PostHandler.Update)
			protected.Delete("/posts/{postID}", rc.PostHandler.Delete)
			protected.Post("/posts/{postID}/like", rc.PostHandler.Like)
			protected.Delete("/posts/{postID}/like", rc.PostHandler.Unlike)
			protected.Post("/posts/{postID}/comments", rc.PostHandler.AddComment)
			protected.Delete("/posts/comments/{commentID}", rc.PostHandler.DeleteComment)

			protected.Post("/events", rc.EventHandler.Create)
			protected.Delete("/events/{eventID}", rc.EventHandler.Delete)
			protected.Post("/events/{eventID}/join", rc.EventHandler.Join)
			protected.Delete("/events/{eventID}/join", rc.EventHandler.Leave)

			protected.Get("/notifications", rc.NotificationHandler.List)
			protected.Get("/notifications/unread-count", rc.NotificationHandler.UnreadCount)
			protected.Post("/notifications/mark-read", rc.NotificationHandler.MarkRead)
			protected.Post("/notifications/mark-all-read", rc.NotificationHandler.MarkAllRead)

			protected.Post("/media/thumbnail-upload", rc.MediaHandler.PresignThumbnail)

			// Admin dashboard
			protected.Route("/admin", func(admin chi.Router) {
				admin.Use(middleware.AdminMiddleware)

				admin.Get("/stats", rc.AdminHandler.Stats)
				admin.Get("/members", rc.AdminHandler.Members)
				admin.Delete("/members/{userID}", rc.AdminHandler.DeleteMember)
			})
		})
	})

	// Static pages behind the site-wide gate. API and asset paths are
	// exempt inside the middleware.
	gate := middleware.BasicAuth(middleware.BasicAuthConfig{
		Username: rc.Config.BasicAuthUser,
		Password: rc.Config.BasicAuthPassword,
		Realm:    rc.Config.BasicAuthRealm,
	})
	fileServer := http.FileServer(http.Dir(rc.Config.PublicDir))
	r.With(gate).Handle("/*", fileServer)

	return r
}
