package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ca27people/backend/internal/cache"
	"github.com/ca27people/backend/internal/config"
	"github.com/ca27people/backend/internal/database"
	"github.com/ca27people/backend/internal/handler"
	"github.com/ca27people/backend/internal/queue"
	appredis "github.com/ca27people/backend/internal/redis"
	"github.com/ca27people/backend/internal/repository"
	"github.com/ca27people/backend/internal/service"
	"github.com/ca27people/backend/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// Run wires the application together and serves until interrupted.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	redisClient, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	if err := redisClient.Ping(ctx); err != nil {
		return err
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	profileCommentRepo := repository.NewProfileCommentRepository(db)
	postRepo := repository.NewPostRepository(db)
	postCommentRepo := repository.NewPostCommentRepository(db)
	eventRepo := repository.NewEventRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Queue and cache
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)
	unreadCache := cache.NewUnreadCache(redisClient.Client)

	// Services
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	userService := service.NewUserService(db, userRepo, profileRepo)
	profileService := service.NewProfileService(profileRepo, profileCommentRepo, publisher)
	postService := service.NewPostService(postRepo, postCommentRepo, profileRepo, publisher)
	eventService := service.NewEventService(eventRepo, profileRepo)
	notificationService := service.NewNotificationService(notificationRepo, profileRepo, unreadCache)
	adminService := service.NewAdminService(db, userRepo, profileRepo, profileCommentRepo,
		postRepo, postCommentRepo, eventRepo, notificationRepo, refreshTokenRepo)

	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init media service: %w", err)
	}

	// Notification workers
	manager := worker.NewManager(
		consumer,
		worker.NewHandler(notificationRepo, unreadCache),
		worker.DefaultManagerConfig(),
	)
	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}
	defer manager.Stop()

	router := NewRouter(RouterConfig{
		Config:              cfg,
		AuthHandler:         handler.NewAuthHandler(userService, authService),
		ProfileHandler:      handler.NewProfileHandler(profileService, mediaService),
		PostHandler:         handler.NewPostHandler(postService),
		EventHandler:        handler.NewEventHandler(eventService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		AdminHandler:        handler.NewAdminHandler(adminService),
		MediaHandler:        handler.NewMediaHandler(mediaService),
	})

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Printf("[Server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
