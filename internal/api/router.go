package api

import (
	"net/http"
	"time"

	"github.com/dom/blog-platform/internal/api/handlers"
	"github.com/dom/blog-platform/internal/api/middleware"
	"github.com/dom/blog-platform/internal/api/response"
	"github.com/dom/blog-platform/internal/config"
	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/service"
	"github.com/dom/blog-platform/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const rateWindow = 15 * time.Minute

var (
	anyRole   = domain.AllRoles
	adminOnly = []domain.Role{domain.RoleAdmin}
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()
	resp := response.NewResponder(cfg.IsDevelopment(), log)

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.WhitelistOrigins, cfg.IsDevelopment()))
	r.Use(middleware.NewRateLimiter(cfg.RateLimit.GlobalPerMinute, time.Minute).Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	authHandler := handlers.NewAuthHandler(services.Auth, cfg, resp)
	userHandler := handlers.NewUserHandler(services.User, cfg, resp)
	blogHandler := handlers.NewBlogHandler(services.Blog, cfg, resp)
	commentHandler := handlers.NewCommentHandler(services.Comment, cfg, resp)
	likeHandler := handlers.NewLikeHandler(services.Like, resp)
	wsHandler := handlers.NewWebSocketHandler(hub, cfg, resp, log)

	authenticate := middleware.Authenticate(services.Tokens, resp, log)
	optionalAuth := middleware.OptionalAuthenticate(services.Tokens)
	authorize := func(roles ...domain.Role) func(http.Handler) http.Handler {
		return middleware.Authorize(services.Access, resp, roles...)
	}

	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.AuthPer15Min, rateWindow)
	apiLimiter := middleware.NewRateLimiter(cfg.RateLimit.APIPer15Min, rateWindow)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			response.JSON(w, http.StatusOK, map[string]any{
				"message":   "API is live",
				"status":    "ok",
				"version":   "1.0.0",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Handler())
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh-token", authHandler.RefreshToken)

			r.With(authenticate).Post("/logout", authHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(apiLimiter.Handler())

			r.Route("/users", func(r chi.Router) {
				r.Use(authenticate)

				r.With(authorize(anyRole...)).Get("/current", userHandler.GetCurrent)
				r.With(authorize(anyRole...)).Patch("/current", userHandler.UpdateCurrent)
				r.With(authorize(adminOnly...)).Get("/", userHandler.List)
				r.With(authorize(adminOnly...)).Get("/{userId}", userHandler.Get)
			})

			// {blog} is a slug for reads and updates and a blog id for
			// deletes and comment creation.
			r.Route("/blogs", func(r chi.Router) {
				r.With(optionalAuth).Get("/", blogHandler.List)
				r.With(optionalAuth).Get("/user/{userId}", blogHandler.ListByUser)
				r.With(optionalAuth).Get("/{blog}", blogHandler.GetBySlug)

				r.With(authenticate, authorize(adminOnly...)).Post("/", blogHandler.Create)
				r.With(authenticate, authorize(anyRole...)).Put("/{blog}", blogHandler.Update)
				r.With(authenticate, authorize(anyRole...)).Delete("/{blog}", blogHandler.Delete)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/blog/{blog}", commentHandler.ListByBlog)

				r.With(authenticate, authorize(anyRole...)).Post("/blog/{blog}", commentHandler.Create)
				r.With(authenticate, authorize(adminOnly...)).Get("/", commentHandler.List)
				r.With(authenticate, authorize(anyRole...)).Delete("/{commentId}", commentHandler.Delete)
			})

			r.With(authenticate, authorize(anyRole...)).Post("/likes/{resourceId}", likeHandler.Toggle)
		})

		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
