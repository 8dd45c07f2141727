package api

import (
	"log/slog"
	"time"

	"github.com/fundloop/fundloop/internal/api/handlers"
	"github.com/fundloop/fundloop/internal/api/middleware"
	"github.com/fundloop/fundloop/internal/auth"
	"github.com/fundloop/fundloop/internal/config"
	"github.com/fundloop/fundloop/internal/permission"
	"github.com/fundloop/fundloop/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	DB            *gorm.DB
	Service       *service.Service
	Authenticator *auth.Authenticator
	Guard         *auth.Guard
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	// Set Gin mode
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Errors must wrap Recovery so recovered panics are rendered.
	router.Use(loggingMiddleware())
	router.Use(middleware.Errors())
	router.Use(middleware.Recovery())
	router.Use(middleware.Security(cfg.Server.Mode == "production"))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.NoRoute(middleware.NotFound)

	maxUpload := cfg.Media.MaxUploadMB << 20
	guard := deps.Guard
	svc := deps.Service

	authHandler := handlers.NewAuthHandler(svc, deps.Authenticator, handlers.CookieOptions{
		Name:   cfg.Auth.SessionCookie,
		Secure: cfg.Server.CookieSecure,
		TTL:    cfg.Auth.SessionTTL,
	})
	userHandler := handlers.NewUserHandler(svc, maxUpload)
	roleHandler := handlers.NewRoleHandler(svc)
	postHandler := handlers.NewPostHandler(svc, maxUpload)
	chatHandler := handlers.NewChatHandler(svc)

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", handlers.Health(deps.DB))
		public.GET("/version", handlers.GetVersion)
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)

		public.GET("/posts", postHandler.ListPosts)
		public.GET("/posts/:id", postHandler.GetPost)
		public.GET("/posts/:id/comments", postHandler.ListComments)
		public.GET("/posts/:id/reactions", postHandler.ReactionSummary)
		public.GET("/posts/:id/donations", postHandler.ListDonations)
	}

	// Protected routes (require authentication)
	protected := router.Group("/api/v1")
	protected.Use(guard.Authenticated())
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/users", userHandler.ListUsers)
		protected.GET("/users/:id", userHandler.GetUser)
		protected.PATCH("/users/me", userHandler.UpdateProfile)
		protected.POST("/users/me/avatar", userHandler.UploadAvatar)
		protected.POST("/users/:id/follow", userHandler.Follow)
		protected.DELETE("/users/:id/follow", userHandler.Unfollow)
		protected.GET("/users/:id/followers", userHandler.Followers)
		protected.GET("/users/:id/following", userHandler.Following)

		protected.GET("/roles", roleHandler.ListRoles)

		protected.PATCH("/posts/:id", postHandler.UpdatePost)
		protected.DELETE("/posts/:id", postHandler.DeletePost)
		protected.DELETE("/comments/:id", postHandler.DeleteComment)
		protected.PUT("/posts/:id/reactions", postHandler.React)
		protected.DELETE("/posts/:id/reactions", postHandler.Unreact)
		protected.POST("/posts/:id/donations", postHandler.Donate)

		protected.GET("/chats", chatHandler.ListChats)
		protected.GET("/chats/:id/messages", chatHandler.ListMessages)
		protected.POST("/chats/:id/messages", chatHandler.PostMessage)
	}

	// Capability-gated routes
	gated := router.Group("/api/v1")
	{
		gated.PUT("/users/:id/role", guard.Require(permission.UpgradeUserRole), userHandler.UpdateRole)
		gated.POST("/users/:id/ban", guard.Require(permission.BanUsers), userHandler.Ban)
		gated.DELETE("/users/:id/ban", guard.Require(permission.BanUsers), userHandler.Unban)

		gated.POST("/roles", guard.Require(permission.ManageRoles), roleHandler.CreateRole)
		gated.PUT("/roles/:name", guard.Require(permission.ManageRoles), roleHandler.UpdateRole)
		gated.DELETE("/roles/:name", guard.Require(permission.ManageRoles), roleHandler.DeleteRole)
		gated.GET("/audit", guard.Require(permission.ManageRoles), handlers.ListAuditLogs(svc))

		gated.POST("/posts", guard.Require(permission.CreatePosts), postHandler.CreatePost)
		gated.POST("/posts/:id/comments", guard.Require(permission.CreateComments), postHandler.CreateComment)
		gated.POST("/chats", guard.Require(permission.CreateChats), chatHandler.CreateChat)
	}

	slog.Info("API router initialized", "mode", cfg.Server.Mode)
	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		slog.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"ip", c.ClientIP(),
		)
	}
}
