package main

import (
	"github.com/gin-gonic/gin"
	"github.com/insightly-hq/insightly/internal/handlers"
	"github.com/insightly-hq/insightly/internal/middleware"
	"github.com/insightly-hq/insightly/internal/models"
	"github.com/insightly-hq/insightly/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	db := models.GetDB()

	// Rate limiter for credential endpoints
	loginLimiter := middleware.NewRateLimiter(svc.cfg.Server.LoginRPS, svc.cfg.Server.LoginBurst)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", loginLimiter.Middleware())
		{
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(db), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Projects (visibility scoped per role in the service layer)
			projectHandler := handlers.NewProjectHandler(db)
			protected.GET("/projects", projectHandler.List)
			protected.GET("/projects/:id", projectHandler.GetByID)

			// Tasks (visibility scoped per role in the service layer)
			taskHandler := handlers.NewTaskHandler(db)
			protected.GET("/tasks", taskHandler.List)
			protected.GET("/tasks/:id", taskHandler.GetByID)
			protected.PATCH("/tasks/:id/status", taskHandler.SetStatus)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(db), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Dashboard
			dashboardHandler := handlers.NewDashboardHandler(db)
			admin.GET("/dashboard/stats", dashboardHandler.GetSnapshot)

			// Projects (write operations and assignment reconciliation)
			projectHandler := handlers.NewProjectHandler(db)
			admin.POST("/projects", projectHandler.Create)
			admin.PUT("/projects/:id", projectHandler.Update)
			admin.DELETE("/projects/:id", projectHandler.Delete)
			admin.PUT("/projects/:id/team", projectHandler.AssignTeam)
			admin.PUT("/projects/:id/clients", projectHandler.AssignClients)

			// Tasks (write operations and assignment reconciliation)
			taskHandler := handlers.NewTaskHandler(db)
			admin.POST("/tasks", taskHandler.Create)
			admin.PUT("/tasks/:id", taskHandler.Update)
			admin.DELETE("/tasks/:id", taskHandler.Delete)
			admin.PUT("/tasks/:id/assignees", taskHandler.AssignUsers)

			// Users
			userHandler := handlers.NewUserHandler(db)
			admin.GET("/roles", userHandler.ListRoles)
			admin.GET("/users", userHandler.List)
			admin.GET("/users/:id", userHandler.GetByID)
			admin.POST("/users", userHandler.Create)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)
			admin.PUT("/users/:id/role", userHandler.AssignRole)

			// System Logs
			systemLogHandler := handlers.NewSystemLogHandler(db)
			admin.GET("/system-logs", systemLogHandler.List)
			admin.GET("/system-logs/modules", systemLogHandler.GetModules)
		}
	}
}
