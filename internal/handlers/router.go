package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/DevKano98/Web24kanban/internal/identity"
	"github.com/DevKano98/Web24kanban/internal/middleware"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth        *AuthHandler
	Task        *TaskHandler
	Project     *ProjectHandler
	Note        *NoteHandler
	Target      *TargetHandler
	Review      *ReviewHandler
	User        *UserHandler
	Permissions *PermissionsHandler
	Live        *LiveHandler
}

// SetupRoutes mounts the full API surface on the engine. The session
// middleware is expected to be installed by the caller already.
func SetupRoutes(r *gin.Engine, h Handlers, resolver *identity.Resolver, allowedOrigins []string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Web24 Kanban API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/partner-signup", h.Auth.PartnerSignup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", middleware.RequireAuth(resolver), h.Auth.GetCurrentUser)
		}

		// Everything below requires a session.
		protected := api.Group("")
		protected.Use(middleware.RequireAuth(resolver))
		{
			protected.GET("/me/permissions", h.Permissions.GetPermissions)

			tasks := protected.Group("/tasks")
			{
				tasks.GET("", h.Task.ListTasks)
				tasks.POST("", h.Task.CreateTask)
				tasks.GET("/:id", h.Task.GetTask)
				tasks.PATCH("/:id/move", h.Task.MoveTask)
				tasks.DELETE("/:id", h.Task.DeleteTask)
			}

			projects := protected.Group("/projects")
			{
				projects.GET("", h.Project.ListProjects)
				projects.GET("/:id", h.Project.GetProject)
				projects.GET("/:id/reviews", h.Review.ListProjectReviews)
				projects.POST("/:id/reviews", h.Review.AddReview)
				projects.POST("", middleware.RequireAdmin(), h.Project.CreateProject)
				projects.DELETE("/:id", middleware.RequireAdmin(), h.Project.DeleteProject)
			}

			reviews := protected.Group("/reviews")
			{
				reviews.GET("", middleware.RequireAdmin(), h.Review.ListAllReviews)
				reviews.DELETE("/:id", middleware.RequireAdmin(), h.Review.DeleteReview)
			}

			notes := protected.Group("/notes")
			{
				notes.GET("", h.Note.ListNotes)
				notes.POST("", h.Note.CreateNote)
				notes.PUT("/:id", h.Note.UpdateNote)
				notes.DELETE("/:id", h.Note.DeleteNote)
			}

			targets := protected.Group("/targets")
			{
				targets.GET("", h.Target.ListTargets)
				targets.POST("", h.Target.CreateTarget)
				targets.PATCH("/:id", h.Target.UpdateTarget)
				targets.DELETE("/:id", h.Target.DeleteTarget)
			}

			users := protected.Group("/users")
			{
				users.GET("/directory", h.User.Directory)
				users.GET("", middleware.RequireAdmin(), h.User.ListUsers)
				users.PATCH("/:id", middleware.RequireAdmin(), h.User.RenameUser)
				users.DELETE("/:id", middleware.RequireAdmin(), h.User.DeleteUser)
			}

			protected.GET("/live/ticket", h.Live.GetTicket)
		}

		// The upgrade authenticates with a ticket, not the session.
		api.GET("/live/ws", h.Live.Connect)
	}
}
