package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/DevKano98/Web24kanban/internal/config"
	"github.com/DevKano98/Web24kanban/internal/constants"
	"github.com/DevKano98/Web24kanban/internal/database"
	"github.com/DevKano98/Web24kanban/internal/handlers"
	"github.com/DevKano98/Web24kanban/internal/identity"
	"github.com/DevKano98/Web24kanban/internal/live"
	"github.com/DevKano98/Web24kanban/internal/repository"
	"github.com/DevKano98/Web24kanban/internal/services"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	db := database.GetDB()
	if err := database.AddIndexes(db); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Repositories
	credRepo := repository.NewCredentialRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	targetRepo := repository.NewTargetRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	resolver := identity.NewResolver(userRepo)

	// Services are wired to the hub after it exists; until then they
	// notify into a placeholder that forwards once the hub is up.
	notifier := &deferredNotifier{}

	gate := services.SignupGate{
		AdminEmails:   cfg.AdminEmails,
		ClientDomains: cfg.ClientDomains,
	}

	authService := services.NewAuthService(credRepo, userRepo, gate)
	enrollmentService := services.NewEnrollmentService(credRepo, userRepo, projectRepo, cfg.PartnerDomain)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, notifier)
	boardService := services.NewBoardService(taskRepo, notifier)
	projectService := services.NewProjectService(projectRepo, taskRepo, notifier)
	noteService := services.NewNoteService(noteRepo, notifier)
	targetService := services.NewTargetService(targetRepo, notifier)
	reviewService := services.NewReviewService(reviewRepo, projectRepo, taskRepo, notifier)
	userService := services.NewUserService(userRepo, notifier)

	source := live.NewServiceSource(taskService, projectService, noteService, targetService, reviewService, userService)
	hub := live.NewHub(source)
	notifier.target = hub

	tickets := live.NewTicketIssuer(cfg.TicketSecret)

	r := gin.Default()

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(10, "tcp", redisAddr, "", []byte(cfg.SessionSecret))
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	h := handlers.Handlers{
		Auth:        handlers.NewAuthHandler(authService, enrollmentService),
		Task:        handlers.NewTaskHandler(taskService, boardService),
		Project:     handlers.NewProjectHandler(projectService),
		Note:        handlers.NewNoteHandler(noteService),
		Target:      handlers.NewTargetHandler(targetService),
		Review:      handlers.NewReviewHandler(reviewService),
		User:        handlers.NewUserHandler(userService),
		Permissions: handlers.NewPermissionsHandler(taskService, reviewService),
		Live:        handlers.NewLiveHandler(hub, tickets, resolver, cfg.AllowedOrigins),
	}
	handlers.SetupRoutes(r, h, resolver, cfg.AllowedOrigins)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// deferredNotifier breaks the services-before-hub construction cycle.
type deferredNotifier struct {
	target services.Notifier
}

func (d *deferredNotifier) Invalidate(collection string) {
	if d.target != nil {
		d.target.Invalidate(collection)
	}
}
