package http

import (
	"flowtasks/internal/config"
	"flowtasks/internal/http/handlers"
	"flowtasks/internal/http/middleware"
	"flowtasks/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the full API surface onto the engine. All /api/v1
// routes except auth require a valid token; per-project authorization lives
// in the service layer, not here.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, hub *ws.Hub, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, hub)
	health := handlers.NewHealthHandler(db, version)

	r.Use(middleware.Metrics())

	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)

	r.GET("/ws", h.WS(hub))

	api := r.Group("/api/v1")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth())
	{
		protected.GET("/me", h.Me)

		protected.POST("/projects", h.CreateProject)
		protected.GET("/projects", h.ListProjects)
		protected.GET("/projects/:id", h.GetProject)
		protected.PUT("/projects/:id", h.UpdateProject)
		protected.DELETE("/projects/:id", h.DeleteProject)

		protected.POST("/projects/:id/members", h.AddMember)
		protected.GET("/projects/:id/members", h.ListMembers)
		protected.DELETE("/projects/:id/members/:userId", h.RemoveMember)

		protected.POST("/projects/:id/tasks", h.CreateTask)
		protected.GET("/projects/:id/tasks", h.ListTasks)
		protected.GET("/projects/:id/board", h.GetBoard)

		protected.POST("/projects/:id/sprints", h.CreateSprint)
		protected.GET("/projects/:id/sprints", h.ListSprints)

		protected.GET("/tasks/:id", h.GetTask)
		protected.PATCH("/tasks/:id", h.UpdateTask)
		protected.DELETE("/tasks/:id", h.DeleteTask)
		protected.GET("/tasks/:id/history", h.GetTaskHistory)
		protected.POST("/tasks/:id/comments", h.AddComment)
		protected.GET("/tasks/:id/comments", h.ListComments)

		protected.PUT("/comments/:id", h.UpdateComment)
		protected.DELETE("/comments/:id", h.DeleteComment)

		protected.GET("/sprints/:id", h.GetSprint)
		protected.PUT("/sprints/:id", h.UpdateSprint)
		protected.DELETE("/sprints/:id", h.DeleteSprint)
	}
}
