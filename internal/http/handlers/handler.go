package handlers

import (
	"flowtasks/internal/repository"
	"flowtasks/internal/service"
	"flowtasks/internal/ws"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB             *pgxpool.Pool
	Hub            *ws.Hub
	AuthService    *service.AuthService
	ProjectService *service.ProjectService
	MemberService  *service.MemberService
	TaskService    *service.TaskService
	SprintService  *service.SprintService
	CommentService *service.CommentService
}

func NewHandler(db *pgxpool.Pool, hub *ws.Hub) *Handler {
	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db)
	members := repository.NewMemberRepository(db)
	tasks := repository.NewTaskRepository(db)
	history := repository.NewHistoryRepository(db)
	sprints := repository.NewSprintRepository(db)
	comments := repository.NewCommentRepository(db)

	return &Handler{
		DB:             db,
		Hub:            hub,
		AuthService:    service.NewAuthService(users),
		ProjectService: service.NewProjectService(projects, members),
		MemberService:  service.NewMemberService(members, users),
		TaskService:    service.NewTaskService(members, projects, tasks, history, hub),
		SprintService:  service.NewSprintService(sprints, members),
		CommentService: service.NewCommentService(comments, tasks, members, hub),
	}
}

// getUserID extracts the authenticated user's id set by the auth middleware.
func getUserID(c interface{ Get(string) (any, bool) }) (string, bool) {
	val, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
