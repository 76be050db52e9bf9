package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/projectdesk/api/internal/application/auth"
	"github.com/projectdesk/api/internal/application/ingest"
	"github.com/projectdesk/api/internal/application/session"
	"github.com/projectdesk/api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.UseCase
	Sessions  *session.Manager
	Pipeline  *ingest.Pipeline
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC, deps.Sessions)
	projectHandler := NewProjectHandler(deps.Sessions)
	stageHandler := NewStageHandler(deps.Sessions)
	taskHandler := NewTaskHandler(deps.Sessions)
	commentHandler := NewCommentHandler(deps.Sessions)
	fileHandler := NewFileHandler(deps.Sessions, deps.Pipeline)
	brochureHandler := NewBrochureHandler(deps.Sessions, deps.Pipeline)
	workspaceHandler := NewWorkspaceHandler(deps.Sessions)

	// Auth (login público; registro y logout requieren token)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleManager), authHandler.Register)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret), authHandler.Logout)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Projects y sus recursos anidados
	projects := protected.Group("/projects")
	projects.Get("/", projectHandler.List)
	projects.Post("/", RequireRole(entity.RoleManager), projectHandler.Create)
	projects.Put("/:id", RequireRole(entity.RoleManager), projectHandler.Update)
	projects.Delete("/:id", RequireRole(entity.RoleManager), projectHandler.Delete)
	projects.Get("/:id/overview", projectHandler.GetOverview)
	projects.Put("/:id/overview", projectHandler.SaveOverview)
	projects.Get("/:id/comments", commentHandler.ListByProject)
	projects.Post("/:id/comments", commentHandler.Add)
	projects.Get("/:id/brochure-pages", brochureHandler.ListPages)

	// Stages
	stages := protected.Group("/stages")
	stages.Get("/", stageHandler.List)
	stages.Put("/:id/progress", RequireRole(entity.RoleEmployee, entity.RoleManager), stageHandler.UpdateProgress)
	stages.Put("/:id/approval", stageHandler.UpdateApproval)
	stages.Get("/:id/comments", stageHandler.ListCommentTasks)
	stages.Post("/:id/comments", stageHandler.AddCommentTask)

	// Comment tasks (fuera del grupo de stages: se operan por id propio)
	commentTasks := protected.Group("/comment-tasks")
	commentTasks.Put("/:id/status", stageHandler.UpdateCommentTaskStatus)
	commentTasks.Put("/:id/assign", RequireRole(entity.RoleEmployee, entity.RoleManager), stageHandler.AssignCommentTask)
	commentTasks.Put("/:id", stageHandler.UpdateCommentTask)
	commentTasks.Delete("/:id", stageHandler.DeleteCommentTask)

	// Tasks
	tasks := protected.Group("/tasks")
	tasks.Get("/", taskHandler.List)
	tasks.Post("/", RequireRole(entity.RoleEmployee, entity.RoleManager), taskHandler.Create)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Put("/:id/status", taskHandler.UpdateStatus)
	tasks.Delete("/:id", RequireRole(entity.RoleManager), taskHandler.Delete)

	// Comments globales
	comments := protected.Group("/comments")
	comments.Put("/:id", commentHandler.Update)
	comments.Delete("/:id", commentHandler.Delete)

	// Files
	files := protected.Group("/files")
	files.Get("/", fileHandler.List)
	files.Post("/", fileHandler.Upload)
	files.Get("/downloads", fileHandler.DownloadHistory)
	files.Get("/external", fileHandler.ListExternal)
	files.Put("/:id", fileHandler.UpdateMetadata)
	files.Post("/:id/download", fileHandler.RecordDownload)
	files.Delete("/:id", fileHandler.Delete)

	// Brochures y páginas
	brochures := protected.Group("/brochures")
	brochures.Get("/", brochureHandler.List)
	brochures.Post("/", brochureHandler.Create)
	brochures.Put("/:id/status", brochureHandler.UpdateStatus)

	pages := protected.Group("/brochure-pages")
	pages.Put("/", brochureHandler.SavePage)
	pages.Post("/images", brochureHandler.UploadPageImage)
	pages.Post("/:id/lock", brochureHandler.LockPage)
	pages.Delete("/:id/lock", brochureHandler.UnlockPage)
	pages.Put("/:id/approval", brochureHandler.ApprovePage)
	pages.Get("/:id/comments", brochureHandler.ListPageComments)
	pages.Post("/:id/comments", brochureHandler.AddPageComment)
	pages.Delete("/:id", brochureHandler.DeletePage)

	pageComments := protected.Group("/page-comments")
	pageComments.Put("/:id/done", brochureHandler.MarkPageCommentDone)

	// Workspace local: reuniones, leads, usuarios
	protected.Get("/meetings", workspaceHandler.ListMeetings)
	protected.Post("/meetings", workspaceHandler.ScheduleMeeting)
	protected.Get("/leads", workspaceHandler.ListLeads)
	protected.Post("/leads", RequireRole(entity.RoleManager), workspaceHandler.CreateLead)
	protected.Put("/leads/:id", RequireRole(entity.RoleManager), workspaceHandler.UpdateLead)
	protected.Delete("/leads/:id", RequireRole(entity.RoleManager), workspaceHandler.DeleteLead)
	protected.Get("/users", workspaceHandler.ListUsers)
}
