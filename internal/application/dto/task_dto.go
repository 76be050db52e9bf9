package dto

import (
	"time"

	"github.com/projectdesk/api/internal/domain/entity"
)

// CreateTaskRequest alta de tarea.
type CreateTaskRequest struct {
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assigned_to"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline"`
}

// UpdateTaskRequest patch parcial de tarea.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Deadline    *string `json:"deadline"`
}

// UpdateTaskStatusRequest cambio de estado simple.
type UpdateTaskStatusRequest struct {
	Status string `json:"status"` // open | in-progress | done
}

// TaskResponse proyección JSON de la tarea.
type TaskResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AssignedTo  string    `json:"assigned_to"`
	CreatedBy   string    `json:"created_by"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Deadline    string    `json:"deadline,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToTaskResponse mapea la entidad a su proyección.
func ToTaskResponse(t entity.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Deadline:    t.Deadline,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTaskResponses mapea la lista completa.
func ToTaskResponses(list []entity.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, ToTaskResponse(t))
	}
	return out
}

// AddCommentTaskRequest alta de comentario accionable sobre una etapa.
type AddCommentTaskRequest struct {
	StageID    string `json:"stage_id"`
	ProjectID  string `json:"project_id"`
	Text       string `json:"text"`
	AssignedTo string `json:"assigned_to"`
	Deadline   string `json:"deadline"`
}

// UpdateCommentTaskRequest edición del texto del comentario accionable.
type UpdateCommentTaskRequest struct {
	Text string `json:"text"`
}

// AssignCommentTaskRequest asignación del comentario a un empleado.
type AssignCommentTaskRequest struct {
	AssignedTo string `json:"assigned_to"`
	Deadline   string `json:"deadline"`
}

// CommentTaskResponse proyección JSON del comentario accionable.
type CommentTaskResponse struct {
	ID         string    `json:"id"`
	StageID    string    `json:"stage_id"`
	ProjectID  string    `json:"project_id"`
	Text       string    `json:"text"`
	AddedBy    string    `json:"added_by"`
	AuthorName string    `json:"author_name"`
	AuthorRole string    `json:"author_role"`
	Status     string    `json:"status"`
	AssignedTo string    `json:"assigned_to,omitempty"`
	Deadline   string    `json:"deadline,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ToCommentTaskResponse mapea la entidad a su proyección.
func ToCommentTaskResponse(t entity.CommentTask) CommentTaskResponse {
	return CommentTaskResponse{
		ID:         t.ID,
		StageID:    t.StageID,
		ProjectID:  t.ProjectID,
		Text:       t.Text,
		AddedBy:    t.AddedBy,
		AuthorName: t.AuthorName,
		AuthorRole: string(t.AuthorRole),
		Status:     string(t.Status),
		AssignedTo: t.AssignedTo,
		Deadline:   t.Deadline,
		Timestamp:  t.Timestamp,
	}
}

// ToCommentTaskResponses mapea la lista completa.
func ToCommentTaskResponses(list []entity.CommentTask) []CommentTaskResponse {
	out := make([]CommentTaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, ToCommentTaskResponse(t))
	}
	return out
}
