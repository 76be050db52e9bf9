package dto

import (
	"time"

	"github.com/projectdesk/api/internal/domain/entity"
)

// CreateProjectRequest alta de proyecto (manager).
type CreateProjectRequest struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	ClientID          string   `json:"client_id"`
	ClientName        string   `json:"client_name"`
	Deadline          string   `json:"deadline"`
	AssignedEmployees []string `json:"assigned_employees"`
	Status            string   `json:"status"`
	Priority          string   `json:"priority"`
	ProjectType       string   `json:"project_type"`
}

// UpdateProjectRequest patch parcial de proyecto; solo los campos presentes se tocan.
type UpdateProjectRequest struct {
	Title              *string   `json:"title"`
	Description        *string   `json:"description"`
	Deadline           *string   `json:"deadline"`
	ProgressPercentage *int      `json:"progress_percentage"`
	AssignedEmployees  *[]string `json:"assigned_employees"`
	Status             *string   `json:"status"`
	Priority           *string   `json:"priority"`
	ProjectType        *string   `json:"project_type"`
}

// ProjectResponse proyección JSON del proyecto.
type ProjectResponse struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	ClientID           string    `json:"client_id"`
	ClientName         string    `json:"client_name"`
	Deadline           string    `json:"deadline"`
	ProgressPercentage int       `json:"progress_percentage"`
	AssignedEmployees  []string  `json:"assigned_employees"`
	Status             string    `json:"status"`
	Priority           string    `json:"priority"`
	ProjectType        string    `json:"project_type,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// ToProjectResponse mapea la entidad a su proyección.
func ToProjectResponse(p entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		ClientID:           p.ClientID,
		ClientName:         p.ClientName,
		Deadline:           p.Deadline,
		ProgressPercentage: p.ProgressPercentage,
		AssignedEmployees:  p.AssignedEmployees,
		Status:             string(p.Status),
		Priority:           string(p.Priority),
		ProjectType:        p.ProjectType,
		CreatedAt:          p.CreatedAt,
	}
}

// ToProjectResponses mapea la lista completa.
func ToProjectResponses(list []entity.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToProjectResponse(p))
	}
	return out
}
