package dto

import (
	"time"

	"github.com/projectdesk/api/internal/domain/entity"
)

// SaveOverviewRequest contenido del resumen de proyecto (upsert por project_id).
type SaveOverviewRequest struct {
	Content string `json:"content"`
}

// OverviewResponse proyección JSON del resumen.
type OverviewResponse struct {
	ProjectID string    `json:"project_id"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToOverviewResponse mapea la entidad a su proyección.
func ToOverviewResponse(o entity.ProjectOverview) OverviewResponse {
	return OverviewResponse{
		ProjectID: o.ProjectID,
		Content:   o.Content,
		CreatedBy: o.CreatedBy,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
