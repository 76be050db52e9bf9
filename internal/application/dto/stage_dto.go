package dto

import "github.com/projectdesk/api/internal/domain/entity"

// UpdateStageProgressRequest nuevo porcentaje de avance de la etapa.
type UpdateStageProgressRequest struct {
	Progress int `json:"progress"`
}

// UpdateStageApprovalRequest decisión de aprobación del cliente.
type UpdateStageApprovalRequest struct {
	Status  string `json:"status"` // approved | rejected
	Comment string `json:"comment"`
}

// StageResponse proyección JSON de la etapa.
type StageResponse struct {
	ID                 string `json:"id"`
	ProjectID          string `json:"project_id"`
	Name               string `json:"name"`
	Notes              string `json:"notes"`
	ProgressPercentage int    `json:"progress_percentage"`
	ApprovalStatus     string `json:"approval_status"`
	Order              int    `json:"order"`
}

// ToStageResponse mapea la entidad a su proyección.
func ToStageResponse(s entity.Stage) StageResponse {
	return StageResponse{
		ID:                 s.ID,
		ProjectID:          s.ProjectID,
		Name:               s.Name,
		Notes:              s.Notes,
		ProgressPercentage: s.ProgressPercentage,
		ApprovalStatus:     string(s.ApprovalStatus),
		Order:              s.Order,
	}
}

// ToStageResponses mapea la lista completa.
func ToStageResponses(list []entity.Stage) []StageResponse {
	out := make([]StageResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToStageResponse(s))
	}
	return out
}
