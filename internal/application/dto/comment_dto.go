package dto

import (
	"time"

	"github.com/projectdesk/api/internal/domain/entity"
)

// AddCommentRequest alta de comentario global de proyecto.
type AddCommentRequest struct {
	ProjectID string `json:"project_id"`
	Text      string `json:"text"`
}

// UpdateCommentRequest edición del texto (solo autor o manager).
type UpdateCommentRequest struct {
	Text string `json:"text"`
}

// CommentResponse proyección JSON del comentario global.
type CommentResponse struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	Text       string    `json:"text"`
	AddedBy    string    `json:"added_by"`
	AuthorName string    `json:"author_name"`
	AuthorRole string    `json:"author_role"`
	Timestamp  time.Time `json:"timestamp"`
}

// ToCommentResponse mapea la entidad a su proyección.
func ToCommentResponse(c entity.GlobalComment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		ProjectID:  c.ProjectID,
		Text:       c.Text,
		AddedBy:    c.AddedBy,
		AuthorName: c.AuthorName,
		AuthorRole: string(c.AuthorRole),
		Timestamp:  c.Timestamp,
	}
}

// ToCommentResponses mapea la lista completa.
func ToCommentResponses(list []entity.GlobalComment) []CommentResponse {
	out := make([]CommentResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToCommentResponse(c))
	}
	return out
}
