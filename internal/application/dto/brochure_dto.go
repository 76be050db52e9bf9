package dto

import (
	"time"

	"github.com/projectdesk/api/internal/domain/entity"
)

// CreateBrochureProjectRequest alta de brochure ligado a un proyecto.
type CreateBrochureProjectRequest struct {
	ProjectID  string `json:"project_id"`
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
}

// UpdateBrochureProjectRequest patch del flujo de brochure.
type UpdateBrochureProjectRequest struct {
	Status *string `json:"status"`
}

// SavePageRequest guarda (crea o reemplaza) una página del brochure.
type SavePageRequest struct {
	ProjectID  string          `json:"project_id"`
	PageNumber int             `json:"page_number"`
	Content    PageContentBody `json:"content"`
}

// PageContentBody contenido editable de la página.
type PageContentBody struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
	Layout   string `json:"layout"`
}

// ApprovePageRequest decisión de aprobación sobre una página.
type ApprovePageRequest struct {
	Status  string `json:"status"` // approved | rejected
	Comment string `json:"comment"`
}

// AddPageCommentRequest comentario sobre una página.
type AddPageCommentRequest struct {
	PageID string `json:"page_id"`
	Text   string `json:"text"`
}

// BrochureProjectResponse proyección JSON del brochure.
type BrochureProjectResponse struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	ClientID   string    `json:"client_id"`
	ClientName string    `json:"client_name"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToBrochureProjectResponse mapea la entidad a su proyección.
func ToBrochureProjectResponse(b entity.BrochureProject) BrochureProjectResponse {
	return BrochureProjectResponse{
		ID:         b.ID,
		ProjectID:  b.ProjectID,
		ClientID:   b.ClientID,
		ClientName: b.ClientName,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ToBrochureProjectResponses mapea la lista completa.
func ToBrochureProjectResponses(list []entity.BrochureProject) []BrochureProjectResponse {
	out := make([]BrochureProjectResponse, 0, len(list))
	for _, b := range list {
		out = append(out, ToBrochureProjectResponse(b))
	}
	return out
}

// BrochurePageResponse proyección JSON de la página con su candado.
type BrochurePageResponse struct {
	ID             string          `json:"id"`
	ProjectID      string          `json:"project_id"`
	PageNumber     int             `json:"page_number"`
	Content        PageContentBody `json:"content"`
	ApprovalStatus string          `json:"approval_status"`
	IsLocked       bool            `json:"is_locked"`
	LockedBy       string          `json:"locked_by,omitempty"`
	LockedByName   string          `json:"locked_by_name,omitempty"`
	LockedAt       *time.Time      `json:"locked_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToBrochurePageResponse mapea la entidad a su proyección.
func ToBrochurePageResponse(p entity.BrochurePage) BrochurePageResponse {
	return BrochurePageResponse{
		ID:         p.ID,
		ProjectID:  p.ProjectID,
		PageNumber: p.PageNumber,
		Content: PageContentBody{
			Title:    p.Content.Title,
			Body:     p.Content.Body,
			ImageURL: p.Content.ImageURL,
			Layout:   p.Content.Layout,
		},
		ApprovalStatus: string(p.ApprovalStatus),
		IsLocked:       p.IsLocked,
		LockedBy:       p.LockedBy,
		LockedByName:   p.LockedByName,
		LockedAt:       p.LockedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToBrochurePageResponses mapea la lista completa.
func ToBrochurePageResponses(list []entity.BrochurePage) []BrochurePageResponse {
	out := make([]BrochurePageResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToBrochurePageResponse(p))
	}
	return out
}

// PageCommentResponse proyección JSON del comentario de página.
type PageCommentResponse struct {
	ID         string    `json:"id"`
	PageID     string    `json:"page_id"`
	Text       string    `json:"text"`
	AddedBy    string    `json:"added_by"`
	AuthorName string    `json:"author_name"`
	AuthorRole string    `json:"author_role"`
	MarkedDone bool      `json:"marked_done"`
	Timestamp  time.Time `json:"timestamp"`
}

// ToPageCommentResponses mapea la lista completa.
func ToPageCommentResponses(list []entity.PageComment) []PageCommentResponse {
	out := make([]PageCommentResponse, 0, len(list))
	for _, c := range list {
		out = append(out, PageCommentResponse{
			ID:         c.ID,
			PageID:     c.PageID,
			Text:       c.Text,
			AddedBy:    c.AddedBy,
			AuthorName: c.AuthorName,
			AuthorRole: string(c.AuthorRole),
			MarkedDone: c.MarkedDone,
			Timestamp:  c.Timestamp,
		})
	}
	return out
}
