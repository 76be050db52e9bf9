package dto

import (
	"time"

	"github.com/projectdesk/api/internal/domain/entity"
)

// ScheduleMeetingRequest agenda una reunión (familia local, sin persistencia remota).
type ScheduleMeetingRequest struct {
	ProjectID    string    `json:"project_id"`
	Title        string    `json:"title"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Participants []string  `json:"participants"`
	Notes        string    `json:"notes"`
}

// MeetingResponse proyección JSON de la reunión.
type MeetingResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Title        string    `json:"title"`
	ScheduledFor time.Time `json:"scheduled_for"`
	ScheduledBy  string    `json:"scheduled_by"`
	Participants []string  `json:"participants"`
	Notes        string    `json:"notes"`
}

// ToMeetingResponses mapea la lista completa.
func ToMeetingResponses(list []entity.Meeting) []MeetingResponse {
	out := make([]MeetingResponse, 0, len(list))
	for _, m := range list {
		out = append(out, MeetingResponse{
			ID:           m.ID,
			ProjectID:    m.ProjectID,
			Title:        m.Title,
			ScheduledFor: m.ScheduledFor,
			ScheduledBy:  m.ScheduledBy,
			Participants: m.Participants,
			Notes:        m.Notes,
		})
	}
	return out
}

// CreateLeadRequest alta de lead comercial (familia local).
type CreateLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
}

// UpdateLeadRequest patch parcial del lead.
type UpdateLeadRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Notes   *string `json:"notes"`
	Status  *string `json:"status"`
}

// LeadResponse proyección JSON del lead.
type LeadResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Notes     string    `json:"notes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToLeadResponses mapea la lista completa.
func ToLeadResponses(list []entity.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(list))
	for _, l := range list {
		out = append(out, LeadResponse{
			ID:        l.ID,
			Name:      l.Name,
			Email:     l.Email,
			Phone:     l.Phone,
			Company:   l.Company,
			Notes:     l.Notes,
			Status:    string(l.Status),
			CreatedAt: l.CreatedAt,
			UpdatedAt: l.UpdatedAt,
		})
	}
	return out
}

// UserResponse perfil visible de un usuario.
type UserResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ToUserResponse mapea la entidad a su proyección (jamás expone el hash).
func ToUserResponse(u entity.User) UserResponse {
	return UserResponse{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: string(u.Role)}
}

// ToUserResponses mapea la lista completa.
func ToUserResponses(list []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, ToUserResponse(u))
	}
	return out
}
