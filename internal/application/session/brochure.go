package session

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/entity"
)

// Flujo de brochures: familia compartida con candado de edición por página.
// El candado se adquiere de forma condicional (si otro lo tiene, ErrLockHeld)
// y guardar o liberar exige ser el portador; un manager puede forzar la
// liberación.

// CreateBrochureProject alta del flujo de brochure para un proyecto.
func (s *Session) CreateBrochureProject(in dto.CreateBrochureProjectRequest) (entity.BrochureProject, error) {
	if in.ProjectID == "" {
		return entity.BrochureProject{}, &domain.ValidationError{Field: "project_id", Reason: "requerido"}
	}
	if !s.Scope().Contains(in.ProjectID) {
		return entity.BrochureProject{}, &domain.AuthorizationError{ActorID: s.actor.ID, ProjectID: in.ProjectID}
	}
	now := time.Now().UTC()
	b := entity.BrochureProject{
		ID:         uuid.NewString(),
		ProjectID:  in.ProjectID,
		ClientID:   in.ClientID,
		ClientName: in.ClientName,
		Status:     entity.BrochureDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.ws.mu.Lock()
	s.ws.brochures = append(s.ws.brochures, b)
	s.ws.mu.Unlock()
	return b, nil
}

// UpdateBrochureStatus avanza el flujo del brochure.
func (s *Session) UpdateBrochureStatus(id string, status entity.BrochureStatus) (entity.BrochureProject, error) {
	switch status {
	case entity.BrochureDraft, entity.BrochureReadyForDesign, entity.BrochureInDesign, entity.BrochureCompleted:
	default:
		return entity.BrochureProject{}, &domain.ValidationError{Field: "status", Reason: "estado desconocido"}
	}
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	for i := range s.ws.brochures {
		if s.ws.brochures[i].ID == id {
			s.ws.brochures[i].Status = status
			s.ws.brochures[i].UpdatedAt = time.Now().UTC()
			return s.ws.brochures[i], nil
		}
	}
	return entity.BrochureProject{}, domain.ErrNotFound
}

// BrochureProjects brochures registrados.
func (s *Session) BrochureProjects() []entity.BrochureProject {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	out := make([]entity.BrochureProject, len(s.ws.brochures))
	copy(out, s.ws.brochures)
	return out
}

// BrochureProjectsForReview brochures que esperan revisión de diseño
// (derivado puro: solo los marcados ready_for_design).
func (s *Session) BrochureProjectsForReview() []entity.BrochureProject {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	out := make([]entity.BrochureProject, 0)
	for _, b := range s.ws.brochures {
		if b.Status == entity.BrochureReadyForDesign {
			out = append(out, b)
		}
	}
	return out
}

// BrochurePages páginas de un proyecto ordenadas por número.
func (s *Session) BrochurePages(projectID string) []entity.BrochurePage {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	out := make([]entity.BrochurePage, 0)
	for _, p := range s.ws.pages {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PageNumber < out[j].PageNumber })
	return out
}

// LockPage adquisición condicional del candado. Si otro actor lo tiene,
// ErrLockHeld; volver a bloquear la propia página es idempotente.
func (s *Session) LockPage(pageID string) (entity.BrochurePage, error) {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	for i := range s.ws.pages {
		if s.ws.pages[i].ID != pageID {
			continue
		}
		p := &s.ws.pages[i]
		if p.IsLocked && p.LockedBy != s.actor.ID {
			return entity.BrochurePage{}, domain.ErrLockHeld
		}
		now := time.Now().UTC()
		p.IsLocked = true
		p.LockedBy = s.actor.ID
		p.LockedByName = s.actor.DisplayName
		p.LockedAt = &now
		return *p, nil
	}
	return entity.BrochurePage{}, domain.ErrNotFound
}

// UnlockPage libera el candado. Solo el portador, o un manager que fuerza la
// liberación.
func (s *Session) UnlockPage(pageID string) (entity.BrochurePage, error) {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	for i := range s.ws.pages {
		if s.ws.pages[i].ID != pageID {
			continue
		}
		p := &s.ws.pages[i]
		if p.IsLocked && p.LockedBy != s.actor.ID && s.actor.Role != entity.RoleManager {
			return entity.BrochurePage{}, domain.ErrLockHeld
		}
		clearLock(p)
		return *p, nil
	}
	return entity.BrochurePage{}, domain.ErrNotFound
}

// SavePage crea o reemplaza la página (clave: proyecto + número). Si la
// página existe y otro actor tiene el candado, ErrLockHeld. Guardar libera el
// candado y devuelve la aprobación a pending.
func (s *Session) SavePage(in dto.SavePageRequest) (entity.BrochurePage, error) {
	if in.ProjectID == "" || in.PageNumber < 1 {
		return entity.BrochurePage{}, &domain.ValidationError{Field: "page_number", Reason: "proyecto y número de página requeridos"}
	}
	if !s.Scope().Contains(in.ProjectID) {
		return entity.BrochurePage{}, &domain.AuthorizationError{ActorID: s.actor.ID, ProjectID: in.ProjectID}
	}
	content := entity.PageContent{
		Title:    in.Content.Title,
		Body:     in.Content.Body,
		ImageURL: in.Content.ImageURL,
		Layout:   in.Content.Layout,
	}
	now := time.Now().UTC()

	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	for i := range s.ws.pages {
		if s.ws.pages[i].ProjectID != in.ProjectID || s.ws.pages[i].PageNumber != in.PageNumber {
			continue
		}
		p := &s.ws.pages[i]
		if p.IsLocked && p.LockedBy != s.actor.ID {
			return entity.BrochurePage{}, domain.ErrLockHeld
		}
		p.Content = content
		p.ApprovalStatus = entity.ApprovalPending
		p.UpdatedAt = now
		clearLock(p)
		return *p, nil
	}

	p := entity.BrochurePage{
		ID:             uuid.NewString(),
		ProjectID:      in.ProjectID,
		PageNumber:     in.PageNumber,
		Content:        content,
		ApprovalStatus: entity.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.ws.pages = append(s.ws.pages, p)
	return p, nil
}

// DeletePage elimina la página y sus comentarios. El candado manda igual que
// al guardar: si otro actor lo tiene, ErrLockHeld, salvo que borre un manager.
func (s *Session) DeletePage(pageID string) error {
	sc := s.Scope()
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	for i := range s.ws.pages {
		if s.ws.pages[i].ID != pageID {
			continue
		}
		p := s.ws.pages[i]
		if !sc.Contains(p.ProjectID) {
			return &domain.AuthorizationError{ActorID: s.actor.ID, ProjectID: p.ProjectID}
		}
		if p.IsLocked && p.LockedBy != s.actor.ID && s.actor.Role != entity.RoleManager {
			return domain.ErrLockHeld
		}
		s.ws.pages = append(s.ws.pages[:i], s.ws.pages[i+1:]...)
		kept := s.ws.pageNotes[:0]
		for _, c := range s.ws.pageNotes {
			if c.PageID != pageID {
				kept = append(kept, c)
			}
		}
		s.ws.pageNotes = kept
		return nil
	}
	return domain.ErrNotFound
}

// ApprovePage registra la decisión del revisor y, si trae comentario, lo
// agrega como comentario de página.
func (s *Session) ApprovePage(pageID string, in dto.ApprovePageRequest) (entity.BrochurePage, error) {
	var status entity.ApprovalStatus
	switch in.Status {
	case string(entity.ApprovalApproved):
		status = entity.ApprovalApproved
	case string(entity.ApprovalRejected):
		status = entity.ApprovalRejected
	default:
		return entity.BrochurePage{}, &domain.ValidationError{Field: "status", Reason: "debe ser approved o rejected"}
	}

	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	for i := range s.ws.pages {
		if s.ws.pages[i].ID != pageID {
			continue
		}
		p := &s.ws.pages[i]
		p.ApprovalStatus = status
		p.UpdatedAt = time.Now().UTC()
		if in.Comment != "" {
			s.ws.pageNotes = append(s.ws.pageNotes, entity.PageComment{
				ID:         uuid.NewString(),
				PageID:     pageID,
				Text:       in.Comment,
				AddedBy:    s.actor.ID,
				AuthorName: s.actor.DisplayName,
				AuthorRole: s.actor.Role,
				Timestamp:  time.Now().UTC(),
			})
		}
		return *p, nil
	}
	return entity.BrochurePage{}, domain.ErrNotFound
}

// AddPageComment comentario sobre una página de brochure.
func (s *Session) AddPageComment(in dto.AddPageCommentRequest) (entity.PageComment, error) {
	if in.Text == "" {
		return entity.PageComment{}, &domain.ValidationError{Field: "text", Reason: "requerido"}
	}
	c := entity.PageComment{
		ID:         uuid.NewString(),
		PageID:     in.PageID,
		Text:       in.Text,
		AddedBy:    s.actor.ID,
		AuthorName: s.actor.DisplayName,
		AuthorRole: s.actor.Role,
		Timestamp:  time.Now().UTC(),
	}
	s.ws.mu.Lock()
	s.ws.pageNotes = append(s.ws.pageNotes, c)
	s.ws.mu.Unlock()
	return c, nil
}

// MarkPageCommentDone marca el comentario como atendido.
func (s *Session) MarkPageCommentDone(commentID string) error {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	for i := range s.ws.pageNotes {
		if s.ws.pageNotes[i].ID == commentID {
			s.ws.pageNotes[i].MarkedDone = true
			return nil
		}
	}
	return domain.ErrNotFound
}

// PageComments comentarios de una página.
func (s *Session) PageComments(pageID string) []entity.PageComment {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	out := make([]entity.PageComment, 0)
	for _, c := range s.ws.pageNotes {
		if c.PageID == pageID {
			out = append(out, c)
		}
	}
	return out
}

func clearLock(p *entity.BrochurePage) {
	p.IsLocked = false
	p.LockedBy = ""
	p.LockedByName = ""
	p.LockedAt = nil
}
