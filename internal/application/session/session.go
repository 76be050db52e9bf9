// Package session contiene el agregado de estado por actor: el alcance
// resuelto y los sincronizadores remotos, más el acceso al Workspace
// compartido donde viven las familias locales (reuniones, leads, brochures,
// comentarios de página, historial de descargas). Una sesión se crea al
// primer request autenticado y muere con el logout; el Workspace sobrevive a
// las sesiones individuales.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/application/scope"
	appsync "github.com/projectdesk/api/internal/application/sync"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/pkg/logger"
)

// Session estado completo de un actor autenticado.
type Session struct {
	actor    *entity.Actor
	resolver *scope.Resolver
	log      *logger.Logger

	projects     *appsync.ProjectSync
	stages       *appsync.StageSync
	tasks        *appsync.TaskSync
	commentTasks *appsync.CommentTaskSync
	comments     *appsync.CommentSync
	files        *appsync.FileSync
	overviews    *appsync.OverviewSync
	users        *appsync.UserSync

	ws *Workspace

	init sync.Once

	mu sync.Mutex
	sc scope.Scope
}

// New construye la sesión sin cargarla; Initialize hace la carga inicial.
func New(actor *entity.Actor, resolver *scope.Resolver, records record.Store, ws *Workspace, log *logger.Logger) *Session {
	return &Session{
		actor:        actor,
		resolver:     resolver,
		ws:           ws,
		log:          log,
		projects:     appsync.NewProjectSync(records, log),
		stages:       appsync.NewStageSync(records, log),
		tasks:        appsync.NewTaskSync(records, log),
		commentTasks: appsync.NewCommentTaskSync(records, log),
		comments:     appsync.NewCommentSync(records, log),
		files:        appsync.NewFileSync(records, log),
		overviews:    appsync.NewOverviewSync(records, log),
		users:        appsync.NewUserSync(records, log),
	}
}

// Initialize resuelve el alcance y carga las familias remotas en orden fijo:
// proyectos primero (de ahí sale el alcance efectivo), después las familias
// que solo dependen del alcance, y al final las derivadas. Los fallos de
// carga ya quedaron logueados por cada sincronizador; la sesión arranca con
// lo que se pudo cargar.
func (s *Session) Initialize(ctx context.Context) {
	sc := s.resolver.Resolve(ctx, s.actor)
	s.mu.Lock()
	s.sc = sc
	s.mu.Unlock()

	_ = s.projects.Load(ctx, s.actor)
	_ = s.users.Load(ctx)
	_ = s.stages.Load(ctx, sc)
	_ = s.files.Load(ctx, sc)
	_ = s.tasks.Load(ctx, s.actor, sc)
	_ = s.overviews.Load(ctx, sc)
	_ = s.commentTasks.Load(ctx, sc)
	_ = s.comments.Load(ctx, sc)
}

// Actor actor dueño de la sesión.
func (s *Session) Actor() *entity.Actor { return s.actor }

// Scope alcance vigente.
func (s *Session) Scope() scope.Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sc
}

// RefreshScope vuelve a resolver el alcance. Se llama tras crear o borrar
// proyectos, que son las operaciones que lo alteran.
func (s *Session) RefreshScope(ctx context.Context) scope.Scope {
	sc := s.resolver.Resolve(ctx, s.actor)
	s.mu.Lock()
	s.sc = sc
	s.mu.Unlock()
	return sc
}

// Accesores a los sincronizadores remotos.

func (s *Session) Projects() *appsync.ProjectSync         { return s.projects }
func (s *Session) Stages() *appsync.StageSync             { return s.stages }
func (s *Session) Tasks() *appsync.TaskSync               { return s.tasks }
func (s *Session) CommentTasks() *appsync.CommentTaskSync { return s.commentTasks }
func (s *Session) Comments() *appsync.CommentSync         { return s.comments }
func (s *Session) Files() *appsync.FileSync               { return s.files }
func (s *Session) Overviews() *appsync.OverviewSync       { return s.overviews }
func (s *Session) Users() *appsync.UserSync               { return s.users }

// CreateProject crea el proyecto, sus etapas por defecto y refresca alcance y
// familias hijas para que el proyecto nuevo sea visible de inmediato.
func (s *Session) CreateProject(ctx context.Context, in dto.CreateProjectRequest) (string, error) {
	id, err := s.projects.Create(ctx, s.actor, in)
	if err != nil {
		return "", err
	}
	if err := s.stages.CreateDefaults(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("project_id", id).Msg("creación de etapas por defecto falló")
	}
	sc := s.RefreshScope(ctx)
	if err := s.stages.Load(ctx, sc); err == nil {
		_ = s.overviews.Load(ctx, sc)
	}
	return id, nil
}

// DeleteProject borra el proyecto con su resumen y refresca el alcance.
func (s *Session) DeleteProject(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.overviews.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("project_id", id).Msg("borrado del resumen falló")
	}
	s.RefreshScope(ctx)
	return nil
}

// ─────────────────────────── Familias locales ───────────────────────────

// ScheduleMeeting agenda una reunión en memoria.
func (s *Session) ScheduleMeeting(in dto.ScheduleMeetingRequest) (entity.Meeting, error) {
	if in.Title == "" {
		return entity.Meeting{}, &domain.ValidationError{Field: "title", Reason: "requerido"}
	}
	m := entity.Meeting{
		ID:           uuid.NewString(),
		ProjectID:    in.ProjectID,
		Title:        in.Title,
		ScheduledFor: in.ScheduledFor,
		ScheduledBy:  s.actor.ID,
		Participants: in.Participants,
		Notes:        in.Notes,
	}
	s.ws.mu.Lock()
	s.ws.meetings = append(s.ws.meetings, m)
	s.ws.mu.Unlock()
	return m, nil
}

// Meetings reuniones agendadas.
func (s *Session) Meetings() []entity.Meeting {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	out := make([]entity.Meeting, len(s.ws.meetings))
	copy(out, s.ws.meetings)
	return out
}

// CreateLead alta de lead comercial. Solo managers gestionan leads.
func (s *Session) CreateLead(in dto.CreateLeadRequest) (entity.Lead, error) {
	if s.actor.Role != entity.RoleManager {
		return entity.Lead{}, domain.ErrForbidden
	}
	if in.Name == "" {
		return entity.Lead{}, &domain.ValidationError{Field: "name", Reason: "requerido"}
	}
	now := time.Now().UTC()
	l := entity.Lead{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		Notes:     in.Notes,
		Status:    entity.LeadNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.ws.mu.Lock()
	s.ws.leads = append(s.ws.leads, l)
	s.ws.mu.Unlock()
	return l, nil
}

// UpdateLead patch parcial del lead.
func (s *Session) UpdateLead(id string, in dto.UpdateLeadRequest) (entity.Lead, error) {
	if s.actor.Role != entity.RoleManager {
		return entity.Lead{}, domain.ErrForbidden
	}
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	for i := range s.ws.leads {
		if s.ws.leads[i].ID != id {
			continue
		}
		l := &s.ws.leads[i]
		if in.Name != nil {
			l.Name = *in.Name
		}
		if in.Email != nil {
			l.Email = *in.Email
		}
		if in.Phone != nil {
			l.Phone = *in.Phone
		}
		if in.Company != nil {
			l.Company = *in.Company
		}
		if in.Notes != nil {
			l.Notes = *in.Notes
		}
		if in.Status != nil {
			switch entity.LeadStatus(*in.Status) {
			case entity.LeadNew, entity.LeadContacted, entity.LeadQualified, entity.LeadLost:
				l.Status = entity.LeadStatus(*in.Status)
			default:
				return entity.Lead{}, &domain.ValidationError{Field: "status", Reason: "estado desconocido"}
			}
		}
		l.UpdatedAt = time.Now().UTC()
		return *l, nil
	}
	return entity.Lead{}, domain.ErrNotFound
}

// DeleteLead elimina el lead.
func (s *Session) DeleteLead(id string) error {
	if s.actor.Role != entity.RoleManager {
		return domain.ErrForbidden
	}
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	for i := range s.ws.leads {
		if s.ws.leads[i].ID == id {
			s.ws.leads = append(s.ws.leads[:i], s.ws.leads[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// Leads leads registrados.
func (s *Session) Leads() []entity.Lead {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	out := make([]entity.Lead, len(s.ws.leads))
	copy(out, s.ws.leads)
	return out
}

// RecordDownload registra la descarga: incrementa el contador remoto y agrega
// la entrada al historial compartido.
func (s *Session) RecordDownload(ctx context.Context, fileID string) error {
	f, ok := s.files.Find(fileID)
	if !ok {
		return domain.ErrNotFound
	}
	if err := s.files.RecordDownload(ctx, s.Scope(), fileID, s.actor); err != nil {
		return err
	}
	s.ws.mu.Lock()
	s.ws.downloads = append(s.ws.downloads, entity.DownloadEntry{
		FileID:       fileID,
		Filename:     f.Filename,
		DownloadedBy: s.actor.DisplayName,
		Timestamp:    time.Now().UTC(),
	})
	s.ws.mu.Unlock()
	return nil
}

// DownloadHistory historial de descargas del proceso.
func (s *Session) DownloadHistory() []entity.DownloadEntry {
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	out := make([]entity.DownloadEntry, len(s.ws.downloads))
	copy(out, s.ws.downloads)
	return out
}
