package sync

import (
	"context"
	"time"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/application/scope"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/pkg/logger"
)

// CommentTaskSync sincronizador de comentarios accionables por etapa. Nacen
// como comentario del cliente y se gestionan después como tarea ligera.
type CommentTaskSync struct {
	records record.Store
	log     *logger.Logger
	snap    snapshot[entity.CommentTask]
}

// NewCommentTaskSync construye el sincronizador.
func NewCommentTaskSync(records record.Store, log *logger.Logger) *CommentTaskSync {
	return &CommentTaskSync{records: records, log: log}
}

// Items snapshot actual.
func (s *CommentTaskSync) Items() []entity.CommentTask { return s.snap.list() }

// ForStage comentarios accionables de una etapa (derivado puro del snapshot).
func (s *CommentTaskSync) ForStage(stageID string) []entity.CommentTask {
	out := make([]entity.CommentTask, 0)
	for _, t := range s.snap.list() {
		if t.StageID == stageID {
			out = append(out, t)
		}
	}
	return out
}

// Load recarga los comentarios accionables de los proyectos en alcance.
func (s *CommentTaskSync) Load(ctx context.Context, sc scope.Scope) error {
	if sc.Len() == 0 {
		s.snap.replace([]entity.CommentTask{})
		return nil
	}
	rows, err := s.records.Select(ctx, record.Query{
		Relation: record.RelCommentTasks,
		Filters:  []record.Filter{record.In("project_id", sc.IDs())},
		OrderBy:  &record.Order{Field: "timestamp", Desc: true},
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("carga de comentarios de etapa falló; se conserva el snapshot anterior")
		return err
	}
	tasks := make([]entity.CommentTask, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, rowToCommentTask(row))
	}
	s.snap.replace(tasks)
	return nil
}

// Add inserta el comentario con autoría del actor y recarga.
func (s *CommentTaskSync) Add(ctx context.Context, actor *entity.Actor, sc scope.Scope, in dto.AddCommentTaskRequest) error {
	if in.Text == "" {
		return &domain.ValidationError{Field: "text", Reason: "requerido"}
	}
	if in.StageID == "" || in.ProjectID == "" {
		return &domain.ValidationError{Field: "stage_id", Reason: "stage_id y project_id requeridos"}
	}
	if !sc.Contains(in.ProjectID) {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: in.ProjectID}
	}
	row := record.Row{
		"stage_id":    in.StageID,
		"project_id":  in.ProjectID,
		"text":        in.Text,
		"added_by":    actor.ID,
		"author_name": actor.DisplayName,
		"author_role": string(actor.Role),
		"status":      string(entity.TaskOpen),
		"assigned_to": in.AssignedTo,
		"deadline":    in.Deadline,
		"timestamp":   time.Now().UTC(),
	}
	if _, err := s.records.Insert(ctx, record.RelCommentTasks, row); err != nil {
		return err
	}
	if err := s.Load(ctx, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras agregar comentario de etapa falló")
	}
	return nil
}

// UpdateStatus cambia el estado del comentario accionable y recarga.
func (s *CommentTaskSync) UpdateStatus(ctx context.Context, actor *entity.Actor, sc scope.Scope, id string, status entity.TaskStatus) error {
	switch status {
	case entity.TaskOpen, entity.TaskInProgress, entity.TaskDone:
	default:
		return &domain.ValidationError{Field: "status", Reason: "estado desconocido"}
	}
	if err := s.mutable(actor, sc, id); err != nil {
		return err
	}
	if _, err := s.records.Update(ctx, record.RelCommentTasks, id, record.Row{"status": string(status)}); err != nil {
		return err
	}
	if err := s.Load(ctx, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras cambiar estado de comentario falló")
	}
	return nil
}

// Update edita el texto. Solo el autor o un manager.
func (s *CommentTaskSync) Update(ctx context.Context, actor *entity.Actor, sc scope.Scope, id, text string) error {
	if text == "" {
		return &domain.ValidationError{Field: "text", Reason: "requerido"}
	}
	t, ok := s.snap.find(func(t entity.CommentTask) bool { return t.ID == id })
	if !ok {
		return domain.ErrNotFound
	}
	if t.AddedBy != actor.ID && actor.Role != entity.RoleManager {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: t.ProjectID}
	}
	if _, err := s.records.Update(ctx, record.RelCommentTasks, id, record.Row{"text": text}); err != nil {
		return err
	}
	if err := s.Load(ctx, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras editar comentario de etapa falló")
	}
	return nil
}

// Assign asigna el comentario a un empleado con fecha límite opcional.
func (s *CommentTaskSync) Assign(ctx context.Context, actor *entity.Actor, sc scope.Scope, id, assignedTo, deadline string) error {
	patch := record.Row{"assigned_to": assignedTo}
	if deadline != "" {
		patch["deadline"] = deadline
	}
	if err := s.mutable(actor, sc, id); err != nil {
		return err
	}
	if _, err := s.records.Update(ctx, record.RelCommentTasks, id, patch); err != nil {
		return err
	}
	if err := s.Load(ctx, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras asignar comentario falló")
	}
	return nil
}

// mutable verifica que el comentario exista en el snapshot y que su proyecto
// esté en el alcance del actor.
func (s *CommentTaskSync) mutable(actor *entity.Actor, sc scope.Scope, id string) error {
	t, ok := s.snap.find(func(t entity.CommentTask) bool { return t.ID == id })
	if !ok {
		return domain.ErrNotFound
	}
	if !sc.Contains(t.ProjectID) {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: t.ProjectID}
	}
	return nil
}

// Delete elimina el comentario. Solo el autor o un manager pueden hacerlo.
func (s *CommentTaskSync) Delete(ctx context.Context, actor *entity.Actor, id string) error {
	t, ok := s.snap.find(func(t entity.CommentTask) bool { return t.ID == id })
	if !ok {
		return domain.ErrNotFound
	}
	if t.AddedBy != actor.ID && actor.Role != entity.RoleManager {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: t.ProjectID}
	}
	if err := s.records.Delete(ctx, record.RelCommentTasks, id); err != nil {
		return err
	}
	s.snap.prune(func(t entity.CommentTask) bool { return t.ID == id })
	return nil
}

func rowToCommentTask(row record.Row) entity.CommentTask {
	return entity.CommentTask{
		ID:         row.String("id"),
		StageID:    row.String("stage_id"),
		ProjectID:  row.String("project_id"),
		Text:       row.String("text"),
		AddedBy:    row.String("added_by"),
		AuthorName: row.String("author_name"),
		AuthorRole: entity.Role(row.String("author_role")),
		Status:     entity.TaskStatus(row.StringOr("status", string(entity.TaskOpen))),
		AssignedTo: row.String("assigned_to"),
		Deadline:   row.String("deadline"),
		Timestamp:  row.Time("timestamp"),
	}
}
