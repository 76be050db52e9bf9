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

// CommentSync sincronizador de comentarios globales de proyecto. La edición y
// el borrado son exclusivos del autor o de un manager.
type CommentSync struct {
	records record.Store
	log     *logger.Logger
	snap    snapshot[entity.GlobalComment]
}

// NewCommentSync construye el sincronizador.
func NewCommentSync(records record.Store, log *logger.Logger) *CommentSync {
	return &CommentSync{records: records, log: log}
}

// Items snapshot actual.
func (s *CommentSync) Items() []entity.GlobalComment { return s.snap.list() }

// ForProject comentarios de un proyecto (derivado puro del snapshot).
func (s *CommentSync) ForProject(projectID string) []entity.GlobalComment {
	out := make([]entity.GlobalComment, 0)
	for _, c := range s.snap.list() {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out
}

// Load recarga los comentarios de los proyectos en alcance.
func (s *CommentSync) Load(ctx context.Context, sc scope.Scope) error {
	if sc.Len() == 0 {
		s.snap.replace([]entity.GlobalComment{})
		return nil
	}
	rows, err := s.records.Select(ctx, record.Query{
		Relation: record.RelComments,
		Filters:  []record.Filter{record.In("project_id", sc.IDs())},
		OrderBy:  &record.Order{Field: "timestamp", Desc: true},
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("carga de comentarios falló; se conserva el snapshot anterior")
		return err
	}
	comments := make([]entity.GlobalComment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, rowToComment(row))
	}
	s.snap.replace(comments)
	return nil
}

// Add inserta el comentario con autoría del actor y recarga.
func (s *CommentSync) Add(ctx context.Context, actor *entity.Actor, sc scope.Scope, in dto.AddCommentRequest) error {
	if in.Text == "" {
		return &domain.ValidationError{Field: "text", Reason: "requerido"}
	}
	if !sc.Contains(in.ProjectID) {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: in.ProjectID}
	}
	row := record.Row{
		"project_id":  in.ProjectID,
		"text":        in.Text,
		"added_by":    actor.ID,
		"author_name": actor.DisplayName,
		"author_role": string(actor.Role),
		"timestamp":   time.Now().UTC(),
	}
	if _, err := s.records.Insert(ctx, record.RelComments, row); err != nil {
		return err
	}
	if err := s.Load(ctx, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras agregar comentario falló")
	}
	return nil
}

// Update edita el texto. Solo el autor o un manager.
func (s *CommentSync) Update(ctx context.Context, actor *entity.Actor, sc scope.Scope, id, text string) error {
	if text == "" {
		return &domain.ValidationError{Field: "text", Reason: "requerido"}
	}
	c, ok := s.snap.find(func(c entity.GlobalComment) bool { return c.ID == id })
	if !ok {
		return domain.ErrNotFound
	}
	if c.AddedBy != actor.ID && actor.Role != entity.RoleManager {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: c.ProjectID}
	}
	if _, err := s.records.Update(ctx, record.RelComments, id, record.Row{"text": text}); err != nil {
		return err
	}
	if err := s.Load(ctx, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras editar comentario falló")
	}
	return nil
}

// Delete elimina el comentario. Solo el autor o un manager.
func (s *CommentSync) Delete(ctx context.Context, actor *entity.Actor, id string) error {
	c, ok := s.snap.find(func(c entity.GlobalComment) bool { return c.ID == id })
	if !ok {
		return domain.ErrNotFound
	}
	if c.AddedBy != actor.ID && actor.Role != entity.RoleManager {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: c.ProjectID}
	}
	if err := s.records.Delete(ctx, record.RelComments, id); err != nil {
		return err
	}
	s.snap.prune(func(c entity.GlobalComment) bool { return c.ID == id })
	return nil
}

func rowToComment(row record.Row) entity.GlobalComment {
	return entity.GlobalComment{
		ID:         row.String("id"),
		ProjectID:  row.String("project_id"),
		Text:       row.String("text"),
		AddedBy:    row.String("added_by"),
		AuthorName: row.String("author_name"),
		AuthorRole: entity.Role(row.String("author_role")),
		Timestamp:  row.Time("timestamp"),
	}
}
