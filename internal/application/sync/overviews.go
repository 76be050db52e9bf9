package sync

import (
	"context"
	"errors"

	"github.com/projectdesk/api/internal/application/scope"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/pkg/logger"
)

// OverviewSync sincronizador de resúmenes de proyecto. La relación usa
// project_id como clave: a lo sumo una fila por proyecto, y Save hace upsert
// con semántica last-writer-wins.
type OverviewSync struct {
	records record.Store
	log     *logger.Logger
	snap    snapshot[entity.ProjectOverview]
}

// NewOverviewSync construye el sincronizador.
func NewOverviewSync(records record.Store, log *logger.Logger) *OverviewSync {
	return &OverviewSync{records: records, log: log}
}

// Items snapshot actual.
func (s *OverviewSync) Items() []entity.ProjectOverview { return s.snap.list() }

// ForProject resumen de un proyecto, si existe.
func (s *OverviewSync) ForProject(projectID string) (entity.ProjectOverview, bool) {
	return s.snap.find(func(o entity.ProjectOverview) bool { return o.ProjectID == projectID })
}

// Load recarga los resúmenes de los proyectos en alcance.
func (s *OverviewSync) Load(ctx context.Context, sc scope.Scope) error {
	if sc.Len() == 0 {
		s.snap.replace([]entity.ProjectOverview{})
		return nil
	}
	rows, err := s.records.Select(ctx, record.Query{
		Relation: record.RelOverviews,
		Filters:  []record.Filter{record.In("project_id", sc.IDs())},
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("carga de resúmenes falló; se conserva el snapshot anterior")
		return err
	}
	overviews := make([]entity.ProjectOverview, 0, len(rows))
	for _, row := range rows {
		overviews = append(overviews, rowToOverview(row))
	}
	s.snap.replace(overviews)
	return nil
}

// Save hace upsert del resumen: intenta insertar y, si la fila ya existe
// (o apareció entre el chequeo y el insert), actualiza. Recarga al final.
func (s *OverviewSync) Save(ctx context.Context, actor *entity.Actor, sc scope.Scope, projectID, content string) error {
	if content == "" {
		return &domain.ValidationError{Field: "content", Reason: "requerido"}
	}
	if !sc.Contains(projectID) {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: projectID}
	}

	if _, exists := s.ForProject(projectID); exists {
		if _, err := s.records.Update(ctx, record.RelOverviews, projectID, record.Row{"content": content}); err != nil {
			return err
		}
	} else {
		_, err := s.records.Insert(ctx, record.RelOverviews, record.Row{
			"project_id": projectID,
			"content":    content,
			"created_by": actor.ID,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			// Otro escritor ganó la carrera; reintenta como update.
			_, err = s.records.Update(ctx, record.RelOverviews, projectID, record.Row{"content": content})
		}
		if err != nil {
			return err
		}
	}

	if err := s.Load(ctx, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras guardar resumen falló")
	}
	return nil
}

// Delete elimina el resumen de un proyecto.
func (s *OverviewSync) Delete(ctx context.Context, projectID string) error {
	if err := s.records.Delete(ctx, record.RelOverviews, projectID); err != nil {
		return err
	}
	s.snap.prune(func(o entity.ProjectOverview) bool { return o.ProjectID == projectID })
	return nil
}

func rowToOverview(row record.Row) entity.ProjectOverview {
	return entity.ProjectOverview{
		ProjectID: row.String("project_id"),
		Content:   row.String("content"),
		CreatedBy: row.String("created_by"),
		CreatedAt: row.Time("created_at"),
		UpdatedAt: row.Time("updated_at"),
	}
}
