package sync

import (
	"context"
	"fmt"

	"github.com/projectdesk/api/internal/application/scope"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/pkg/logger"
)

// StageSync sincronizador de etapas. Acotado transitivamente por project_id:
// las filas de proyectos borrados fuera de banda quedan filtradas porque el
// alcance solo enumera proyectos existentes.
type StageSync struct {
	records record.Store
	log     *logger.Logger
	snap    snapshot[entity.Stage]
}

// NewStageSync construye el sincronizador.
func NewStageSync(records record.Store, log *logger.Logger) *StageSync {
	return &StageSync{records: records, log: log}
}

// Items snapshot actual de etapas.
func (s *StageSync) Items() []entity.Stage { return s.snap.list() }

// Load recarga las etapas de los proyectos en alcance, ordenadas por "order".
func (s *StageSync) Load(ctx context.Context, sc scope.Scope) error {
	if sc.Len() == 0 {
		s.snap.replace([]entity.Stage{})
		return nil
	}
	rows, err := s.records.Select(ctx, record.Query{
		Relation: record.RelStages,
		Filters:  []record.Filter{record.In("project_id", sc.IDs())},
		OrderBy:  &record.Order{Field: "order"},
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("carga de etapas falló; se conserva el snapshot anterior")
		return err
	}
	stages := make([]entity.Stage, 0, len(rows))
	for _, row := range rows {
		stages = append(stages, rowToStage(row))
	}
	s.snap.replace(stages)
	return nil
}

// CreateDefaults inserta el juego de etapas por defecto para un proyecto nuevo.
func (s *StageSync) CreateDefaults(ctx context.Context, projectID string) error {
	for i, name := range entity.StageNames {
		_, err := s.records.Insert(ctx, record.RelStages, record.Row{
			"project_id":          projectID,
			"name":                name,
			"notes":               fmt.Sprintf("%s stage for the project", name),
			"progress_percentage": 0,
			"approval_status":     string(entity.ApprovalPending),
			"order":               i,
		})
		if err != nil {
			return fmt.Errorf("crear etapa %s: %w", name, err)
		}
	}
	return nil
}

// UpdateProgress fija el porcentaje (clamp 0..100) y recarga.
func (s *StageSync) UpdateProgress(ctx context.Context, actor *entity.Actor, sc scope.Scope, stageID string, progress int) error {
	if err := s.mutable(actor, sc, stageID); err != nil {
		return err
	}
	if _, err := s.records.Update(ctx, record.RelStages, stageID, record.Row{
		"progress_percentage": clampPercent(progress),
	}); err != nil {
		return err
	}
	if err := s.Load(ctx, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras actualizar progreso falló")
	}
	return nil
}

// UpdateApproval registra la decisión del cliente sobre la etapa. Las
// transiciones son libres; no se fuerza ningún orden.
func (s *StageSync) UpdateApproval(ctx context.Context, actor *entity.Actor, sc scope.Scope, stageID string, status entity.ApprovalStatus) error {
	if status != entity.ApprovalApproved && status != entity.ApprovalRejected {
		return &domain.ValidationError{Field: "status", Reason: "debe ser approved o rejected"}
	}
	if err := s.mutable(actor, sc, stageID); err != nil {
		return err
	}
	if _, err := s.records.Update(ctx, record.RelStages, stageID, record.Row{
		"approval_status": string(status),
	}); err != nil {
		return err
	}
	if err := s.Load(ctx, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras aprobar etapa falló")
	}
	return nil
}

// mutable verifica que la etapa exista en el snapshot y que su proyecto esté
// en el alcance del actor. Escribir por id crudo no salta el alcance.
func (s *StageSync) mutable(actor *entity.Actor, sc scope.Scope, stageID string) error {
	st, ok := s.Find(stageID)
	if !ok {
		return domain.ErrNotFound
	}
	if !sc.Contains(st.ProjectID) {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: st.ProjectID}
	}
	return nil
}

// Find busca una etapa en el snapshot (resolver project_id de una subida).
func (s *StageSync) Find(stageID string) (entity.Stage, bool) {
	return s.snap.find(func(st entity.Stage) bool { return st.ID == stageID })
}

func rowToStage(row record.Row) entity.Stage {
	return entity.Stage{
		ID:                 row.String("id"),
		ProjectID:          row.String("project_id"),
		Name:               row.String("name"),
		Notes:              row.String("notes"),
		ProgressPercentage: row.Int("progress_percentage"),
		ApprovalStatus:     entity.ApprovalStatus(row.StringOr("approval_status", string(entity.ApprovalPending))),
		Order:              row.Int("order"),
	}
}
