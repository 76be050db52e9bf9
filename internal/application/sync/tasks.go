package sync

import (
	"context"
	"sort"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/application/scope"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/pkg/logger"
)

// TaskSync sincronizador de tareas. Visibilidad: client ve tareas de sus
// proyectos; employee la unión de las asignadas a él y las de proyectos en
// alcance (dos consultas, los filtros del puerto solo conjuntan); manager todas.
type TaskSync struct {
	records record.Store
	log     *logger.Logger
	snap    snapshot[entity.Task]
}

// NewTaskSync construye el sincronizador.
func NewTaskSync(records record.Store, log *logger.Logger) *TaskSync {
	return &TaskSync{records: records, log: log}
}

// Items snapshot actual de tareas.
func (s *TaskSync) Items() []entity.Task { return s.snap.list() }

// Load recarga las tareas visibles para el actor.
func (s *TaskSync) Load(ctx context.Context, actor *entity.Actor, sc scope.Scope) error {
	ordered := &record.Order{Field: "created_at", Desc: true}
	var rows []record.Row
	var err error

	switch actor.Role {
	case entity.RoleClient:
		if sc.Len() == 0 {
			s.snap.replace([]entity.Task{})
			return nil
		}
		rows, err = s.records.Select(ctx, record.Query{
			Relation: record.RelTasks,
			Filters:  []record.Filter{record.In("project_id", sc.IDs())},
			OrderBy:  ordered,
		})
	case entity.RoleEmployee:
		assigned, aerr := s.records.Select(ctx, record.Query{
			Relation: record.RelTasks,
			Filters:  []record.Filter{record.Eq("assigned_to", actor.ID)},
		})
		if aerr != nil {
			err = aerr
			break
		}
		rows = assigned
		if sc.Len() > 0 {
			inScope, serr := s.records.Select(ctx, record.Query{
				Relation: record.RelTasks,
				Filters:  []record.Filter{record.In("project_id", sc.IDs())},
			})
			if serr != nil {
				err = serr
				break
			}
			rows = mergeByID(assigned, inScope)
		}
	case entity.RoleManager:
		rows, err = s.records.Select(ctx, record.Query{Relation: record.RelTasks, OrderBy: ordered})
	}

	if err != nil {
		s.log.Warn().Err(err).Msg("carga de tareas falló; se conserva el snapshot anterior")
		return err
	}

	tasks := make([]entity.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, rowToTask(row))
	}
	// La unión pierde el orden del store; se reordena en memoria.
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	s.snap.replace(tasks)
	return nil
}

// Create inserta la tarea con el actor como created_by y recarga.
func (s *TaskSync) Create(ctx context.Context, actor *entity.Actor, sc scope.Scope, in dto.CreateTaskRequest) error {
	if in.Title == "" {
		return &domain.ValidationError{Field: "title", Reason: "requerido"}
	}
	if in.ProjectID == "" {
		return &domain.ValidationError{Field: "project_id", Reason: "requerido"}
	}
	if !sc.Contains(in.ProjectID) {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: in.ProjectID}
	}
	row := record.Row{
		"project_id":  in.ProjectID,
		"title":       in.Title,
		"description": in.Description,
		"assigned_to": in.AssignedTo,
		"created_by":  actor.ID,
		"status":      defaultStr(in.Status, string(entity.TaskOpen)),
		"priority":    defaultStr(in.Priority, string(entity.PriorityMedium)),
		"deadline":    in.Deadline,
	}
	if _, err := s.records.Insert(ctx, record.RelTasks, row); err != nil {
		return err
	}
	if err := s.Load(ctx, actor, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras crear tarea falló")
	}
	return nil
}

// UpdateStatus cambia el estado (transiciones libres) y recarga.
func (s *TaskSync) UpdateStatus(ctx context.Context, actor *entity.Actor, sc scope.Scope, taskID string, status entity.TaskStatus) error {
	switch status {
	case entity.TaskOpen, entity.TaskInProgress, entity.TaskDone:
	default:
		return &domain.ValidationError{Field: "status", Reason: "estado desconocido"}
	}
	if err := s.mutable(actor, sc, taskID); err != nil {
		return err
	}
	if _, err := s.records.Update(ctx, record.RelTasks, taskID, record.Row{"status": string(status)}); err != nil {
		return err
	}
	if err := s.Load(ctx, actor, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras cambiar estado falló")
	}
	return nil
}

// Update aplica un patch parcial y recarga.
func (s *TaskSync) Update(ctx context.Context, actor *entity.Actor, sc scope.Scope, taskID string, in dto.UpdateTaskRequest) error {
	patch := record.Row{}
	setStr(patch, "title", in.Title)
	setStr(patch, "description", in.Description)
	setStr(patch, "assigned_to", in.AssignedTo)
	setStr(patch, "status", in.Status)
	setStr(patch, "priority", in.Priority)
	setStr(patch, "deadline", in.Deadline)
	if len(patch) == 0 {
		return &domain.ValidationError{Reason: "patch vacío"}
	}
	if err := s.mutable(actor, sc, taskID); err != nil {
		return err
	}
	if _, err := s.records.Update(ctx, record.RelTasks, taskID, patch); err != nil {
		return err
	}
	if err := s.Load(ctx, actor, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras actualizar tarea falló")
	}
	return nil
}

// mutable verifica que la tarea exista en el snapshot y que el actor pueda
// escribirla: su proyecto está en alcance, o la tarea le está asignada (la
// misma unión que rige la visibilidad del empleado).
func (s *TaskSync) mutable(actor *entity.Actor, sc scope.Scope, taskID string) error {
	t, ok := s.snap.find(func(t entity.Task) bool { return t.ID == taskID })
	if !ok {
		return domain.ErrNotFound
	}
	if !sc.Contains(t.ProjectID) && t.AssignedTo != actor.ID {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: t.ProjectID}
	}
	return nil
}

// Delete elimina la tarea y la saca del snapshot.
func (s *TaskSync) Delete(ctx context.Context, taskID string) error {
	if err := s.records.Delete(ctx, record.RelTasks, taskID); err != nil {
		return err
	}
	s.snap.prune(func(t entity.Task) bool { return t.ID == taskID })
	return nil
}

func rowToTask(row record.Row) entity.Task {
	return entity.Task{
		ID:          row.String("id"),
		ProjectID:   row.String("project_id"),
		Title:       row.String("title"),
		Description: row.String("description"),
		AssignedTo:  row.String("assigned_to"),
		CreatedBy:   row.StringOr("created_by", row.String("assigned_to")),
		Status:      entity.TaskStatus(row.StringOr("status", string(entity.TaskOpen))),
		Priority:    entity.Priority(row.StringOr("priority", string(entity.PriorityMedium))),
		Deadline:    row.String("deadline"),
		CreatedAt:   row.Time("created_at"),
		UpdatedAt:   row.Time("updated_at"),
	}
}

// mergeByID une dos resultados descartando duplicados por id.
func mergeByID(a, b []record.Row) []record.Row {
	seen := make(map[string]bool, len(a))
	out := make([]record.Row, 0, len(a)+len(b))
	for _, row := range a {
		seen[row.String("id")] = true
		out = append(out, row)
	}
	for _, row := range b {
		if !seen[row.String("id")] {
			out = append(out, row)
		}
	}
	return out
}
