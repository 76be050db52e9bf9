package sync

import (
	"context"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/pkg/logger"
)

// ProjectSync sincronizador de la familia Projects. A diferencia de las
// familias hijas, filtra directo por rol (el alcance se deriva de aquí).
type ProjectSync struct {
	records record.Store
	log     *logger.Logger
	snap    snapshot[entity.Project]
}

// NewProjectSync construye el sincronizador.
func NewProjectSync(records record.Store, log *logger.Logger) *ProjectSync {
	return &ProjectSync{records: records, log: log}
}

// Items snapshot actual de proyectos.
func (s *ProjectSync) Items() []entity.Project { return s.snap.list() }

// Load recarga los proyectos visibles para el actor. Si el store falla,
// conserva el snapshot anterior y devuelve el error ya logueado; el
// llamador puede ignorarlo sin quedarse sin datos.
func (s *ProjectSync) Load(ctx context.Context, actor *entity.Actor) error {
	q := record.Query{
		Relation: record.RelProjects,
		OrderBy:  &record.Order{Field: "created_at", Desc: true},
	}
	switch actor.Role {
	case entity.RoleClient:
		q.Filters = []record.Filter{record.Eq("client_id", actor.ID)}
	case entity.RoleEmployee:
		q.Filters = []record.Filter{record.Contains("assigned_employees", actor.ID)}
	case entity.RoleManager:
		// todos
	}

	rows, err := s.records.Select(ctx, q)
	if err != nil {
		s.log.Warn().Err(err).Msg("carga de proyectos falló; se conserva el snapshot anterior")
		return err
	}

	projects := make([]entity.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, rowToProject(row))
	}
	s.snap.replace(projects)
	return nil
}

// Create inserta el proyecto con defaults y recarga la familia. Devuelve el id
// asignado para que el orquestador cree las etapas por defecto.
func (s *ProjectSync) Create(ctx context.Context, actor *entity.Actor, in dto.CreateProjectRequest) (string, error) {
	if in.Title == "" {
		return "", &domain.ValidationError{Field: "title", Reason: "requerido"}
	}
	if in.ClientID == "" {
		return "", &domain.ValidationError{Field: "client_id", Reason: "requerido"}
	}
	row := record.Row{
		"title":               in.Title,
		"description":         in.Description,
		"client_id":           in.ClientID,
		"client_name":         in.ClientName,
		"deadline":            in.Deadline,
		"progress_percentage": 0,
		"assigned_employees":  orEmpty(in.AssignedEmployees),
		"status":              defaultStr(in.Status, string(entity.ProjectActive)),
		"priority":            defaultStr(in.Priority, string(entity.PriorityMedium)),
		"project_type":        in.ProjectType,
	}
	created, err := s.records.Insert(ctx, record.RelProjects, row)
	if err != nil {
		return "", err
	}
	if err := s.Load(ctx, actor); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras crear proyecto falló")
	}
	return created.String("id"), nil
}

// Update aplica un patch parcial y recarga.
func (s *ProjectSync) Update(ctx context.Context, actor *entity.Actor, id string, in dto.UpdateProjectRequest) error {
	patch := record.Row{}
	setStr(patch, "title", in.Title)
	setStr(patch, "description", in.Description)
	setStr(patch, "deadline", in.Deadline)
	setStr(patch, "status", in.Status)
	setStr(patch, "priority", in.Priority)
	setStr(patch, "project_type", in.ProjectType)
	if in.ProgressPercentage != nil {
		patch["progress_percentage"] = clampPercent(*in.ProgressPercentage)
	}
	if in.AssignedEmployees != nil {
		patch["assigned_employees"] = orEmpty(*in.AssignedEmployees)
	}
	if len(patch) == 0 {
		return &domain.ValidationError{Reason: "patch vacío"}
	}
	if _, err := s.records.Update(ctx, record.RelProjects, id, patch); err != nil {
		return err
	}
	if err := s.Load(ctx, actor); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras actualizar proyecto falló")
	}
	return nil
}

// Delete elimina el proyecto y lo saca del snapshot sin recarga completa.
func (s *ProjectSync) Delete(ctx context.Context, id string) error {
	if err := s.records.Delete(ctx, record.RelProjects, id); err != nil {
		return err
	}
	s.snap.prune(func(p entity.Project) bool { return p.ID == id })
	return nil
}

// rowToProject mapeo puro fila → entidad; los defaults de campos opcionales se
// enumeran solo aquí.
func rowToProject(row record.Row) entity.Project {
	return entity.Project{
		ID:                 row.String("id"),
		Title:              row.String("title"),
		Description:        row.String("description"),
		ClientID:           row.String("client_id"),
		ClientName:         row.String("client_name"),
		Deadline:           row.String("deadline"),
		ProgressPercentage: row.Int("progress_percentage"),
		AssignedEmployees:  orEmpty(row.Strings("assigned_employees")),
		Status:             entity.ProjectStatus(row.StringOr("status", string(entity.ProjectActive))),
		Priority:           entity.Priority(row.StringOr("priority", string(entity.PriorityMedium))),
		ProjectType:        row.String("project_type"),
		CreatedAt:          row.Time("created_at"),
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func setStr(patch record.Row, key string, v *string) {
	if v != nil {
		patch[key] = *v
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
