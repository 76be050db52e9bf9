// Package scope calcula el alcance de acceso: el conjunto de ids de proyecto
// que el actor puede leer. Ese conjunto condiciona todas las consultas
// posteriores; un alcance vacío significa "sin acceso", nunca "sin filtro".
package scope

import (
	"context"
	"sort"

	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/pkg/logger"
)

// Scope conjunto inmutable de ids de proyecto accesibles.
type Scope struct {
	ids map[string]struct{}
}

// NewScope construye un alcance a partir de ids (para tests y derivados).
func NewScope(ids ...string) Scope {
	s := Scope{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Contains indica si el proyecto está dentro del alcance.
func (s Scope) Contains(projectID string) bool {
	_, ok := s.ids[projectID]
	return ok
}

// IDs devuelve los ids ordenados (consultas IN deterministas).
func (s Scope) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len cantidad de proyectos accesibles.
func (s Scope) Len() int { return len(s.ids) }

// Resolver resuelve el alcance contra el record store según el rol.
type Resolver struct {
	records record.Store
	log     *logger.Logger
}

// NewResolver construye el resolver.
func NewResolver(records record.Store, log *logger.Logger) *Resolver {
	return &Resolver{records: records, log: log}
}

// Resolve calcula los proyectos visibles para el actor:
//   - client: proyectos con client_id = actor
//   - employee: proyectos cuyo assigned_employees contiene al actor
//   - manager: todos
//
// Si el store no responde o el actor falta, devuelve el alcance vacío y deja
// warning: el llamador debe tratarlo como "sin acceso".
func (r *Resolver) Resolve(ctx context.Context, actor *entity.Actor) Scope {
	if actor == nil {
		r.log.Warn().Msg("resolve scope sin actor")
		return NewScope()
	}

	q := record.Query{Relation: record.RelProjects}
	switch actor.Role {
	case entity.RoleClient:
		q.Filters = []record.Filter{record.Eq("client_id", actor.ID)}
	case entity.RoleEmployee:
		q.Filters = []record.Filter{record.Contains("assigned_employees", actor.ID)}
	case entity.RoleManager:
		// sin filtro: todos los proyectos
	default:
		r.log.Warn().Str("role", string(actor.Role)).Msg("rol desconocido al resolver alcance")
		return NewScope()
	}

	rows, err := r.records.Select(ctx, q)
	if err != nil {
		r.log.Warn().Err(err).Str("user_id", actor.ID).Msg("record store no disponible al resolver alcance")
		return NewScope()
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if id := row.String("id"); id != "" {
			ids = append(ids, id)
		}
	}
	return NewScope(ids...)
}
