// Package record define el puerto genérico de acceso al almacén relacional
// remoto: lecturas filtradas, inserts, updates parciales y deletes sobre
// relaciones nombradas. Los adaptadores (postgres, memstore) lo implementan.
package record

import "context"

// Nombres de relación que conoce el núcleo. También actúan de whitelist para
// los adaptadores que interpolan identificadores.
const (
	RelProjects     = "projects"
	RelStages       = "stages"
	RelTasks        = "tasks"
	RelCommentTasks = "comment_tasks"
	RelComments     = "global_comments"
	RelFiles        = "files"
	RelOverviews    = "project_overviews"
	RelProfiles     = "profiles"
)

// KeyField columna que identifica una fila de la relación. Overviews es 1:1
// con el proyecto: su clave es project_id, no un id generado.
func KeyField(relation string) string {
	if relation == RelOverviews {
		return "project_id"
	}
	return "id"
}

// Op operador de filtro soportado por el puerto.
type Op string

const (
	OpEq       Op = "eq"       // campo = valor
	OpIn       Op = "in"       // campo ∈ conjunto
	OpContains Op = "contains" // columna array contiene el valor
)

// Filter predicado de igualdad, pertenencia o contención sobre un campo.
// Varios filtros en una Query se combinan con AND.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Eq filtro campo = valor.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// In filtro campo ∈ values. Un conjunto vacío no matchea ninguna fila.
func In(field string, values []string) Filter {
	return Filter{Field: field, Op: OpIn, Value: values}
}

// Contains filtro sobre columna array: la columna contiene value.
func Contains(field string, value string) Filter {
	return Filter{Field: field, Op: OpContains, Value: value}
}

// Order ordenamiento por una columna.
type Order struct {
	Field string
	Desc  bool
}

// Query lectura filtrada sobre una relación.
type Query struct {
	Relation string
	Filters  []Filter
	OrderBy  *Order
}

// Store puerto de persistencia remota. Toda operación cruza la red: recibe
// context y devuelve error; ninguna debe parecer síncrona ni local.
type Store interface {
	Select(ctx context.Context, q Query) ([]Row, error)
	Insert(ctx context.Context, relation string, row Row) (Row, error)
	Update(ctx context.Context, relation, id string, patch Row) (Row, error)
	Delete(ctx context.Context, relation, id string) error
}
