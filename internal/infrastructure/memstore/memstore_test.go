package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/internal/infrastructure/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Filtros
// ──────────────────────────────────────────────────────────────────────────────

func seedProjects(s *memstore.Store) {
	s.Seed(record.RelProjects,
		record.Row{"id": "p1", "client_id": "c1", "assigned_employees": []string{"e1", "e2"}, "created_at": time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		record.Row{"id": "p2", "client_id": "c2", "assigned_employees": []string{"e2"}, "created_at": time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		record.Row{"id": "p3", "client_id": "c1", "assigned_employees": []string{}, "created_at": time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	)
}

func TestSelect_FiltroEq(t *testing.T) {
	s := memstore.New()
	seedProjects(s)

	rows, err := s.Select(context.Background(), record.Query{
		Relation: record.RelProjects,
		Filters:  []record.Filter{record.Eq("client_id", "c1")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestSelect_FiltroIn(t *testing.T) {
	s := memstore.New()
	seedProjects(s)

	rows, err := s.Select(context.Background(), record.Query{
		Relation: record.RelProjects,
		Filters:  []record.Filter{record.In("id", []string{"p1", "p3"})},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "p1", rows[0].String("id"))
	assert.Equal(t, "p3", rows[1].String("id"))
}

func TestSelect_FiltroContains(t *testing.T) {
	s := memstore.New()
	seedProjects(s)

	rows, err := s.Select(context.Background(), record.Query{
		Relation: record.RelProjects,
		Filters:  []record.Filter{record.Contains("assigned_employees", "e2")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

// Los filtros se conjuntan: no hay forma de expresar OR en una sola consulta.
func TestSelect_FiltrosConjuntan(t *testing.T) {
	s := memstore.New()
	seedProjects(s)

	rows, err := s.Select(context.Background(), record.Query{
		Relation: record.RelProjects,
		Filters: []record.Filter{
			record.Eq("client_id", "c1"),
			record.Contains("assigned_employees", "e1"),
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "p1", rows[0].String("id"))
}

func TestSelect_OrdenDescendente(t *testing.T) {
	s := memstore.New()
	seedProjects(s)

	rows, err := s.Select(context.Background(), record.Query{
		Relation: record.RelProjects,
		OrderBy:  &record.Order{Field: "created_at", Desc: true},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "p3", rows[0].String("id"))
	assert.Equal(t, "p1", rows[2].String("id"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestInsert_GeneraIDYCreatedAt(t *testing.T) {
	s := memstore.New()
	row, err := s.Insert(context.Background(), record.RelTasks, record.Row{"title": "una tarea"})
	require.NoError(t, err)
	assert.NotEmpty(t, row.String("id"))
	assert.False(t, row.Time("created_at").IsZero())
}

func TestInsert_OverviewDuplicadoPorProyecto(t *testing.T) {
	s := memstore.New()
	_, err := s.Insert(context.Background(), record.RelOverviews, record.Row{"project_id": "p1", "content": "a"})
	require.NoError(t, err)

	_, err = s.Insert(context.Background(), record.RelOverviews, record.Row{"project_id": "p1", "content": "b"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestInsert_PerfilDuplicadoPorEmail(t *testing.T) {
	s := memstore.New()
	_, err := s.Insert(context.Background(), record.RelProfiles, record.Row{"email": "a@b.co"})
	require.NoError(t, err)

	_, err = s.Insert(context.Background(), record.RelProfiles, record.Row{"email": "a@b.co"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdate_AplicaPatchYUpdatedAt(t *testing.T) {
	s := memstore.New()
	s.Seed(record.RelTasks, record.Row{"id": "t1", "title": "antes", "status": "open"})

	row, err := s.Update(context.Background(), record.RelTasks, "t1", record.Row{"status": "done"})
	require.NoError(t, err)
	assert.Equal(t, "done", row.String("status"))
	assert.Equal(t, "antes", row.String("title"), "el patch no debe tocar campos ajenos")
	assert.False(t, row.Time("updated_at").IsZero())
}

func TestUpdate_NoExiste(t *testing.T) {
	s := memstore.New()
	_, err := s.Update(context.Background(), record.RelTasks, "nope", record.Row{"status": "done"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El overview se identifica por project_id, no por un id generado.
func TestUpdate_OverviewPorProjectID(t *testing.T) {
	s := memstore.New()
	s.Seed(record.RelOverviews, record.Row{"project_id": "p1", "content": "v1"})

	row, err := s.Update(context.Background(), record.RelOverviews, "p1", record.Row{"content": "v2"})
	require.NoError(t, err)
	assert.Equal(t, "v2", row.String("content"))
}

func TestDelete_EsIdempotente(t *testing.T) {
	s := memstore.New()
	s.Seed(record.RelTasks, record.Row{"id": "t1"})

	require.NoError(t, s.Delete(context.Background(), record.RelTasks, "t1"))
	require.NoError(t, s.Delete(context.Background(), record.RelTasks, "t1"), "borrar lo ya borrado no es error")

	rows, err := s.Select(context.Background(), record.Query{Relation: record.RelTasks})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// Las filas devueltas son copias: mutarlas no debe afectar el store.
func TestSelect_DevuelveCopias(t *testing.T) {
	s := memstore.New()
	s.Seed(record.RelTasks, record.Row{"id": "t1", "title": "original"})

	rows, err := s.Select(context.Background(), record.Query{Relation: record.RelTasks})
	require.NoError(t, err)
	rows[0]["title"] = "mutado"

	again, err := s.Select(context.Background(), record.Query{Relation: record.RelTasks})
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].String("title"))
}
