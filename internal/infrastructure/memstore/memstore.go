// Package memstore implementa record.Store en memoria. Respalda los tests y
// el modo local sin base de datos; replica la semántica del adaptador postgres
// (filtros AND, orden por columna, claves únicas por relación).
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/record"
)

var _ record.Store = (*Store)(nil)

// uniqueBy relaciones con clave natural única además del id.
var uniqueBy = map[string]string{
	record.RelOverviews: "project_id",
	record.RelProfiles:  "email",
}

// Store almacén en memoria por relación, seguro para uso concurrente.
type Store struct {
	mu   sync.RWMutex
	rels map[string][]record.Row
}

// New crea un store vacío.
func New() *Store {
	return &Store{rels: make(map[string][]record.Row)}
}

// Seed inserta filas sin pasar por validaciones (fixtures de tests).
func (s *Store) Seed(relation string, rows ...record.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.rels[relation] = append(s.rels[relation], r.Clone())
	}
}

// Select devuelve las filas que satisfacen todos los filtros, ordenadas.
func (s *Store) Select(ctx context.Context, q record.Query) ([]record.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []record.Row
	for _, row := range s.rels[q.Relation] {
		if matchesAll(row, q.Filters) {
			out = append(out, row.Clone())
		}
	}
	if q.OrderBy != nil {
		sortRows(out, *q.OrderBy)
	}
	return out, nil
}

// Insert agrega la fila; genera id si falta y aplica las claves únicas.
func (s *Store) Insert(ctx context.Context, relation string, row record.Row) (record.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := row.Clone()
	key := record.KeyField(relation)
	if stored.String(key) == "" {
		stored[key] = uuid.New().String()
	}
	if nat, ok := uniqueBy[relation]; ok {
		for _, existing := range s.rels[relation] {
			if existing.String(nat) == stored.String(nat) {
				return nil, domain.ErrDuplicate
			}
		}
	}
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = time.Now().UTC()
	}
	s.rels[relation] = append(s.rels[relation], stored)
	return stored.Clone(), nil
}

// Update aplica el patch sobre la fila identificada por la clave de la relación.
func (s *Store) Update(ctx context.Context, relation, id string, patch record.Row) (record.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := record.KeyField(relation)
	for i, row := range s.rels[relation] {
		if row.String(key) == id {
			updated := row.Clone()
			for k, v := range patch {
				updated[k] = v
			}
			updated["updated_at"] = time.Now().UTC()
			s.rels[relation][i] = updated
			return updated.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete elimina la fila por clave. Borrar lo inexistente no es error.
func (s *Store) Delete(ctx context.Context, relation, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := record.KeyField(relation)
	rows := s.rels[relation]
	for i, row := range rows {
		if row.String(key) == id {
			s.rels[relation] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func matchesAll(row record.Row, filters []record.Filter) bool {
	for _, f := range filters {
		if !matches(row, f) {
			return false
		}
	}
	return true
}

func matches(row record.Row, f record.Filter) bool {
	switch f.Op {
	case record.OpEq:
		return fmt.Sprint(row[f.Field]) == fmt.Sprint(f.Value)
	case record.OpIn:
		vals, _ := f.Value.([]string)
		v := row.String(f.Field)
		for _, candidate := range vals {
			if v == candidate {
				return true
			}
		}
		return false
	case record.OpContains:
		want, _ := f.Value.(string)
		for _, v := range row.Strings(f.Field) {
			if v == want {
				return true
			}
		}
		return false
	}
	return false
}

func sortRows(rows []record.Row, order record.Order) {
	sort.SliceStable(rows, func(i, j int) bool {
		less := lessValue(rows[i][order.Field], rows[j][order.Field])
		if order.Desc {
			return !less && !equalValue(rows[i][order.Field], rows[j][order.Field])
		}
		return less
	})
}

func lessValue(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Before(tb)
		}
	}
	switch va := a.(type) {
	case int:
		if vb, ok := b.(int); ok {
			return va < vb
		}
	case int64:
		if vb, ok := b.(int64); ok {
			return va < vb
		}
	case float64:
		if vb, ok := b.(float64); ok {
			return va < vb
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func equalValue(a, b any) bool {
	return !lessValue(a, b) && !lessValue(b, a)
}
