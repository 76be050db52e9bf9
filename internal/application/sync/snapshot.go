// Package sync contiene los sincronizadores por familia de entidades: cada uno
// carga filas remotas acotadas al alcance del actor, las mapea al dominio y
// reemplaza su snapshot en memoria de forma atómica. Las mutaciones siempre
// viajan primero al record store y después refrescan el snapshot.
//
// Política de errores: los fallos de carga se absorben aquí (se loguean y se
// conserva el snapshot anterior); los fallos de escritura se propagan al
// llamador. Dos recargas simultáneas no se deduplican: gana la que resuelve
// última (carrera aceptada).
package sync

import "sync"

// snapshot contenedor del estado actual de una familia. El reemplazo es de la
// familia completa: ningún observador ve una carga parcial.
type snapshot[T any] struct {
	mu    sync.RWMutex
	items []T
}

func (s *snapshot[T]) replace(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

// list devuelve una copia; los llamadores nunca comparten el slice interno.
func (s *snapshot[T]) list() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// prune elimina los elementos que matchean (borrado sin recarga completa).
func (s *snapshot[T]) prune(match func(T) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0:0]
	for _, it := range s.items {
		if !match(it) {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

// find devuelve el primer elemento que matchea.
func (s *snapshot[T]) find(match func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}
