package session

import (
	"context"
	"sync"

	"github.com/projectdesk/api/internal/application/scope"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/pkg/logger"
)

// Manager registro de sesiones vivas, una por actor. La sesión se crea e
// inicializa en el primer request autenticado y se descarta en el logout.
type Manager struct {
	resolver *scope.Resolver
	records  record.Store
	ws       *Workspace
	log      *logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager construye el registro con su Workspace compartido.
func NewManager(resolver *scope.Resolver, records record.Store, log *logger.Logger) *Manager {
	return &Manager{
		resolver: resolver,
		records:  records,
		ws:       NewWorkspace(),
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Get devuelve la sesión del actor, creándola e inicializándola si no existe.
// La carga inicial corre fuera del candado del registro, pero detrás de un
// Once: un segundo request concurrente del mismo actor espera a que la
// primera resolución termine en vez de leer snapshots vacíos.
func (m *Manager) Get(ctx context.Context, actor *entity.Actor) *Session {
	m.mu.Lock()
	s, ok := m.sessions[actor.ID]
	if !ok {
		s = New(actor, m.resolver, m.records, m.ws, m.log)
		m.sessions[actor.ID] = s
	}
	m.mu.Unlock()

	s.init.Do(func() {
		s.Initialize(ctx)
		m.log.Info().
			Str("user_id", actor.ID).
			Str("role", string(actor.Role)).
			Msg("sesión inicializada")
	})
	return s
}

// Drop descarta la sesión del actor (logout). El Workspace compartido no se
// toca: reuniones, leads y brochures sobreviven al logout de un actor.
func (m *Manager) Drop(actorID string) {
	m.mu.Lock()
	delete(m.sessions, actorID)
	m.mu.Unlock()
}
