package sync

import (
	"context"

	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/pkg/logger"
)

// UserSync sincronizador del directorio de perfiles. Todos los roles lo
// cargan completo (se necesita para resolver nombres de asignados y autores).
// El hash de contraseña nunca entra al snapshot.
type UserSync struct {
	records record.Store
	log     *logger.Logger
	snap    snapshot[entity.User]
}

// NewUserSync construye el sincronizador.
func NewUserSync(records record.Store, log *logger.Logger) *UserSync {
	return &UserSync{records: records, log: log}
}

// Items snapshot actual de perfiles.
func (s *UserSync) Items() []entity.User { return s.snap.list() }

// Find perfil por id.
func (s *UserSync) Find(userID string) (entity.User, bool) {
	return s.snap.find(func(u entity.User) bool { return u.ID == userID })
}

// Employees perfiles con rol employee (para selects de asignación).
func (s *UserSync) Employees() []entity.User {
	out := make([]entity.User, 0)
	for _, u := range s.snap.list() {
		if u.Role == entity.RoleEmployee {
			out = append(out, u)
		}
	}
	return out
}

// Load recarga el directorio completo ordenado por nombre.
func (s *UserSync) Load(ctx context.Context) error {
	rows, err := s.records.Select(ctx, record.Query{
		Relation: record.RelProfiles,
		OrderBy:  &record.Order{Field: "full_name"},
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("carga de perfiles falló; se conserva el snapshot anterior")
		return err
	}
	users := make([]entity.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, rowToUser(row))
	}
	s.snap.replace(users)
	return nil
}

// rowToUser deja PasswordHash vacío a propósito: el directorio en memoria
// no transporta credenciales.
func rowToUser(row record.Row) entity.User {
	return entity.User{
		ID:        row.String("id"),
		Email:     row.String("email"),
		FullName:  row.String("full_name"),
		Role:      entity.Role(row.StringOr("role", string(entity.RoleClient))),
		CreatedAt: row.Time("created_at"),
	}
}
