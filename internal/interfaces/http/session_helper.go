package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/projectdesk/api/internal/application/session"
)

// sessionFor devuelve la sesión del actor autenticado, creándola si es el
// primer request. Devuelve nil si no hay identidad en el contexto.
func sessionFor(c *fiber.Ctx, m *session.Manager) *session.Session {
	actor := GetActor(c)
	if actor == nil {
		return nil
	}
	return m.Get(c.Context(), actor)
}
