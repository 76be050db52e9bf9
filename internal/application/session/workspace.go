package session

import (
	"sync"

	"github.com/projectdesk/api/internal/domain/entity"
)

// Workspace estado local compartido por todas las sesiones vivas: reuniones,
// leads, brochures con sus páginas y comentarios, e historial de descargas.
// Nada de esto se persiste; el proceso es su única fuente de verdad. El
// candado de página necesita este estado compartido: un actor debe poder ver
// que otro tiene la página tomada.
type Workspace struct {
	mu        sync.Mutex
	meetings  []entity.Meeting
	leads     []entity.Lead
	brochures []entity.BrochureProject
	pages     []entity.BrochurePage
	pageNotes []entity.PageComment
	downloads []entity.DownloadEntry
}

// NewWorkspace construye el estado compartido vacío.
func NewWorkspace() *Workspace {
	return &Workspace{}
}
