package entity

import "time"

// BrochureStatus estado del flujo de diseño de brochure.
type BrochureStatus string

const (
	BrochureDraft          BrochureStatus = "draft"
	BrochureReadyForDesign BrochureStatus = "ready_for_design"
	BrochureInDesign       BrochureStatus = "in_design"
	BrochureCompleted      BrochureStatus = "completed"
)

// BrochureProject flujo secundario de aprobación de brochures.
// Durabilidad: memory (vive solo en la sesión, sin persistencia remota).
type BrochureProject struct {
	ID         string
	ProjectID  string
	ClientID   string
	ClientName string
	Status     BrochureStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PageContent contenido editable de una página de brochure.
type PageContent struct {
	Title    string
	Body     string
	ImageURL string
	Layout   string
}

// BrochurePage página de un brochure con candado de edición. El candado debe
// estar en poder de exactamente un actor para que una edición sea válida:
// Lock es adquisición condicional y Save/Unlock exigen ser el portador.
// Durabilidad: memory.
type BrochurePage struct {
	ID             string
	ProjectID      string
	PageNumber     int
	Content        PageContent
	ApprovalStatus ApprovalStatus
	IsLocked       bool
	LockedBy       string
	LockedByName   string
	LockedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
