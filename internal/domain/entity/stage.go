package entity

// ApprovalStatus estado de aprobación de una etapa o página de brochure.
// Transiciones libres: el núcleo acepta cualquier cambio de un actor autorizado.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// StageNames etapas por defecto que se crean junto con cada proyecto, en orden.
var StageNames = []string{"Planning", "Design", "Development", "Testing", "Delivery"}

// Stage etapa de un proyecto. Order es un orden total por proyecto usado solo
// para presentación, no condiciona el flujo de trabajo.
type Stage struct {
	ID                 string
	ProjectID          string
	Name               string
	Notes              string
	ProgressPercentage int // 0..100
	ApprovalStatus     ApprovalStatus
	Order              int
}
