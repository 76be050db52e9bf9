package entity

import "time"

// Meeting reunión agendada.
// Durabilidad: memory (solo existe en la sesión, sin persistencia remota).
type Meeting struct {
	ID           string
	ProjectID    string
	Title        string
	ScheduledFor time.Time
	ScheduledBy  string
	Participants []string
	Notes        string
}

// LeadStatus estado de un lead comercial.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadLost      LeadStatus = "lost"
)

// Lead contacto comercial previo a convertirse en cliente.
// Durabilidad: memory.
type Lead struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Company   string
	Notes     string
	Status    LeadStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
