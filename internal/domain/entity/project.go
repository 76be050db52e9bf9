package entity

import "time"

// ProjectStatus estado general del proyecto.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
)

// Priority prioridad compartida por proyectos y tareas.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Project proyecto de la agencia. Visibilidad por rol: client ve los suyos
// (ClientID), employee los que lo incluyen en AssignedEmployees, manager todos.
type Project struct {
	ID                 string
	Title              string
	Description        string
	ClientID           string
	ClientName         string
	Deadline           string // fecha YYYY-MM-DD tal como la guarda el backend
	ProgressPercentage int
	AssignedEmployees  []string
	Status             ProjectStatus
	Priority           Priority
	ProjectType        string
	CreatedAt          time.Time
}
