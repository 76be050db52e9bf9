package entity

import "time"

// ProjectOverview resumen editable 1:1 con el proyecto. La clave es ProjectID
// (no hay id generado): a lo sumo un overview por proyecto, last-writer-wins.
type ProjectOverview struct {
	ProjectID string
	Content   string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
