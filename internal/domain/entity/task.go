package entity

import "time"

// TaskStatus estado de una tarea. Transiciones libres (open → in-progress → done
// es el camino normal pero no se fuerza ningún orden).
type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
)

// Task tarea de proyecto. Visibilidad: client ve tareas de sus proyectos,
// employee las asignadas a él o de proyectos donde participa, manager todas.
type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	AssignedTo  string
	CreatedBy   string
	Status      TaskStatus
	Priority    Priority
	Deadline    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CommentTask comentario accionable ligado a una etapa: se comporta como una
// tarea ligera (estado, asignación) pero nace de un comentario del cliente.
type CommentTask struct {
	ID         string
	StageID    string
	ProjectID  string
	Text       string
	AddedBy    string
	AuthorName string
	AuthorRole Role
	Status     TaskStatus
	AssignedTo string
	Deadline   string
	Timestamp  time.Time
}
