package entity

import "time"

// GlobalComment comentario a nivel de proyecto. Solo el autor o un manager
// pueden editarlo o borrarlo.
type GlobalComment struct {
	ID         string
	ProjectID  string
	Text       string
	AddedBy    string
	AuthorName string
	AuthorRole Role
	Timestamp  time.Time
}

// PageComment comentario sobre una página de brochure.
// Durabilidad: memory (vive solo en la sesión, sin persistencia remota).
type PageComment struct {
	ID         string
	PageID     string
	Text       string
	AddedBy    string
	AuthorName string
	AuthorRole Role
	MarkedDone bool
	Timestamp  time.Time
}
