// Package storage define el puerto hacia el object store externo (Drive).
// El adaptador debe rechazar tamaño y MIME no permitidos antes de tocar la red.
package storage

import (
	"context"
	"fmt"

	"github.com/projectdesk/api/internal/domain"
)

// MaxSize tamaño máximo de archivo aceptado: 10 MiB.
const MaxSize = 10 * 1024 * 1024

// AllowedTypes MIME permitidos: imágenes, PDF, formatos Office, texto plano,
// zip/rar y video común.
var AllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/svg+xml",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"text/plain",
	"application/zip",
	"application/x-rar-compressed",
	"video/mp4",
	"video/quicktime",
	"video/x-msvideo",
}

// Blob archivo binario a subir, con los metadatos mínimos para validar.
type Blob struct {
	Filename string
	MIMEType string
	Size     int64
	Content  []byte
}

// Validate aplica los límites de tamaño y tipo. Es el rechazo barato previo a
// cualquier llamada de red; la falla es ValidationError, nunca se reintenta.
func (b Blob) Validate() error {
	if b.Filename == "" {
		return &domain.ValidationError{Field: "filename", Reason: "requerido"}
	}
	if b.Size > MaxSize {
		return &domain.ValidationError{
			Field:  "size",
			Reason: fmt.Sprintf("excede el límite de %d MiB", MaxSize/(1024*1024)),
		}
	}
	for _, t := range AllowedTypes {
		if b.MIMEType == t {
			return nil
		}
	}
	return &domain.ValidationError{Field: "mime_type", Reason: fmt.Sprintf("tipo %s no soportado", b.MIMEType)}
}

// UploadResult referencia estable al objeto subido.
type UploadResult struct {
	ExternalRef string // clave opaca en el store; nunca se regenera
	ViewURL     string // enlace visible para humanos
}

// Entry objeto listado en el store externo.
type Entry struct {
	ExternalRef string
	Name        string
	MIMEType    string
	ViewURL     string
}

// Store puerto del object store externo.
type Store interface {
	Upload(ctx context.Context, blob Blob, projectID, stageID string) (UploadResult, error)
	Delete(ctx context.Context, externalRef string) error
	List(ctx context.Context, projectID string) ([]Entry, error)
	BaseFolderLink() string
}
