package entity

import "time"

// FileAsset metadato de un archivo subido al object store externo.
// ExternalRef es la clave opaca en el store (id de Drive): nunca se regenera,
// solo se reemplaza si el archivo se vuelve a subir.
type FileAsset struct {
	ID               string
	ProjectID        string
	StageID          string // vacío si el archivo cuelga directo del proyecto
	Filename         string
	ExternalRef      string
	ViewURL          string
	UploadedBy       string
	UploaderName     string
	Size             int64
	MIMEType         string
	Category         string
	Description      string
	DownloadCount    int
	LastDownloaded   *time.Time
	LastDownloadedBy string
	IsArchived       bool
	Tags             []string
	Timestamp        time.Time
}

// DownloadEntry registro local de una descarga.
// Durabilidad: memory (historial por sesión, sin persistencia remota).
type DownloadEntry struct {
	FileID       string
	Filename     string
	DownloadedBy string
	Timestamp    time.Time
}
