package dto

import (
	"time"

	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/storage"
)

// UpdateFileMetadataRequest patch de metadatos del archivo.
type UpdateFileMetadataRequest struct {
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
	IsArchived  *bool     `json:"is_archived"`
}

// FileResponse proyección JSON del archivo.
type FileResponse struct {
	ID               string     `json:"id"`
	ProjectID        string     `json:"project_id"`
	StageID          string     `json:"stage_id,omitempty"`
	Filename         string     `json:"filename"`
	ViewURL          string     `json:"view_url"`
	UploadedBy       string     `json:"uploaded_by"`
	UploaderName     string     `json:"uploader_name"`
	Size             int64      `json:"size"`
	MIMEType         string     `json:"mime_type"`
	Category         string     `json:"category"`
	Description      string     `json:"description"`
	DownloadCount    int        `json:"download_count"`
	LastDownloaded   *time.Time `json:"last_downloaded,omitempty"`
	LastDownloadedBy string     `json:"last_downloaded_by,omitempty"`
	IsArchived       bool       `json:"is_archived"`
	Tags             []string   `json:"tags"`
	Timestamp        time.Time  `json:"timestamp"`
}

// ToFileResponse mapea la entidad a su proyección. ExternalRef no se expone:
// es una clave interna del object store.
func ToFileResponse(f entity.FileAsset) FileResponse {
	return FileResponse{
		ID:               f.ID,
		ProjectID:        f.ProjectID,
		StageID:          f.StageID,
		Filename:         f.Filename,
		ViewURL:          f.ViewURL,
		UploadedBy:       f.UploadedBy,
		UploaderName:     f.UploaderName,
		Size:             f.Size,
		MIMEType:         f.MIMEType,
		Category:         f.Category,
		Description:      f.Description,
		DownloadCount:    f.DownloadCount,
		LastDownloaded:   f.LastDownloaded,
		LastDownloadedBy: f.LastDownloadedBy,
		IsArchived:       f.IsArchived,
		Tags:             f.Tags,
		Timestamp:        f.Timestamp,
	}
}

// ToFileResponses mapea la lista completa.
func ToFileResponses(list []entity.FileAsset) []FileResponse {
	out := make([]FileResponse, 0, len(list))
	for _, f := range list {
		out = append(out, ToFileResponse(f))
	}
	return out
}

// DownloadEntryResponse registro de descarga del historial local.
type DownloadEntryResponse struct {
	FileID       string    `json:"file_id"`
	Filename     string    `json:"filename"`
	DownloadedBy string    `json:"downloaded_by"`
	Timestamp    time.Time `json:"timestamp"`
}

// ToDownloadEntryResponses mapea el historial.
func ToDownloadEntryResponses(list []entity.DownloadEntry) []DownloadEntryResponse {
	out := make([]DownloadEntryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, DownloadEntryResponse{
			FileID:       d.FileID,
			Filename:     d.Filename,
			DownloadedBy: d.DownloadedBy,
			Timestamp:    d.Timestamp,
		})
	}
	return out
}

// ExternalEntryResponse objeto tal como vive en el store externo.
type ExternalEntryResponse struct {
	ExternalRef string `json:"external_ref"`
	Name        string `json:"name"`
	MIMEType    string `json:"mime_type"`
	ViewURL     string `json:"view_url"`
}

// ToExternalEntryResponses mapea el listado del store externo.
func ToExternalEntryResponses(list []storage.Entry) []ExternalEntryResponse {
	out := make([]ExternalEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, ExternalEntryResponse{
			ExternalRef: e.ExternalRef,
			Name:        e.Name,
			MIMEType:    e.MIMEType,
			ViewURL:     e.ViewURL,
		})
	}
	return out
}
