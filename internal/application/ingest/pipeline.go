// Package ingest implementa el pipeline de subida de archivos en dos fases:
// primero el blob al object store externo, después la fila de metadatos al
// record store. Si la segunda fase falla queda un blob huérfano; se loguea su
// referencia para conciliación manual y no se revierte la subida.
package ingest

import (
	"context"
	"time"

	"github.com/projectdesk/api/internal/application/scope"
	appsync "github.com/projectdesk/api/internal/application/sync"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/internal/domain/storage"
	"github.com/projectdesk/api/pkg/logger"
)

// Pipeline orquesta subidas y borrados de archivos. El alcance se vuelve a
// resolver en cada subida: el snapshot en memoria puede estar desactualizado
// y una subida fuera de alcance jamás debe llegar al store. El FileSync de la
// sesión llamadora entra por parámetro para que su snapshot quede al día.
type Pipeline struct {
	resolver *scope.Resolver
	objects  storage.Store
	records  record.Store
	log      *logger.Logger
}

// New construye el pipeline.
func New(resolver *scope.Resolver, objects storage.Store, records record.Store, log *logger.Logger) *Pipeline {
	return &Pipeline{resolver: resolver, objects: objects, records: records, log: log}
}

// UploadRequest datos de una subida. StageID vacío cuelga el archivo directo
// del proyecto.
type UploadRequest struct {
	ProjectID   string
	StageID     string
	Blob        storage.Blob
	Category    string
	Description string
}

// Upload ejecuta las dos fases. Orden estricto: autorización, validación
// barata, subida del blob, insert de metadatos, recarga del snapshot.
func (p *Pipeline) Upload(ctx context.Context, actor *entity.Actor, files *appsync.FileSync, in UploadRequest) (entity.FileAsset, error) {
	sc := p.resolver.Resolve(ctx, actor)
	if !sc.Contains(in.ProjectID) {
		p.log.Warn().
			Str("user_id", actor.ID).
			Str("project_id", in.ProjectID).
			Msg("subida rechazada: proyecto fuera de alcance")
		return entity.FileAsset{}, &domain.AuthorizationError{ActorID: actor.ID, ProjectID: in.ProjectID}
	}

	if err := in.Blob.Validate(); err != nil {
		return entity.FileAsset{}, err
	}

	res, err := p.objects.Upload(ctx, in.Blob, in.ProjectID, in.StageID)
	if err != nil {
		return entity.FileAsset{}, &domain.UploadError{Filename: in.Blob.Filename, Err: err}
	}

	row := record.Row{
		"project_id":    in.ProjectID,
		"stage_id":      in.StageID,
		"filename":      in.Blob.Filename,
		"external_ref":  res.ExternalRef,
		"view_url":      res.ViewURL,
		"uploaded_by":   actor.ID,
		"uploader_name": actor.DisplayName,
		"size":          in.Blob.Size,
		"mime_type":     in.Blob.MIMEType,
		"category":      defaultCategory(in.Category),
		"description":   in.Description,
		"timestamp":     time.Now().UTC(),
	}
	inserted, err := p.records.Insert(ctx, record.RelFiles, row)
	if err != nil {
		// El blob ya está en el store externo y ahí se queda.
		p.log.Error().
			Err(err).
			Str("external_ref", res.ExternalRef).
			Str("filename", in.Blob.Filename).
			Msg("insert de metadatos falló; blob huérfano pendiente de conciliación")
		return entity.FileAsset{}, &domain.PersistError{ExternalRef: res.ExternalRef, Err: err}
	}

	if err := files.Reload(ctx, sc); err != nil {
		p.log.Warn().Err(err).Msg("recarga de archivos tras subida falló")
	}

	f := entity.FileAsset{
		ID:           inserted.String("id"),
		ProjectID:    in.ProjectID,
		StageID:      in.StageID,
		Filename:     in.Blob.Filename,
		ExternalRef:  res.ExternalRef,
		ViewURL:      res.ViewURL,
		UploadedBy:   actor.ID,
		UploaderName: actor.DisplayName,
		Size:         in.Blob.Size,
		MIMEType:     in.Blob.MIMEType,
		Category:     defaultCategory(in.Category),
		Description:  in.Description,
		Tags:         []string{},
		Timestamp:    inserted.Time("timestamp"),
	}
	return f, nil
}

// Delete borra primero el blob (mejor esfuerzo: un fallo solo se loguea, el
// metadato manda) y después la fila de metadatos, que sí es obligatoria.
func (p *Pipeline) Delete(ctx context.Context, actor *entity.Actor, files *appsync.FileSync, fileID string) error {
	sc := p.resolver.Resolve(ctx, actor)

	f, ok := files.Find(fileID)
	if !ok {
		return domain.ErrNotFound
	}
	if !sc.Contains(f.ProjectID) {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: f.ProjectID}
	}

	if f.ExternalRef != "" {
		if err := p.objects.Delete(ctx, f.ExternalRef); err != nil {
			p.log.Warn().
				Err(err).
				Str("external_ref", f.ExternalRef).
				Msg("borrado del blob falló; se continúa con los metadatos")
		}
	}

	if err := p.records.Delete(ctx, record.RelFiles, fileID); err != nil {
		return err
	}

	files.Prune(fileID)
	if err := files.Reload(ctx, sc); err != nil {
		p.log.Warn().Err(err).Msg("recarga de archivos tras borrado falló")
	}
	return nil
}

// UploadPageImage sube una imagen de página de brochure y devuelve su URL
// visible. No escribe metadatos: la URL vive dentro del contenido de la página.
func (p *Pipeline) UploadPageImage(ctx context.Context, actor *entity.Actor, projectID string, blob storage.Blob) (string, error) {
	sc := p.resolver.Resolve(ctx, actor)
	if !sc.Contains(projectID) {
		return "", &domain.AuthorizationError{ActorID: actor.ID, ProjectID: projectID}
	}
	if err := blob.Validate(); err != nil {
		return "", err
	}
	res, err := p.objects.Upload(ctx, blob, projectID, "")
	if err != nil {
		return "", &domain.UploadError{Filename: blob.Filename, Err: err}
	}
	return res.ViewURL, nil
}

// ListExternal enumera los objetos del store externo para un proyecto en
// alcance. Sirve para contrastar contra los metadatos y detectar blobs
// huérfanos de subidas a medias.
func (p *Pipeline) ListExternal(ctx context.Context, actor *entity.Actor, projectID string) ([]storage.Entry, error) {
	sc := p.resolver.Resolve(ctx, actor)
	if !sc.Contains(projectID) {
		return nil, &domain.AuthorizationError{ActorID: actor.ID, ProjectID: projectID}
	}
	return p.objects.List(ctx, projectID)
}

func defaultCategory(c string) string {
	if c == "" {
		return "general"
	}
	return c
}
