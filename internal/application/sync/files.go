package sync

import (
	"context"
	"time"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/application/scope"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/pkg/logger"
)

// FileSync sincronizador de metadatos de archivos. El contenido vive en el
// object store externo; aquí solo viajan las filas de metadatos. Las subidas
// pasan por el pipeline de ingesta, no por este sincronizador.
type FileSync struct {
	records record.Store
	log     *logger.Logger
	snap    snapshot[entity.FileAsset]
}

// NewFileSync construye el sincronizador.
func NewFileSync(records record.Store, log *logger.Logger) *FileSync {
	return &FileSync{records: records, log: log}
}

// Items snapshot actual.
func (s *FileSync) Items() []entity.FileAsset { return s.snap.list() }

// Find archivo por id en el snapshot.
func (s *FileSync) Find(fileID string) (entity.FileAsset, bool) {
	return s.snap.find(func(f entity.FileAsset) bool { return f.ID == fileID })
}

// ForProject archivos de un proyecto (derivado puro del snapshot).
func (s *FileSync) ForProject(projectID string) []entity.FileAsset {
	out := make([]entity.FileAsset, 0)
	for _, f := range s.snap.list() {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	return out
}

// Load recarga los metadatos de los proyectos en alcance.
func (s *FileSync) Load(ctx context.Context, sc scope.Scope) error {
	if sc.Len() == 0 {
		s.snap.replace([]entity.FileAsset{})
		return nil
	}
	rows, err := s.records.Select(ctx, record.Query{
		Relation: record.RelFiles,
		Filters:  []record.Filter{record.In("project_id", sc.IDs())},
		OrderBy:  &record.Order{Field: "timestamp", Desc: true},
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("carga de archivos falló; se conserva el snapshot anterior")
		return err
	}
	files := make([]entity.FileAsset, 0, len(rows))
	for _, row := range rows {
		files = append(files, rowToFile(row))
	}
	s.snap.replace(files)
	return nil
}

// UpdateMetadata aplica un patch de metadatos y recarga. El archivo debe
// existir en el snapshot y su proyecto estar en alcance.
func (s *FileSync) UpdateMetadata(ctx context.Context, actor *entity.Actor, sc scope.Scope, fileID string, in dto.UpdateFileMetadataRequest) error {
	patch := record.Row{}
	setStr(patch, "description", in.Description)
	setStr(patch, "category", in.Category)
	if in.Tags != nil {
		patch["tags"] = *in.Tags
	}
	if in.IsArchived != nil {
		patch["is_archived"] = *in.IsArchived
	}
	if len(patch) == 0 {
		return &domain.ValidationError{Reason: "patch vacío"}
	}
	f, ok := s.Find(fileID)
	if !ok {
		return domain.ErrNotFound
	}
	if !sc.Contains(f.ProjectID) {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: f.ProjectID}
	}
	if _, err := s.records.Update(ctx, record.RelFiles, fileID, patch); err != nil {
		return err
	}
	if err := s.Load(ctx, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras actualizar metadatos falló")
	}
	return nil
}

// RecordDownload incrementa el contador remoto y marca la última descarga.
// El incremento se calcula sobre el snapshot: con descargas concurrentes el
// contador puede quedarse corto, pérdida aceptada para una estadística.
func (s *FileSync) RecordDownload(ctx context.Context, sc scope.Scope, fileID string, actor *entity.Actor) error {
	f, ok := s.Find(fileID)
	if !ok {
		return domain.ErrNotFound
	}
	if !sc.Contains(f.ProjectID) {
		return &domain.AuthorizationError{ActorID: actor.ID, ProjectID: f.ProjectID}
	}
	now := time.Now().UTC()
	patch := record.Row{
		"download_count":     f.DownloadCount + 1,
		"last_downloaded":    now,
		"last_downloaded_by": actor.DisplayName,
	}
	if _, err := s.records.Update(ctx, record.RelFiles, fileID, patch); err != nil {
		return err
	}
	if err := s.Load(ctx, sc); err != nil {
		s.log.Warn().Err(err).Msg("recarga tras registrar descarga falló")
	}
	return nil
}

// Reload expone la recarga al pipeline de ingesta tras insertar o borrar filas.
func (s *FileSync) Reload(ctx context.Context, sc scope.Scope) error { return s.Load(ctx, sc) }

// Prune saca un archivo del snapshot sin recarga (lo usa el borrado).
func (s *FileSync) Prune(fileID string) {
	s.snap.prune(func(f entity.FileAsset) bool { return f.ID == fileID })
}

func rowToFile(row record.Row) entity.FileAsset {
	return entity.FileAsset{
		ID:               row.String("id"),
		ProjectID:        row.String("project_id"),
		StageID:          row.String("stage_id"),
		Filename:         row.String("filename"),
		ExternalRef:      row.String("external_ref"),
		ViewURL:          row.String("view_url"),
		UploadedBy:       row.String("uploaded_by"),
		UploaderName:     row.String("uploader_name"),
		Size:             row.Int64("size"),
		MIMEType:         row.String("mime_type"),
		Category:         row.StringOr("category", "general"),
		Description:      row.String("description"),
		DownloadCount:    row.Int("download_count"),
		LastDownloaded:   row.TimePtr("last_downloaded"),
		LastDownloadedBy: row.String("last_downloaded_by"),
		IsArchived:       row.Bool("is_archived"),
		Tags:             orEmpty(row.Strings("tags")),
		Timestamp:        row.Time("timestamp"),
	}
}
