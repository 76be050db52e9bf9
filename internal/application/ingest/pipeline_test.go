package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/api/internal/application/ingest"
	"github.com/projectdesk/api/internal/application/scope"
	appsync "github.com/projectdesk/api/internal/application/sync"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/internal/domain/storage"
	"github.com/projectdesk/api/internal/infrastructure/memstore"
	"github.com/projectdesk/api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// fakeObjects object store en memoria que registra llamadas.
type fakeObjects struct {
	uploads  []storage.Blob
	deletes  []string
	failNext error
}

func (f *fakeObjects) Upload(ctx context.Context, blob storage.Blob, projectID, stageID string) (storage.UploadResult, error) {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return storage.UploadResult{}, err
	}
	f.uploads = append(f.uploads, blob)
	ref := fmt.Sprintf("obj-%d", len(f.uploads))
	return storage.UploadResult{ExternalRef: ref, ViewURL: "https://drive.test/" + ref}, nil
}

func (f *fakeObjects) Delete(ctx context.Context, externalRef string) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.deletes = append(f.deletes, externalRef)
	return nil
}

func (f *fakeObjects) List(ctx context.Context, projectID string) ([]storage.Entry, error) {
	out := make([]storage.Entry, 0, len(f.uploads))
	for i, b := range f.uploads {
		out = append(out, storage.Entry{
			ExternalRef: fmt.Sprintf("obj-%d", i+1),
			Name:        b.Filename,
			MIMEType:    b.MIMEType,
		})
	}
	return out, nil
}

func (f *fakeObjects) BaseFolderLink() string { return "https://drive.test/base" }

var _ storage.Store = (*fakeObjects)(nil)

// denyInsertStore deja pasar todo menos los inserts en la relación indicada.
type denyInsertStore struct {
	*memstore.Store
	relation string
}

func (d *denyInsertStore) Insert(ctx context.Context, relation string, row record.Row) (record.Row, error) {
	if relation == d.relation {
		return nil, errors.New("insert rechazado")
	}
	return d.Store.Insert(ctx, relation, row)
}

func pngBlob(name string, size int64) storage.Blob {
	return storage.Blob{Filename: name, MIMEType: "image/png", Size: size, Content: []byte("png")}
}

// newPipeline arma el pipeline sobre un memstore con p1 del cliente c1 y
// devuelve también el FileSync de la sesión.
func newPipeline(records record.Store) (*ingest.Pipeline, *appsync.FileSync, *fakeObjects) {
	objects := &fakeObjects{}
	resolver := scope.NewResolver(records, testLogger())
	files := appsync.NewFileSync(records, testLogger())
	return ingest.New(resolver, objects, records, testLogger()), files, objects
}

func seedProject(s *memstore.Store) {
	s.Seed(record.RelProjects, record.Row{"id": "p1", "client_id": "c1", "assigned_employees": []string{"e1"}})
}

// ─── Subida ──────────────────────────────────────────────────────────────────

func TestUpload_DosFasesCompletas(t *testing.T) {
	store := memstore.New()
	seedProject(store)
	p, files, objects := newPipeline(store)
	employee := &entity.Actor{ID: "e1", DisplayName: "Elena", Role: entity.RoleEmployee}

	f, err := p.Upload(context.Background(), employee, files, ingest.UploadRequest{
		ProjectID: "p1",
		StageID:   "s1",
		Blob:      pngBlob("logo.png", 2048),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "obj-1", f.ExternalRef)
	assert.Equal(t, "https://drive.test/obj-1", f.ViewURL)
	assert.Equal(t, "Elena", f.UploaderName)
	assert.Equal(t, "general", f.Category, "categoría por defecto")
	assert.False(t, f.Timestamp.IsZero())
	require.Len(t, objects.uploads, 1)

	// La fila de metadatos quedó persistida y el snapshot de la sesión al día.
	rows, err := store.Select(context.Background(), record.Query{Relation: record.RelFiles})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "obj-1", rows[0].String("external_ref"))
	require.Len(t, files.Items(), 1)
}

func TestUpload_FueraDeAlcanceNoTocaElStore(t *testing.T) {
	store := memstore.New()
	seedProject(store)
	p, files, objects := newPipeline(store)
	intruso := &entity.Actor{ID: "x9", Role: entity.RoleClient}

	_, err := p.Upload(context.Background(), intruso, files, ingest.UploadRequest{
		ProjectID: "p1",
		Blob:      pngBlob("logo.png", 2048),
	})
	var aerr *domain.AuthorizationError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "p1", aerr.ProjectID)
	assert.Empty(t, objects.uploads, "nada debe llegar al store externo")
}

func TestUpload_ValidacionAntesDeSubir(t *testing.T) {
	store := memstore.New()
	seedProject(store)
	p, files, objects := newPipeline(store)
	manager := &entity.Actor{ID: "m1", Role: entity.RoleManager}

	t.Run("tamaño excedido", func(t *testing.T) {
		_, err := p.Upload(context.Background(), manager, files, ingest.UploadRequest{
			ProjectID: "p1",
			Blob:      pngBlob("gigante.png", storage.MaxSize+1),
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "size", verr.Field)
	})

	t.Run("mime no soportado", func(t *testing.T) {
		_, err := p.Upload(context.Background(), manager, files, ingest.UploadRequest{
			ProjectID: "p1",
			Blob:      storage.Blob{Filename: "a.exe", MIMEType: "application/x-msdownload", Size: 10},
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "mime_type", verr.Field)
	})

	assert.Empty(t, objects.uploads, "el rechazo barato ocurre antes de la red")
}

func TestUpload_ErrorDeStoreExterno(t *testing.T) {
	store := memstore.New()
	seedProject(store)
	p, files, objects := newPipeline(store)
	objects.failNext = errors.New("cuota excedida")
	manager := &entity.Actor{ID: "m1", Role: entity.RoleManager}

	_, err := p.Upload(context.Background(), manager, files, ingest.UploadRequest{
		ProjectID: "p1",
		Blob:      pngBlob("logo.png", 2048),
	})
	var uerr *domain.UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "logo.png", uerr.Filename)

	rows, _ := store.Select(context.Background(), record.Query{Relation: record.RelFiles})
	assert.Empty(t, rows, "sin blob no hay metadatos")
}

// Si los metadatos fallan, el blob ya subido no se revierte: queda huérfano
// con su referencia en el error para conciliar a mano.
func TestUpload_MetadatosFallanDejaBlobHuerfano(t *testing.T) {
	inner := memstore.New()
	seedProject(inner)
	store := &denyInsertStore{Store: inner, relation: record.RelFiles}
	p, files, objects := newPipeline(store)
	manager := &entity.Actor{ID: "m1", Role: entity.RoleManager}

	_, err := p.Upload(context.Background(), manager, files, ingest.UploadRequest{
		ProjectID: "p1",
		Blob:      pngBlob("logo.png", 2048),
	})
	var perr *domain.PersistError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "obj-1", perr.ExternalRef)
	assert.Len(t, objects.uploads, 1)
	assert.Empty(t, objects.deletes, "no hay rollback del blob")
}

// ─── Borrado ─────────────────────────────────────────────────────────────────

func seedFile(t *testing.T, store *memstore.Store, files *appsync.FileSync) {
	t.Helper()
	store.Seed(record.RelFiles, record.Row{
		"id":           "f1",
		"project_id":   "p1",
		"filename":     "logo.png",
		"external_ref": "obj-7",
	})
	require.NoError(t, files.Load(context.Background(), scope.NewScope("p1")))
}

func TestDelete_EspejoDeLaSubida(t *testing.T) {
	store := memstore.New()
	seedProject(store)
	p, files, objects := newPipeline(store)
	seedFile(t, store, files)
	manager := &entity.Actor{ID: "m1", Role: entity.RoleManager}

	require.NoError(t, p.Delete(context.Background(), manager, files, "f1"))

	assert.Equal(t, []string{"obj-7"}, objects.deletes)
	rows, _ := store.Select(context.Background(), record.Query{Relation: record.RelFiles})
	assert.Empty(t, rows)
	assert.Empty(t, files.Items())
}

// El blob es mejor esfuerzo: si el store externo falla, los metadatos se
// borran igual.
func TestDelete_BlobFallaPeroMetadatosMandan(t *testing.T) {
	store := memstore.New()
	seedProject(store)
	p, files, objects := newPipeline(store)
	seedFile(t, store, files)
	objects.failNext = errors.New("objeto bloqueado")
	manager := &entity.Actor{ID: "m1", Role: entity.RoleManager}

	require.NoError(t, p.Delete(context.Background(), manager, files, "f1"))

	rows, _ := store.Select(context.Background(), record.Query{Relation: record.RelFiles})
	assert.Empty(t, rows)
	assert.Empty(t, files.Items())
}

func TestDelete_FueraDeAlcance(t *testing.T) {
	store := memstore.New()
	seedProject(store)
	p, files, objects := newPipeline(store)
	seedFile(t, store, files)
	intruso := &entity.Actor{ID: "x9", Role: entity.RoleClient}

	err := p.Delete(context.Background(), intruso, files, "f1")
	var aerr *domain.AuthorizationError
	require.ErrorAs(t, err, &aerr)
	assert.Empty(t, objects.deletes)
	rows, _ := store.Select(context.Background(), record.Query{Relation: record.RelFiles})
	assert.Len(t, rows, 1)
}

func TestDelete_Inexistente(t *testing.T) {
	store := memstore.New()
	seedProject(store)
	p, files, _ := newPipeline(store)
	manager := &entity.Actor{ID: "m1", Role: entity.RoleManager}

	err := p.Delete(context.Background(), manager, files, "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Imágenes de página ──────────────────────────────────────────────────────

func TestUploadPageImage_SoloDevuelveURL(t *testing.T) {
	store := memstore.New()
	seedProject(store)
	p, _, objects := newPipeline(store)
	employee := &entity.Actor{ID: "e1", Role: entity.RoleEmployee}

	url, err := p.UploadPageImage(context.Background(), employee, "p1", pngBlob("portada.png", 1024))
	require.NoError(t, err)
	assert.Equal(t, "https://drive.test/obj-1", url)
	require.Len(t, objects.uploads, 1)

	// Sin fila de metadatos: la URL vive dentro del contenido de la página.
	rows, _ := store.Select(context.Background(), record.Query{Relation: record.RelFiles})
	assert.Empty(t, rows)
}

// ─── Conciliación ────────────────────────────────────────────────────────────

func TestListExternal_EnumeraLosObjetosDelProyecto(t *testing.T) {
	store := memstore.New()
	seedProject(store)
	p, files, _ := newPipeline(store)
	manager := &entity.Actor{ID: "m1", Role: entity.RoleManager}

	_, err := p.Upload(context.Background(), manager, files, ingest.UploadRequest{
		ProjectID: "p1",
		Blob:      pngBlob("logo.png", 2048),
	})
	require.NoError(t, err)

	entries, err := p.ListExternal(context.Background(), manager, "p1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "obj-1", entries[0].ExternalRef)

	_, err = p.ListExternal(context.Background(), &entity.Actor{ID: "x9", Role: entity.RoleClient}, "p1")
	var aerr *domain.AuthorizationError
	require.ErrorAs(t, err, &aerr)
}

func TestUploadPageImage_FueraDeAlcance(t *testing.T) {
	store := memstore.New()
	seedProject(store)
	p, _, _ := newPipeline(store)

	_, err := p.UploadPageImage(context.Background(), &entity.Actor{ID: "x9", Role: entity.RoleClient}, "p1", pngBlob("a.png", 10))
	var aerr *domain.AuthorizationError
	require.ErrorAs(t, err, &aerr)
}
