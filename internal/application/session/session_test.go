package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/application/scope"
	"github.com/projectdesk/api/internal/application/session"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/internal/infrastructure/memstore"
	"github.com/projectdesk/api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// Fixture: p1 pertenece al cliente c1 con e1 y e2 asignados.
func newManager(t *testing.T) (*session.Manager, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	store.Seed(record.RelProjects,
		record.Row{"id": "p1", "title": "Rebrand", "client_id": "c1", "assigned_employees": []string{"e1", "e2"}},
	)
	resolver := scope.NewResolver(store, testLogger())
	return session.NewManager(resolver, store, testLogger()), store
}

var (
	actorManager = &entity.Actor{ID: "m1", DisplayName: "Marta", Role: entity.RoleManager}
	actorE1      = &entity.Actor{ID: "e1", DisplayName: "Elena", Role: entity.RoleEmployee}
	actorE2      = &entity.Actor{ID: "e2", DisplayName: "Edgar", Role: entity.RoleEmployee}
)

// ─── Ciclo de vida ───────────────────────────────────────────────────────────

func TestManagerGet_InicializaUnaVez(t *testing.T) {
	m, _ := newManager(t)

	s1 := m.Get(context.Background(), actorE1)
	s2 := m.Get(context.Background(), actorE1)
	assert.Same(t, s1, s2, "misma sesión para el mismo actor")

	assert.True(t, s1.Scope().Contains("p1"))
	require.Len(t, s1.Projects().Items(), 1)
}

// Requests simultáneos del mismo actor no compiten por la carga inicial: el
// que llega segundo espera a que la primera resolución termine en lugar de
// leer snapshots vacíos.
func TestManagerGet_ConcurrenteVeLaCargaInicial(t *testing.T) {
	m, _ := newManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := m.Get(context.Background(), actorE1)
			assert.Len(t, s.Projects().Items(), 1)
			assert.True(t, s.Scope().Contains("p1"))
		}()
	}
	wg.Wait()
}

func TestManagerDrop_DescartaLaSesionPeroNoElEstadoCompartido(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	s := m.Get(ctx, actorManager)
	_, err := s.CreateLead(dto.CreateLeadRequest{Name: "Acme"})
	require.NoError(t, err)

	m.Drop(actorManager.ID)
	again := m.Get(ctx, actorManager)
	assert.NotSame(t, s, again)
	assert.Len(t, again.Leads(), 1, "los leads sobreviven al logout")
}

func TestCreateProject_RefrescaAlcanceYEtapas(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	s := m.Get(ctx, actorManager)

	id, err := s.CreateProject(ctx, dto.CreateProjectRequest{Title: "Nuevo", ClientID: "c2"})
	require.NoError(t, err)
	assert.True(t, s.Scope().Contains(id), "el proyecto nuevo entra al alcance")

	stages := make([]entity.Stage, 0)
	for _, st := range s.Stages().Items() {
		if st.ProjectID == id {
			stages = append(stages, st)
		}
	}
	assert.Len(t, stages, 5, "etapas por defecto creadas")
}

// ─── Reuniones y leads ───────────────────────────────────────────────────────

func TestScheduleMeeting_VisibleParaOtrasSesiones(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	_, err := m.Get(ctx, actorE1).ScheduleMeeting(dto.ScheduleMeetingRequest{Title: "Kickoff", ProjectID: "p1"})
	require.NoError(t, err)

	got := m.Get(ctx, actorE2).Meetings()
	require.Len(t, got, 1)
	assert.Equal(t, "Kickoff", got[0].Title)
	assert.Equal(t, "e1", got[0].ScheduledBy)
}

func TestLeads_SoloManager(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	emp := m.Get(ctx, actorE1)
	mgr := m.Get(ctx, actorManager)

	_, err := emp.CreateLead(dto.CreateLeadRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	l, err := mgr.CreateLead(dto.CreateLeadRequest{Name: "Acme", Company: "Acme SA"})
	require.NoError(t, err)
	assert.Equal(t, entity.LeadNew, l.Status)

	_, err = emp.UpdateLead(l.ID, dto.UpdateLeadRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	malo := "descartado"
	_, err = mgr.UpdateLead(l.ID, dto.UpdateLeadRequest{Status: &malo})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	bueno := string(entity.LeadContacted)
	updated, err := mgr.UpdateLead(l.ID, dto.UpdateLeadRequest{Status: &bueno})
	require.NoError(t, err)
	assert.Equal(t, entity.LeadContacted, updated.Status)

	assert.ErrorIs(t, emp.DeleteLead(l.ID), domain.ErrForbidden)
	require.NoError(t, mgr.DeleteLead(l.ID))
	assert.Empty(t, mgr.Leads())
}

// ─── Brochures ───────────────────────────────────────────────────────────────

func TestBrochure_FlujoYRevision(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	s := m.Get(ctx, actorE1)

	b, err := s.CreateBrochureProject(dto.CreateBrochureProjectRequest{ProjectID: "p1", ClientName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, entity.BrochureDraft, b.Status)

	_, err = s.UpdateBrochureStatus(b.ID, entity.BrochureStatus("archived"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = s.UpdateBrochureStatus(b.ID, entity.BrochureReadyForDesign)
	require.NoError(t, err)

	review := s.BrochureProjectsForReview()
	require.Len(t, review, 1)
	assert.Equal(t, b.ID, review[0].ID)

	_, err = s.UpdateBrochureStatus(b.ID, entity.BrochureCompleted)
	require.NoError(t, err)
	assert.Empty(t, s.BrochureProjectsForReview())
}

func TestBrochure_FueraDeAlcance(t *testing.T) {
	m, _ := newManager(t)
	s := m.Get(context.Background(), actorE1)

	_, err := s.CreateBrochureProject(dto.CreateBrochureProjectRequest{ProjectID: "p9"})
	var aerr *domain.AuthorizationError
	require.ErrorAs(t, err, &aerr)
}

func TestSavePage_CreaYOrdenaPorNumero(t *testing.T) {
	m, _ := newManager(t)
	s := m.Get(context.Background(), actorE1)

	_, err := s.SavePage(dto.SavePageRequest{ProjectID: "p1", PageNumber: 2, Content: dto.PageContentBody{Title: "Servicios"}})
	require.NoError(t, err)
	_, err = s.SavePage(dto.SavePageRequest{ProjectID: "p1", PageNumber: 1, Content: dto.PageContentBody{Title: "Portada"}})
	require.NoError(t, err)

	pages := s.BrochurePages("p1")
	require.Len(t, pages, 2)
	assert.Equal(t, "Portada", pages[0].Content.Title)
	assert.Equal(t, "Servicios", pages[1].Content.Title)
}

func TestDeletePage_ElCandadoAjenoBloquea(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	elena := m.Get(ctx, actorE1)
	edgar := m.Get(ctx, actorE2)

	p, err := elena.SavePage(dto.SavePageRequest{ProjectID: "p1", PageNumber: 1, Content: dto.PageContentBody{Title: "Portada"}})
	require.NoError(t, err)
	_, err = elena.LockPage(p.ID)
	require.NoError(t, err)

	// Otro empleado no puede borrar una página con el candado tomado.
	require.ErrorIs(t, edgar.DeletePage(p.ID), domain.ErrLockHeld)

	// El portador sí, y los comentarios de la página se van con ella.
	_, err = elena.AddPageComment(dto.AddPageCommentRequest{PageID: p.ID, Text: "Revisar márgenes"})
	require.NoError(t, err)
	require.NoError(t, elena.DeletePage(p.ID))
	assert.Empty(t, elena.BrochurePages("p1"))
	assert.Empty(t, elena.PageComments(p.ID))

	require.ErrorIs(t, elena.DeletePage(p.ID), domain.ErrNotFound)
}

func TestDeletePage_ManagerFuerzaElBorrado(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	elena := m.Get(ctx, actorE1)

	p, err := elena.SavePage(dto.SavePageRequest{ProjectID: "p1", PageNumber: 1, Content: dto.PageContentBody{Title: "Portada"}})
	require.NoError(t, err)
	_, err = elena.LockPage(p.ID)
	require.NoError(t, err)

	boss := m.Get(ctx, actorManager)
	require.NoError(t, boss.DeletePage(p.ID))
	assert.Empty(t, boss.BrochurePages("p1"))
}

func TestSavePage_NumeroInvalido(t *testing.T) {
	m, _ := newManager(t)
	s := m.Get(context.Background(), actorE1)

	_, err := s.SavePage(dto.SavePageRequest{ProjectID: "p1", PageNumber: 0})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

// ─── Candado de página ───────────────────────────────────────────────────────

func TestLockPage_ContencionEntreActores(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	elena := m.Get(ctx, actorE1)
	edgar := m.Get(ctx, actorE2)

	page, err := elena.SavePage(dto.SavePageRequest{ProjectID: "p1", PageNumber: 1, Content: dto.PageContentBody{Title: "Portada"}})
	require.NoError(t, err)

	locked, err := elena.LockPage(page.ID)
	require.NoError(t, err)
	assert.Equal(t, "e1", locked.LockedBy)
	assert.Equal(t, "Elena", locked.LockedByName)

	// Volver a tomar la propia página no falla.
	_, err = elena.LockPage(page.ID)
	require.NoError(t, err)

	// Otro actor ni lo toma ni lo suelta.
	_, err = edgar.LockPage(page.ID)
	assert.ErrorIs(t, err, domain.ErrLockHeld)
	_, err = edgar.UnlockPage(page.ID)
	assert.ErrorIs(t, err, domain.ErrLockHeld)

	// Ni guarda encima.
	_, err = edgar.SavePage(dto.SavePageRequest{ProjectID: "p1", PageNumber: 1, Content: dto.PageContentBody{Title: "Pisada"}})
	assert.ErrorIs(t, err, domain.ErrLockHeld)
}

func TestUnlockPage_ManagerFuerzaLaLiberacion(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	elena := m.Get(ctx, actorE1)
	mgr := m.Get(ctx, actorManager)

	page, err := elena.SavePage(dto.SavePageRequest{ProjectID: "p1", PageNumber: 1})
	require.NoError(t, err)
	_, err = elena.LockPage(page.ID)
	require.NoError(t, err)

	freed, err := mgr.UnlockPage(page.ID)
	require.NoError(t, err)
	assert.False(t, freed.IsLocked)
	assert.Empty(t, freed.LockedBy)
}

// Guardar libera el candado y devuelve la aprobación a pending.
func TestSavePage_LiberaCandadoYReiniciaAprobacion(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	elena := m.Get(ctx, actorE1)

	page, err := elena.SavePage(dto.SavePageRequest{ProjectID: "p1", PageNumber: 1})
	require.NoError(t, err)

	_, err = elena.ApprovePage(page.ID, dto.ApprovePageRequest{Status: "approved"})
	require.NoError(t, err)
	_, err = elena.LockPage(page.ID)
	require.NoError(t, err)

	saved, err := elena.SavePage(dto.SavePageRequest{ProjectID: "p1", PageNumber: 1, Content: dto.PageContentBody{Title: "v2"}})
	require.NoError(t, err)
	assert.False(t, saved.IsLocked)
	assert.Equal(t, entity.ApprovalPending, saved.ApprovalStatus, "editar invalida la aprobación previa")
	assert.Equal(t, "v2", saved.Content.Title)
}

func TestApprovePage_RechazoConComentario(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	s := m.Get(ctx, actorManager)

	page, err := s.SavePage(dto.SavePageRequest{ProjectID: "p1", PageNumber: 1})
	require.NoError(t, err)

	_, err = s.ApprovePage(page.ID, dto.ApprovePageRequest{Status: "pending"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	rejected, err := s.ApprovePage(page.ID, dto.ApprovePageRequest{Status: "rejected", Comment: "Falta el logo"})
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalRejected, rejected.ApprovalStatus)

	notes := s.PageComments(page.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, "Falta el logo", notes[0].Text)
	assert.False(t, notes[0].MarkedDone)

	require.NoError(t, s.MarkPageCommentDone(notes[0].ID))
	assert.True(t, s.PageComments(page.ID)[0].MarkedDone)
}

// ─── Descargas ───────────────────────────────────────────────────────────────

func TestRecordDownload_HistorialYContador(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()
	store.Seed(record.RelFiles, record.Row{"id": "f1", "project_id": "p1", "filename": "logo.png", "download_count": 0})

	s := m.Get(ctx, actorE1)
	require.NoError(t, s.Files().Load(ctx, s.Scope()))

	require.NoError(t, s.RecordDownload(ctx, "f1"))
	assert.ErrorIs(t, s.RecordDownload(ctx, "desconocido"), domain.ErrNotFound)

	hist := s.DownloadHistory()
	require.Len(t, hist, 1)
	assert.Equal(t, "logo.png", hist[0].Filename)
	assert.Equal(t, "Elena", hist[0].DownloadedBy)

	f, ok := s.Files().Find("f1")
	require.True(t, ok)
	assert.Equal(t, 1, f.DownloadCount)
}
