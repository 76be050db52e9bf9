package drive_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/infrastructure/drive"
	"github.com/projectdesk/api/internal/domain/storage"
)

func testKeyPEM(t *testing.T) ([]byte, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	return pem.EncodeToMemory(block), key
}

// fakeDrive servidor que imita el endpoint de token y la API v3.
type fakeDrive struct {
	key *rsa.PrivateKey

	tokenRequests int64
	uploadedMeta  map[string]any
	uploadedBody  []byte
	permissions   []map[string]string
	deleted       []string
	listQuery     string
}

func (f *fakeDrive) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.tokenRequests, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", r.Form.Get("grant_type"))

		// La assertion debe venir firmada con la llave de la cuenta de servicio.
		_, err := jwt.Parse(r.Form.Get("assertion"), func(tok *jwt.Token) (any, error) {
			return &f.key.PublicKey, nil
		}, jwt.WithValidMethods([]string{"RS256"}))
		assert.NoError(t, err)

		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-123", "expires_in": 3600})
	})

	mux.HandleFunc("/upload/drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/related", mediaType)

		mr := multipart.NewReader(r.Body, params["boundary"])
		metaPart, err := mr.NextPart()
		require.NoError(t, err)
		require.NoError(t, json.NewDecoder(metaPart).Decode(&f.uploadedMeta))
		filePart, err := mr.NextPart()
		require.NoError(t, err)
		f.uploadedBody, _ = io.ReadAll(filePart)

		_ = json.NewEncoder(w).Encode(map[string]string{"id": "drv-1"})
	})

	mux.HandleFunc("/drive/v3/files/drv-1/permissions", func(w http.ResponseWriter, r *http.Request) {
		var p map[string]string
		_ = json.NewDecoder(r.Body).Decode(&p)
		f.permissions = append(f.permissions, p)
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		f.listQuery = r.URL.Query().Get("q")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]string{
				{"id": "drv-1", "name": "logo.png", "mimeType": "image/png", "webViewLink": "https://drive.google.com/x"},
				{"id": "drv-2", "name": "brief.pdf", "mimeType": "application/pdf"},
			},
		})
	})

	mux.HandleFunc("/drive/v3/files/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			f.deleted = append(f.deleted, strings.TrimPrefix(r.URL.Path, "/drive/v3/files/"))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	return mux
}

func newService(t *testing.T) (*drive.Service, *fakeDrive) {
	t.Helper()
	pemBytes, key := testKeyPEM(t)
	fake := &fakeDrive{key: key}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	svc, err := drive.New(drive.Config{
		FolderID:      "folder-1",
		BaseFolderURL: "https://drive.google.com/drive/folders/folder-1",
		ClientEmail:   "svc@projectdesk.iam.gserviceaccount.com",
		PrivateKeyPEM: pemBytes,
		TokenURL:      srv.URL + "/token",
		APIBaseURL:    srv.URL,
	})
	require.NoError(t, err)
	return svc, fake
}

// ─── Construcción ────────────────────────────────────────────────────────────

func TestNew_LlavePrivadaInvalida(t *testing.T) {
	_, err := drive.New(drive.Config{PrivateKeyPEM: []byte("no es una llave")})
	require.Error(t, err)
}

// ─── Subida ──────────────────────────────────────────────────────────────────

func TestUpload_MetadatosYPermisoPublico(t *testing.T) {
	svc, fake := newService(t)
	blob := storage.Blob{Filename: "logo.png", MIMEType: "image/png", Size: 4, Content: []byte("data")}

	res, err := svc.Upload(context.Background(), blob, "p1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "drv-1", res.ExternalRef)
	assert.Equal(t, "https://drive.google.com/file/d/drv-1/view", res.ViewURL)

	// Metadatos de la primera parte: nombre, carpeta y etiquetas de proyecto.
	assert.Equal(t, "logo.png", fake.uploadedMeta["name"])
	assert.Equal(t, []any{"folder-1"}, fake.uploadedMeta["parents"])
	props, ok := fake.uploadedMeta["appProperties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p1", props["projectId"])
	assert.Equal(t, "s1", props["stageId"])
	assert.Equal(t, []byte("data"), fake.uploadedBody)

	// Tras subir se otorga lectura pública.
	require.Len(t, fake.permissions, 1)
	assert.Equal(t, map[string]string{"role": "reader", "type": "anyone"}, fake.permissions[0])
}

func TestUpload_ReutilizaElToken(t *testing.T) {
	svc, fake := newService(t)
	blob := storage.Blob{Filename: "logo.png", MIMEType: "image/png", Size: 4, Content: []byte("data")}

	_, err := svc.Upload(context.Background(), blob, "p1", "")
	require.NoError(t, err)
	_, err = svc.Upload(context.Background(), blob, "p1", "")
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt64(&fake.tokenRequests), "el token se cachea entre llamadas")
}

func TestUpload_ValidaSinTocarLaRed(t *testing.T) {
	svc, fake := newService(t)

	_, err := svc.Upload(context.Background(), storage.Blob{Filename: "a.exe", MIMEType: "application/x-msdownload", Size: 1}, "p1", "")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, atomic.LoadInt64(&fake.tokenRequests))
}

func TestUpload_ErrorDeAPI(t *testing.T) {
	pemBytes, key := testKeyPEM(t)
	fake := &fakeDrive{key: key}
	mux := http.NewServeMux()
	mux.Handle("/token", fake.handler(t))
	mux.HandleFunc("/upload/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc, err := drive.New(drive.Config{
		FolderID:      "folder-1",
		ClientEmail:   "svc@test",
		PrivateKeyPEM: pemBytes,
		TokenURL:      srv.URL + "/token",
		APIBaseURL:    srv.URL,
	})
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), storage.Blob{Filename: "a.png", MIMEType: "image/png", Size: 1, Content: []byte("x")}, "p1", "")
	var uerr *domain.UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "a.png", uerr.Filename)
	assert.Contains(t, uerr.Err.Error(), "403")
}

// ─── Borrado y listado ───────────────────────────────────────────────────────

func TestDelete_PorReferencia(t *testing.T) {
	svc, fake := newService(t)

	require.NoError(t, svc.Delete(context.Background(), "drv-9"))
	assert.Equal(t, []string{"drv-9"}, fake.deleted)
}

func TestList_FiltraPorProyecto(t *testing.T) {
	svc, fake := newService(t)

	entries, err := svc.List(context.Background(), "p1")
	require.NoError(t, err)

	assert.Contains(t, fake.listQuery, "'folder-1' in parents")
	assert.Contains(t, fake.listQuery, "appProperties has { key='projectId' and value='p1' }")

	require.Len(t, entries, 2)
	assert.Equal(t, "https://drive.google.com/x", entries[0].ViewURL)
	// Sin webViewLink la URL se reconstruye a partir del id.
	assert.Equal(t, fmt.Sprintf("https://drive.google.com/file/d/%s/view", "drv-2"), entries[1].ViewURL)
}
