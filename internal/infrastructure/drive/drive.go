// Package drive implementa el object store sobre Google Drive con una cuenta
// de servicio: JWT RS256 → access token → API v3. Los archivos cuelgan de una
// carpeta fija y se etiquetan con appProperties (projectId, stageId) para
// poder listarlos por proyecto.
package drive

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/storage"
)

var _ storage.Store = (*Service)(nil)

const driveScope = "https://www.googleapis.com/auth/drive"

// Config parámetros del adaptador. Las URLs base solo se cambian en tests.
type Config struct {
	FolderID      string
	BaseFolderURL string
	ClientEmail   string
	PrivateKeyPEM []byte
	TokenURL      string // default https://oauth2.googleapis.com/token
	APIBaseURL    string // default https://www.googleapis.com
}

// Service adaptador del object store sobre la API de Drive.
type Service struct {
	cfg    Config
	key    *rsa.PrivateKey
	client *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// New construye el adaptador validando la llave privada de la cuenta de servicio.
func New(cfg Config) (*Service, error) {
	if cfg.TokenURL == "" {
		cfg.TokenURL = "https://oauth2.googleapis.com/token"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://www.googleapis.com"
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(cfg.PrivateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("drive: llave privada inválida: %w", err)
	}
	return &Service{cfg: cfg, key: key, client: &http.Client{Timeout: 30 * time.Second}}, nil
}

// BaseFolderLink enlace a la carpeta raíz compartida.
func (s *Service) BaseFolderLink() string { return s.cfg.BaseFolderURL }

// Upload valida el blob (sin red) y lo sube en una sola petición
// multipart/related con los metadatos. Tras subir, otorga lectura pública
// best-effort para que el ViewURL funcione sin cuenta.
func (s *Service) Upload(ctx context.Context, blob storage.Blob, projectID, stageID string) (storage.UploadResult, error) {
	if err := blob.Validate(); err != nil {
		return storage.UploadResult{}, err
	}

	token, err := s.accessToken(ctx)
	if err != nil {
		return storage.UploadResult{}, &domain.UploadError{Filename: blob.Filename, Err: err}
	}

	meta := map[string]any{
		"name":    blob.Filename,
		"parents": []string{s.cfg.FolderID},
		"appProperties": map[string]string{
			"projectId": projectID,
			"stageId":   stageID,
		},
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return storage.UploadResult{}, &domain.UploadError{Filename: blob.Filename, Err: err}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	part, err := mw.CreatePart(metaHeader)
	if err == nil {
		_, err = part.Write(metaJSON)
	}
	if err == nil {
		fileHeader := textproto.MIMEHeader{}
		fileHeader.Set("Content-Type", contentTypeOrDefault(blob.MIMEType))
		part, err = mw.CreatePart(fileHeader)
		if err == nil {
			_, err = part.Write(blob.Content)
		}
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		return storage.UploadResult{}, &domain.UploadError{Filename: blob.Filename, Err: err}
	}

	uploadURL := s.cfg.APIBaseURL + "/upload/drive/v3/files?uploadType=multipart"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return storage.UploadResult{}, &domain.UploadError{Filename: blob.Filename, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "multipart/related; boundary="+mw.Boundary())

	resp, err := s.client.Do(req)
	if err != nil {
		return storage.UploadResult{}, &domain.UploadError{Filename: blob.Filename, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		txt, _ := io.ReadAll(resp.Body)
		return storage.UploadResult{}, &domain.UploadError{
			Filename: blob.Filename,
			Err:      fmt.Errorf("drive upload %d: %s", resp.StatusCode, strings.TrimSpace(string(txt))),
		}
	}

	var uploaded struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil || uploaded.ID == "" {
		return storage.UploadResult{}, &domain.UploadError{Filename: blob.Filename, Err: fmt.Errorf("respuesta de drive sin id: %v", err)}
	}

	// Lectura pública best-effort: si falla, el archivo queda subido igual.
	s.ensureAnyoneRead(ctx, uploaded.ID, token)

	return storage.UploadResult{
		ExternalRef: uploaded.ID,
		ViewURL:     fmt.Sprintf("https://drive.google.com/file/d/%s/view", uploaded.ID),
	}, nil
}

// Delete elimina el objeto por su referencia externa.
func (s *Service) Delete(ctx context.Context, externalRef string) error {
	token, err := s.accessToken(ctx)
	if err != nil {
		return err
	}
	u := fmt.Sprintf("%s/drive/v3/files/%s", s.cfg.APIBaseURL, url.PathEscape(externalRef))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("drive delete %s: status %d", externalRef, resp.StatusCode)
	}
	return nil
}

// List enumera los objetos de un proyecto por appProperties. Con projectID
// vacío lista toda la carpeta.
func (s *Service) List(ctx context.Context, projectID string) ([]storage.Entry, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("'%s' in parents and trashed = false", s.cfg.FolderID)
	if projectID != "" {
		q += fmt.Sprintf(" and appProperties has { key='projectId' and value='%s' }", projectID)
	}
	u := fmt.Sprintf("%s/drive/v3/files?q=%s&fields=%s",
		s.cfg.APIBaseURL, url.QueryEscape(q), url.QueryEscape("files(id,name,mimeType,webViewLink)"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("drive list: status %d", resp.StatusCode)
	}
	var out struct {
		Files []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			MimeType    string `json:"mimeType"`
			WebViewLink string `json:"webViewLink"`
		} `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	entries := make([]storage.Entry, 0, len(out.Files))
	for _, f := range out.Files {
		view := f.WebViewLink
		if view == "" {
			view = fmt.Sprintf("https://drive.google.com/file/d/%s/view", f.ID)
		}
		entries = append(entries, storage.Entry{
			ExternalRef: f.ID, Name: f.Name, MIMEType: f.MimeType, ViewURL: view,
		})
	}
	return entries, nil
}

// accessToken intercambia un JWT RS256 de la cuenta de servicio por un access
// token OAuth. Cachea el token hasta un minuto antes de expirar.
func (s *Service) accessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" && time.Now().Before(s.tokenExp.Add(-time.Minute)) {
		return s.token, nil
	}

	now := time.Now()
	assertion := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   s.cfg.ClientEmail,
		"scope": driveScope,
		"aud":   s.cfg.TokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	signed, err := assertion.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("firmar assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {signed},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		txt, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token exchange %d: %s", resp.StatusCode, strings.TrimSpace(string(txt)))
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token exchange sin access_token")
	}
	s.token = tok.AccessToken
	s.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return s.token, nil
}

func (s *Service) ensureAnyoneRead(ctx context.Context, fileID, token string) {
	body, _ := json.Marshal(map[string]string{"role": "reader", "type": "anyone"})
	u := fmt.Sprintf("%s/drive/v3/files/%s/permissions", s.cfg.APIBaseURL, url.PathEscape(fileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	if resp, err := s.client.Do(req); err == nil {
		resp.Body.Close()
	}
}

func contentTypeOrDefault(mime string) string {
	if mime == "" {
		return "application/octet-stream"
	}
	return mime
}
