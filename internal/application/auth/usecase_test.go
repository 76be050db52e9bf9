package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/projectdesk/api/internal/application/auth"
	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/internal/infrastructure/memstore"
	"github.com/projectdesk/api/pkg/jwt"
)

const (
	testSecret = "secreto-de-test"
	testIssuer = "projectdesk-test"
)

func newUseCase(t *testing.T) (*auth.UseCase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	store.Seed(record.RelProfiles, record.Row{
		"id":            "u1",
		"email":         "ana@acme.test",
		"password_hash": string(hash),
		"full_name":     "Ana",
		"role":          "employee",
	})
	return auth.NewUseCase(store, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: testIssuer}), store
}

// ─── Login ───────────────────────────────────────────────────────────────────

func TestLogin_EmiteTokenConPerfil(t *testing.T) {
	uc, _ := newUseCase(t)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.test", Password: "hunter2"})
	require.NoError(t, err)

	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "employee", resp.User.Role)

	userID, fullName, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "Ana", fullName)
	assert.Equal(t, "employee", role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.test", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Cuenta inexistente responde igual que password errado.
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@acme.test", Password: "hunter2"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_CamposRequeridos(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@acme.test"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

// ─── Registro ────────────────────────────────────────────────────────────────

func TestRegister_HasheaYPermiteLogin(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	out, err := uc.Register(ctx, dto.RegisterRequest{
		Email:    "beto@acme.test",
		Password: "clave123",
		FullName: "Beto",
		Role:     "client",
	})
	require.NoError(t, err)
	assert.Equal(t, "client", out.Role)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "beto@acme.test", Password: "clave123"})
	require.NoError(t, err)
	assert.Equal(t, "Beto", resp.User.FullName)
}

func TestRegister_RolManagerRechazado(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:    "jefe@acme.test",
		Password: "clave123",
		Role:     "manager",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role", verr.Field)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:    "ana@acme.test",
		Password: "clave123",
		Role:     "employee",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegister_RolDesconocido(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:    "x@acme.test",
		Password: "clave123",
		Role:     "superuser",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}
