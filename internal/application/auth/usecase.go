package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/projectdesk/api/internal/application/dto"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/entity"
	"github.com/projectdesk/api/internal/domain/record"
	"github.com/projectdesk/api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación: login y alta de cuentas.
type UseCase struct {
	records record.Store
	jwtCfg  JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(records record.Store, jwtCfg JWTConfig) *UseCase {
	return &UseCase{records: records, jwtCfg: jwtCfg}
}

// Login verifica email/password contra la relación de perfiles, genera JWT y
// retorna token + perfil.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, &domain.ValidationError{Field: "email", Reason: "email y password requeridos"}
	}
	rows, err := uc.records.Select(ctx, record.Query{
		Relation: record.RelProfiles,
		Filters:  []record.Filter{record.Eq("email", in.Email)},
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrForbidden
	}
	row := rows[0]
	if err := bcrypt.CompareHashAndPassword([]byte(row.String("password_hash")), []byte(in.Password)); err != nil {
		return nil, domain.ErrForbidden
	}

	user := entity.User{
		ID:       row.String("id"),
		Email:    row.String("email"),
		FullName: row.String("full_name"),
		Role:     entity.Role(row.String("role")),
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.FullName, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: dto.ToUserResponse(user)}, nil
}

// Register crea una cuenta nueva: valida el rol, hashea la contraseña con
// bcrypt e inserta el perfil. El handler restringe la operación a managers.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, &domain.ValidationError{Field: "email", Reason: "email y password requeridos"}
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, &domain.ValidationError{Field: "role", Reason: "rol desconocido"}
	}
	if role == entity.RoleManager {
		// Los managers se provisionan por fuera de la API.
		return nil, &domain.ValidationError{Field: "role", Reason: "rol no permitido en el registro"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	fullName := in.FullName
	if fullName == "" {
		fullName = in.Email
	}
	row, err := uc.records.Insert(ctx, record.RelProfiles, record.Row{
		"email":         in.Email,
		"password_hash": string(hash),
		"full_name":     fullName,
		"role":          string(role),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicate
		}
		return nil, err
	}
	out := dto.ToUserResponse(entity.User{
		ID:       row.String("id"),
		Email:    in.Email,
		FullName: fullName,
		Role:     role,
	})
	return &out, nil
}
