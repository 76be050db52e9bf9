package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound  = errors.New("recurso no encontrado")
	ErrDuplicate = errors.New("recurso duplicado")
	ErrForbidden = errors.New("acceso denegado")
	ErrLockHeld  = errors.New("la página está bloqueada por otro usuario")
)

// ValidationError entrada malformada o incompleta. Se reporta al llamador
// inmediato y nunca se reintenta.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validación: " + e.Reason
	}
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Reason)
}

// AuthorizationError el actor no tiene alcance sobre el recurso. Se reporta,
// se registra y nunca se reintenta.
type AuthorizationError struct {
	ActorID   string
	ProjectID string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("autorización: el usuario %s no tiene acceso al proyecto %s", e.ActorID, e.ProjectID)
}

// UploadError falló la subida al object store; no se escribió ningún metadato.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("subida de %s: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistError la subida al object store fue exitosa pero el insert de
// metadatos falló: queda un blob huérfano (ExternalRef) que se resuelve por
// conciliación manual, no se revierte automáticamente.
type PersistError struct {
	ExternalRef string
	Err         error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persistencia de metadatos (blob huérfano %s): %v", e.ExternalRef, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// StoreUnavailableError el record store no es alcanzable. Los sincronizadores
// lo registran y conservan el snapshot anterior en lugar de vaciarlo.
type StoreUnavailableError struct {
	Relation string
	Err      error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("record store no disponible (%s): %v", e.Relation, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }
