package entity

import "fmt"

// Role rol del actor autenticado. Toda decisión de visibilidad parte de aquí.
type Role string

const (
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// ParseRole valida que el rol sea uno de los tres soportados.
// Cualquier otro valor se rechaza aguas arriba (precondición de entrada).
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleEmployee, RoleManager:
		return Role(s), nil
	}
	return "", fmt.Errorf("rol desconocido: %q", s)
}

// Actor identidad autenticada de la sesión. Inmutable mientras dure la sesión;
// la provee el middleware de auth a partir del JWT.
type Actor struct {
	ID          string
	DisplayName string
	Role        Role
}
