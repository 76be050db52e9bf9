package entity

import "time"

// User perfil de usuario (relación profiles). Es la fuente del rol que viaja
// en el JWT; el núcleo nunca confía en un rol que no venga de aquí.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Role         Role
	CreatedAt    time.Time
}
