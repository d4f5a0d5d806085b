package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleOperador   = "operador"
	RoleSuperAdmin = "super_admin" // ve todas las granjas
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema (pertenece a una Farm).
type User struct {
	ID           string
	FarmID       string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
