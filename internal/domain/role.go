package domain

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// Role es una entrada del catálogo de roles. Inmutable desde el punto de
// vista del motor: los required skills se comparan contra las habilidades
// del usuario por nombre exacto case-insensitive.
type Role struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Industry       string          `json:"industry"`
	RoleType       string          `json:"role_type"`
	RequiredSkills []string        `json:"required_skills"`
	Embedding      pgvector.Vector `json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RoleMatch es un rol del catálogo con su distancia de similitud
// respecto al perfil de habilidades del usuario.
type RoleMatch struct {
	Role     Role    `json:"role"`
	Distance float64 `json:"distance"`
}

// TargetRoleSelection apunta al rol objetivo activo de un usuario.
// A lo sumo una selección por usuario; se reemplaza, nunca se acumula.
type TargetRoleSelection struct {
	UserID     string    `json:"user_id"`
	RoleID     int64     `json:"role_id"`
	SelectedAt time.Time `json:"selected_at"`
}
