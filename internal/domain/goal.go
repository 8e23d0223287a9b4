package domain

import "time"

// CareerGoal guarda la metadata de la meta de carrera del usuario.
// Readiness viene suministrado externamente, el núcleo no lo calcula.
type CareerGoal struct {
	UserID     string     `json:"user_id"`
	TargetDate *time.Time `json:"target_date,omitempty"`
	Readiness  int        `json:"readiness"`
	Notes      string     `json:"notes,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
