package domain

import "time"

// LearningStep es un paso ordenado dentro de un plan de aprendizaje.
type LearningStep struct {
	Skill    string `json:"skill"`
	Action   string `json:"action"`
	Duration string `json:"estimated_duration"`
}

// LearningPath es el plan generado por el LLM para cerrar la brecha
// contra el rol objetivo activo.
type LearningPath struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	RoleID    int64          `json:"role_id"`
	Steps     []LearningStep `json:"steps"`
	CreatedAt time.Time      `json:"created_at"`
}
