package domain

import "time"

const (
	SkillCategoryTechnical     = "technical"
	SkillCategoryLeadership    = "leadership"
	SkillCategoryCommunication = "communication"
	SkillCategoryAnalytical    = "analytical"
	SkillCategoryCreative      = "creative"
)

// Skill es la autoevaluación de un usuario sobre una habilidad.
// La identidad por usuario es el nombre en minúsculas; se crea en la
// primera evaluación y se actualiza con las siguientes, nunca se borra
// de forma implícita.
type Skill struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	CurrentLevel int       `json:"current_level"`
	TargetLevel  int       `json:"target_level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SkillLevel es la vista mínima que consume el motor de brechas.
type SkillLevel struct {
	CurrentLevel int `json:"current_level"`
	TargetLevel  int `json:"target_level"`
}

// ValidSkillCategory indica si la categoría es una de las conocidas.
func ValidSkillCategory(category string) bool {
	switch category {
	case SkillCategoryTechnical, SkillCategoryLeadership, SkillCategoryCommunication,
		SkillCategoryAnalytical, SkillCategoryCreative:
		return true
	}
	return false
}
