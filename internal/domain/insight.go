package domain

import "time"

const (
	InsightPriorityCritical = "critical"
	InsightPriorityHigh     = "high"
	InsightPriorityMedium   = "medium"
)

// InsightItem es la guía del LLM para una habilidad faltante o débil.
type InsightItem struct {
	Skill        string `json:"skill"`
	Category     string `json:"category"`
	Priority     string `json:"priority"`
	LearningTime string `json:"learning_time"`
	Suggestion   string `json:"suggestion"`
}

// GapInsight es el análisis narrativo persistido de una brecha.
// MatchScore siempre se sobreescribe con el valor calculado por el motor;
// al LLM no se le confían números que ya derivamos nosotros.
type GapInsight struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	RoleID     int64         `json:"role_id"`
	MatchScore float64       `json:"match_score"`
	Items      []InsightItem `json:"items"`
	Summary    string        `json:"summary"`
	CreatedAt  time.Time     `json:"created_at"`
}
