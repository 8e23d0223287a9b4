package domain

const (
	GapStatusMissing     = "missing"
	GapStatusImprovement = "improvement"
	GapStatusStrong      = "strong"
)

// GapEntry es una fila derivada del reporte de brechas. Nunca se muta en
// sitio: cada recálculo reemplaza la lista completa.
type GapEntry struct {
	SkillName  string `json:"skill_name"`
	Status     string `json:"status"`
	Percentage int    `json:"percentage"`
	HasSkill   bool   `json:"has_skill"`
}
