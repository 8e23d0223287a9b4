package domain

const (
	DashboardStateOK           = "ok"
	DashboardStateNoTargetRole = "no_target_role"
	DashboardStateNoAssessment = "no_assessment"
)

// DashboardView es el modelo de lectura que consume la capa de
// presentación. Composición pura: sin lógica de negocio más allá de los
// placeholders para estados vacíos.
type DashboardView struct {
	State      string      `json:"state"`
	RoleTitle  string      `json:"role_title,omitempty"`
	GapEntries []GapEntry  `json:"gap_entries"`
	GapState   string      `json:"gap_state"`
	Goal       *CareerGoal `json:"goal,omitempty"`
}
