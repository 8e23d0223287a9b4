package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"career-compass/internal/domain"
	"career-compass/internal/repository"
)

// DashboardService compone el reporte de brechas con el rol activo y la
// meta de carrera en un view model de solo lectura. Sin lógica de
// negocio: únicamente defaults null-safe para estados vacíos.
type DashboardService struct {
	targetRoles *TargetRoleService
	goals       repository.GoalRepository
	trackers    *GapTrackerRegistry
}

func NewDashboardService(targetRoles *TargetRoleService, goals repository.GoalRepository, trackers *GapTrackerRegistry) *DashboardService {
	return &DashboardService{
		targetRoles: targetRoles,
		goals:       goals,
		trackers:    trackers,
	}
}

func (s *DashboardService) BuildDashboard(ctx context.Context, userID string) (domain.DashboardView, error) {
	role, hasRole, err := s.targetRoles.GetTargetRole(ctx, userID)
	if err != nil {
		return domain.DashboardView{}, err
	}

	entries, state := s.trackers.ForUser(userID).Report()

	view := domain.DashboardView{
		State:      domain.DashboardStateOK,
		GapEntries: SortGapEntries(entries),
		GapState:   string(state),
	}

	if !hasRole {
		view.State = domain.DashboardStateNoTargetRole
	} else {
		view.RoleTitle = role.Title
		if state == GapStateReady && (len(entries) == 0 || allMissing(entries)) {
			// Reporte vacío o sin habilidades evaluadas: invitar a evaluar.
			view.State = domain.DashboardStateNoAssessment
		}
	}

	goal, err := s.goals.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.DashboardView{}, fmt.Errorf("get goal: %w", err)
		}
	} else {
		view.Goal = &goal
	}

	return view, nil
}

func allMissing(entries []domain.GapEntry) bool {
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if e.HasSkill {
			return false
		}
	}
	return true
}
