package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"career-compass/internal/repository"
)

// GapTrackerRegistry mantiene un tracker por usuario durante la vida del
// proceso. El tracker se crea perezosamente en el primer acceso y lanza
// su carga inicial en ese momento.
type GapTrackerRegistry struct {
	logger  *zap.Logger
	roles   repository.RoleRepository
	targets repository.TargetRoleRepository
	skills  repository.SkillRepository

	mu       sync.Mutex
	trackers map[string]*GapTracker
	schedule func(fn func())
}

func NewGapTrackerRegistry(
	logger *zap.Logger,
	roles repository.RoleRepository,
	targets repository.TargetRoleRepository,
	skills repository.SkillRepository,
) *GapTrackerRegistry {
	return NewGapTrackerRegistryWithScheduler(logger, roles, targets, skills, nil)
}

// NewGapTrackerRegistryWithScheduler inyecta el scheduler de los
// trackers creados por el registry; nil usa goroutines.
func NewGapTrackerRegistryWithScheduler(
	logger *zap.Logger,
	roles repository.RoleRepository,
	targets repository.TargetRoleRepository,
	skills repository.SkillRepository,
	schedule func(fn func()),
) *GapTrackerRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GapTrackerRegistry{
		logger:   logger,
		roles:    roles,
		targets:  targets,
		skills:   skills,
		trackers: make(map[string]*GapTracker),
		schedule: schedule,
	}
}

// ForUser devuelve el tracker del usuario, creándolo si es la primera
// vez que se lo consulta.
func (r *GapTrackerRegistry) ForUser(userID string) *GapTracker {
	r.mu.Lock()
	tracker, ok := r.trackers[userID]
	if !ok {
		source := &repoGapInputSource{
			userID:  userID,
			roles:   r.roles,
			targets: r.targets,
			skills:  r.skills,
		}
		tracker = NewGapTrackerWithScheduler(userID, source, r.logger, r.schedule)
		r.trackers[userID] = tracker
	}
	r.mu.Unlock()

	if !ok {
		tracker.Refresh()
	}
	return tracker
}

// repoGapInputSource lee rol objetivo y habilidades desde los repos al
// momento en que el recálculo corre.
type repoGapInputSource struct {
	userID  string
	roles   repository.RoleRepository
	targets repository.TargetRoleRepository
	skills  repository.SkillRepository
}

func (s *repoGapInputSource) GapInputs(ctx context.Context) (GapInputs, error) {
	levels, err := s.skills.LevelsByUserID(ctx, s.userID)
	if err != nil {
		return GapInputs{}, fmt.Errorf("load skills: %w", err)
	}

	selection, err := s.targets.Get(ctx, s.userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return GapInputs{UserSkills: levels}, nil
		}
		return GapInputs{}, fmt.Errorf("load target role: %w", err)
	}

	role, err := s.roles.GetByID(ctx, selection.RoleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Selección colgante hacia un rol retirado del catálogo.
			return GapInputs{UserSkills: levels}, nil
		}
		return GapInputs{}, fmt.Errorf("load role %d: %w", selection.RoleID, err)
	}

	return GapInputs{Role: &role, UserSkills: levels}, nil
}
