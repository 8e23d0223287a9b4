package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"career-compass/internal/domain"
	"career-compass/internal/repository"
)

var ErrRoleNotFound = errors.New("role not found")

// TargetRoleService administra la selección de rol objetivo. Cambiar la
// selección invalida el reporte de brechas del usuario antes de retornar.
type TargetRoleService struct {
	logger   *zap.Logger
	roles    repository.RoleRepository
	targets  repository.TargetRoleRepository
	trackers *GapTrackerRegistry
}

func NewTargetRoleService(
	logger *zap.Logger,
	roles repository.RoleRepository,
	targets repository.TargetRoleRepository,
	trackers *GapTrackerRegistry,
) *TargetRoleService {
	return &TargetRoleService{
		logger:   logger,
		roles:    roles,
		targets:  targets,
		trackers: trackers,
	}
}

// SetTargetRole reemplaza la selección del usuario y marca Stale el
// reporte cacheado de forma síncrona: cuando esta llamada retorna,
// ningún observador puede leer como fresco un reporte del rol anterior.
func (s *TargetRoleService) SetTargetRole(ctx context.Context, userID string, roleID int64) (domain.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Role{}, ErrRoleNotFound
		}
		return domain.Role{}, fmt.Errorf("get role %d: %w", roleID, err)
	}

	selection := domain.TargetRoleSelection{
		UserID:     userID,
		RoleID:     roleID,
		SelectedAt: time.Now().UTC(),
	}
	if err := s.targets.Set(ctx, selection); err != nil {
		return domain.Role{}, fmt.Errorf("set target role: %w", err)
	}

	s.trackers.ForUser(userID).MarkStale()
	s.logger.Info("target role selected", zap.String("user_id", userID), zap.Int64("role_id", roleID))
	return role, nil
}

// GetTargetRole devuelve el rol objetivo activo; ausente es un estado
// válido y se reporta con ok=false, no con error.
func (s *TargetRoleService) GetTargetRole(ctx context.Context, userID string) (domain.Role, bool, error) {
	selection, err := s.targets.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Role{}, false, nil
		}
		return domain.Role{}, false, fmt.Errorf("get target role: %w", err)
	}

	role, err := s.roles.GetByID(ctx, selection.RoleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Role{}, false, nil
		}
		return domain.Role{}, false, fmt.Errorf("get role %d: %w", selection.RoleID, err)
	}
	return role, true, nil
}

// ClearTargetRole borra la selección e invalida el reporte.
func (s *TargetRoleService) ClearTargetRole(ctx context.Context, userID string) error {
	if err := s.targets.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear target role: %w", err)
	}
	s.trackers.ForUser(userID).MarkStale()
	return nil
}
