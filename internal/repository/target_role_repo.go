package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"career-compass/internal/domain"
)

type TargetRoleRepository interface {
	Set(ctx context.Context, selection domain.TargetRoleSelection) error
	Get(ctx context.Context, userID string) (domain.TargetRoleSelection, error)
	Clear(ctx context.Context, userID string) error
}

type PgTargetRoleRepository struct {
	pool *pgxpool.Pool
}

func NewPgTargetRoleRepository(pool *pgxpool.Pool) *PgTargetRoleRepository {
	return &PgTargetRoleRepository{pool: pool}
}

// Set reemplaza la selección previa del usuario; nunca acumula.
func (r *PgTargetRoleRepository) Set(ctx context.Context, selection domain.TargetRoleSelection) error {
	const query = `
		INSERT INTO target_role_selections (user_id, role_id, selected_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET
			role_id = EXCLUDED.role_id,
			selected_at = EXCLUDED.selected_at
	`
	_, err := r.pool.Exec(ctx, query,
		selection.UserID,
		selection.RoleID,
		selection.SelectedAt,
	)
	return err
}

func (r *PgTargetRoleRepository) Get(ctx context.Context, userID string) (domain.TargetRoleSelection, error) {
	const query = `
		SELECT user_id, role_id, selected_at
		FROM target_role_selections
		WHERE user_id = $1
	`
	var selection domain.TargetRoleSelection
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&selection.UserID,
		&selection.RoleID,
		&selection.SelectedAt,
	)
	return selection, err
}

func (r *PgTargetRoleRepository) Clear(ctx context.Context, userID string) error {
	const query = `
		DELETE FROM target_role_selections
		WHERE user_id = $1
	`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}
