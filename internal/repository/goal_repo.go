package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"career-compass/internal/domain"
)

type GoalRepository interface {
	Upsert(ctx context.Context, goal domain.CareerGoal) error
	GetByUserID(ctx context.Context, userID string) (domain.CareerGoal, error)
}

type PgGoalRepository struct {
	pool *pgxpool.Pool
}

func NewPgGoalRepository(pool *pgxpool.Pool) *PgGoalRepository {
	return &PgGoalRepository{pool: pool}
}

func (r *PgGoalRepository) Upsert(ctx context.Context, goal domain.CareerGoal) error {
	const query = `
		INSERT INTO career_goals (user_id, target_date, readiness, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET
			target_date = EXCLUDED.target_date,
			readiness = EXCLUDED.readiness,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
	`
	var targetDate interface{}
	if goal.TargetDate != nil {
		targetDate = *goal.TargetDate
	}

	_, err := r.pool.Exec(ctx, query,
		goal.UserID,
		targetDate,
		goal.Readiness,
		goal.Notes,
		goal.UpdatedAt,
	)
	return err
}

func (r *PgGoalRepository) GetByUserID(ctx context.Context, userID string) (domain.CareerGoal, error) {
	const query = `
		SELECT user_id, target_date, readiness, notes, updated_at
		FROM career_goals
		WHERE user_id = $1
	`
	var goal domain.CareerGoal
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&goal.UserID,
		&goal.TargetDate,
		&goal.Readiness,
		&goal.Notes,
		&goal.UpdatedAt,
	)
	return goal, err
}
