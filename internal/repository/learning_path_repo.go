package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"career-compass/internal/domain"
)

type LearningPathRepository interface {
	Create(ctx context.Context, path domain.LearningPath) error
	GetLatestByUserID(ctx context.Context, userID string) (domain.LearningPath, error)
}

type PgLearningPathRepository struct {
	pool *pgxpool.Pool
}

func NewPgLearningPathRepository(pool *pgxpool.Pool) *PgLearningPathRepository {
	return &PgLearningPathRepository{pool: pool}
}

func (r *PgLearningPathRepository) Create(ctx context.Context, path domain.LearningPath) error {
	const query = `
		INSERT INTO learning_paths (id, user_id, role_id, steps, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	steps, err := json.Marshal(path.Steps)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		path.ID,
		path.UserID,
		path.RoleID,
		steps,
		path.CreatedAt,
	)
	return err
}

func (r *PgLearningPathRepository) GetLatestByUserID(ctx context.Context, userID string) (domain.LearningPath, error) {
	const query = `
		SELECT id, user_id, role_id, steps, created_at
		FROM learning_paths
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var (
		path  domain.LearningPath
		steps []byte
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&path.ID,
		&path.UserID,
		&path.RoleID,
		&steps,
		&path.CreatedAt,
	)
	if err != nil {
		return domain.LearningPath{}, err
	}
	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &path.Steps); err != nil {
			return domain.LearningPath{}, err
		}
	}
	return path, nil
}
