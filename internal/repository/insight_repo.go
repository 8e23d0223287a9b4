package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"career-compass/internal/domain"
)

type InsightRepository interface {
	Create(ctx context.Context, insight domain.GapInsight) error
	GetLatestByUserID(ctx context.Context, userID string) (domain.GapInsight, error)
}

type PgInsightRepository struct {
	pool *pgxpool.Pool
}

func NewPgInsightRepository(pool *pgxpool.Pool) *PgInsightRepository {
	return &PgInsightRepository{pool: pool}
}

func (r *PgInsightRepository) Create(ctx context.Context, insight domain.GapInsight) error {
	const query = `
		INSERT INTO gap_insights (id, user_id, role_id, match_score, items, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	items, err := json.Marshal(insight.Items)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		insight.ID,
		insight.UserID,
		insight.RoleID,
		insight.MatchScore,
		items,
		insight.Summary,
		insight.CreatedAt,
	)
	return err
}

func (r *PgInsightRepository) GetLatestByUserID(ctx context.Context, userID string) (domain.GapInsight, error) {
	const query = `
		SELECT id, user_id, role_id, match_score, items, summary, created_at
		FROM gap_insights
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var (
		insight domain.GapInsight
		items   []byte
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&insight.ID,
		&insight.UserID,
		&insight.RoleID,
		&insight.MatchScore,
		&items,
		&insight.Summary,
		&insight.CreatedAt,
	)
	if err != nil {
		return domain.GapInsight{}, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &insight.Items); err != nil {
			return domain.GapInsight{}, err
		}
	}
	return insight, nil
}
