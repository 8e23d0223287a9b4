package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"career-compass/internal/domain"
)

type SkillRepository interface {
	Upsert(ctx context.Context, skill domain.Skill) error
	ListByUserID(ctx context.Context, userID string) ([]domain.Skill, error)
	LevelsByUserID(ctx context.Context, userID string) (map[string]domain.SkillLevel, error)
}

type PgSkillRepository struct {
	pool *pgxpool.Pool
}

func NewPgSkillRepository(pool *pgxpool.Pool) *PgSkillRepository {
	return &PgSkillRepository{pool: pool}
}

func (r *PgSkillRepository) Upsert(ctx context.Context, skill domain.Skill) error {
	const query = `
		INSERT INTO skills (id, user_id, name, category, current_level, target_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, lower(name))
		DO UPDATE SET
			category = EXCLUDED.category,
			current_level = EXCLUDED.current_level,
			target_level = EXCLUDED.target_level,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		skill.ID,
		skill.UserID,
		skill.Name,
		skill.Category,
		skill.CurrentLevel,
		skill.TargetLevel,
		skill.CreatedAt,
		skill.UpdatedAt,
	)
	return err
}

func (r *PgSkillRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Skill, error) {
	const query = `
		SELECT id, user_id, name, category, current_level, target_level, created_at, updated_at
		FROM skills
		WHERE user_id = $1
		ORDER BY category, lower(name)
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []domain.Skill
	for rows.Next() {
		var s domain.Skill
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&s.Category,
			&s.CurrentLevel,
			&s.TargetLevel,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return skills, nil
}

// LevelsByUserID devuelve las habilidades indexadas por nombre en
// minúsculas, la forma que consume el motor de brechas.
func (r *PgSkillRepository) LevelsByUserID(ctx context.Context, userID string) (map[string]domain.SkillLevel, error) {
	skills, err := r.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	levels := make(map[string]domain.SkillLevel, len(skills))
	for _, s := range skills {
		levels[strings.ToLower(s.Name)] = domain.SkillLevel{
			CurrentLevel: s.CurrentLevel,
			TargetLevel:  s.TargetLevel,
		}
	}
	return levels, nil
}
