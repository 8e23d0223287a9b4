package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"career-compass/internal/domain"
)

type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	SearchByEmbedding(ctx context.Context, queryEmbedding pgvector.Vector, k int) ([]domain.RoleMatch, error)
}

type PgRoleRepository struct {
	pool *pgxpool.Pool
}

func NewPgRoleRepository(pool *pgxpool.Pool) *PgRoleRepository {
	return &PgRoleRepository{pool: pool}
}

func (r *PgRoleRepository) GetByID(ctx context.Context, id int64) (domain.Role, error) {
	const query = `
		SELECT id, title, industry, role_type, required_skills, created_at
		FROM roles
		WHERE id = $1
	`
	var role domain.Role
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&role.ID,
		&role.Title,
		&role.Industry,
		&role.RoleType,
		&role.RequiredSkills,
		&role.CreatedAt,
	)
	return role, err
}

func (r *PgRoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	const query = `
		SELECT id, title, industry, role_type, required_skills, created_at
		FROM roles
		ORDER BY industry, title
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(
			&role.ID,
			&role.Title,
			&role.Industry,
			&role.RoleType,
			&role.RequiredSkills,
			&role.CreatedAt,
		); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}

// SearchByEmbedding devuelve los k roles más cercanos al embedding del
// perfil de habilidades. Solo para recomendaciones: el matching del
// reporte de brechas es siempre exacto por nombre.
func (r *PgRoleRepository) SearchByEmbedding(ctx context.Context, queryEmbedding pgvector.Vector, k int) ([]domain.RoleMatch, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT id, title, industry, role_type, required_skills, created_at, embedding <=> $1 AS distance
		FROM roles
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, queryEmbedding, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.RoleMatch
	for rows.Next() {
		var m domain.RoleMatch
		if err := rows.Scan(
			&m.Role.ID,
			&m.Role.Title,
			&m.Role.Industry,
			&m.Role.RoleType,
			&m.Role.RequiredSkills,
			&m.Role.CreatedAt,
			&m.Distance,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}
