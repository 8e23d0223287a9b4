package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"

	"career-compass/internal/domain"
	"career-compass/internal/llm"
	"career-compass/internal/repository"
)

var ErrNoSkillsAssessed = errors.New("no skills assessed")

// RoleMatchService recomienda roles del catálogo cercanos al perfil de
// habilidades del usuario vía búsqueda vectorial. Es una feature de
// descubrimiento: el reporte de brechas nunca usa similitud, siempre
// matching exacto por nombre.
type RoleMatchService struct {
	llmClient llm.LLMClient
	roles     repository.RoleRepository
	skills    repository.SkillRepository
}

func NewRoleMatchService(llmClient llm.LLMClient, roles repository.RoleRepository, skills repository.SkillRepository) *RoleMatchService {
	return &RoleMatchService{
		llmClient: llmClient,
		roles:     roles,
		skills:    skills,
	}
}

// RecommendRoles embebe un resumen del perfil de habilidades y devuelve
// los k roles más cercanos.
func (s *RoleMatchService) RecommendRoles(ctx context.Context, userID string, k int) ([]domain.RoleMatch, error) {
	skills, err := s.skills.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	if len(skills) == 0 {
		return nil, ErrNoSkillsAssessed
	}

	embed, err := s.llmClient.CreateEmbedding(ctx, skillSummary(skills))
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}

	matches, err := s.roles.SearchByEmbedding(ctx, pgvector.NewVector(embed), k)
	if err != nil {
		return nil, fmt.Errorf("search roles: %w", err)
	}
	return matches, nil
}

func skillSummary(skills []domain.Skill) string {
	lines := make([]string, 0, len(skills))
	for _, s := range skills {
		lines = append(lines, fmt.Sprintf("%s (%s, level %d/100)", s.Name, s.Category, s.CurrentLevel))
	}
	return strings.Join(lines, "\n")
}
