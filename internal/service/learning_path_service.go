package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"career-compass/internal/domain"
	"career-compass/internal/llm"
	"career-compass/internal/repository"
)

var ErrEmptyLearningPath = errors.New("llm returned empty learning path")

// LearningPathService genera y persiste un plan de aprendizaje ordenado
// para cerrar la brecha contra el rol objetivo activo.
type LearningPathService struct {
	logger      *zap.Logger
	llmClient   llm.LLMClient
	paths       repository.LearningPathRepository
	targetRoles *TargetRoleService
	skills      repository.SkillRepository
}

func NewLearningPathService(
	logger *zap.Logger,
	llmClient llm.LLMClient,
	paths repository.LearningPathRepository,
	targetRoles *TargetRoleService,
	skills repository.SkillRepository,
) *LearningPathService {
	return &LearningPathService{
		logger:      logger,
		llmClient:   llmClient,
		paths:       paths,
		targetRoles: targetRoles,
		skills:      skills,
	}
}

// GeneratePath arma el plan a partir del reporte determinista y lo
// persiste. Los pasos llegan ordenados por urgencia porque el prompt
// recibe el reporte ya priorizado.
func (s *LearningPathService) GeneratePath(ctx context.Context, userID string) (domain.LearningPath, error) {
	role, hasRole, err := s.targetRoles.GetTargetRole(ctx, userID)
	if err != nil {
		return domain.LearningPath{}, err
	}
	if !hasRole {
		return domain.LearningPath{}, ErrNoTargetRole
	}

	levels, err := s.skills.LevelsByUserID(ctx, userID)
	if err != nil {
		return domain.LearningPath{}, fmt.Errorf("load skills: %w", err)
	}

	entries := SortGapEntries(ComputeGapReport(role.RequiredSkills, levels))

	steps, err := s.runGeneration(ctx, role, entries)
	if err != nil {
		return domain.LearningPath{}, err
	}
	if len(steps) == 0 {
		return domain.LearningPath{}, ErrEmptyLearningPath
	}

	path := domain.LearningPath{
		ID:        uuid.NewString(),
		UserID:    userID,
		RoleID:    role.ID,
		Steps:     steps,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.paths.Create(ctx, path); err != nil {
		s.logger.Warn("learning path persist failed", zap.Error(err), zap.String("user_id", userID))
		return domain.LearningPath{}, fmt.Errorf("learning path persist: %w", err)
	}

	return path, nil
}

// LatestPath devuelve el último plan persistido del usuario.
func (s *LearningPathService) LatestPath(ctx context.Context, userID string) (domain.LearningPath, error) {
	return s.paths.GetLatestByUserID(ctx, userID)
}

func (s *LearningPathService) runGeneration(ctx context.Context, role domain.Role, entries []domain.GapEntry) ([]domain.LearningStep, error) {
	prompt := buildLearningPathPrompt(role, entries)

	rawResp, err := s.llmClient.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm generate: %w", err)
	}

	cleaned := CleanLLMJSONResponse(rawResp)
	if obj := extractFirstJSONObject(cleaned); obj != "" {
		cleaned = obj
	}

	var parsed learningPathResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("parse llm response: %w", err)
	}

	steps := make([]domain.LearningStep, 0, len(parsed.Steps))
	for _, step := range parsed.Steps {
		if strings.TrimSpace(step.Skill) == "" || strings.TrimSpace(step.Action) == "" {
			continue
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func buildLearningPathPrompt(role domain.Role, entries []domain.GapEntry) string {
	var sb strings.Builder
	sb.WriteString(`Eres un asesor de carrera armando un plan de aprendizaje.

ROL OBJETIVO: `)
	sb.WriteString(role.Title)
	sb.WriteString("\n\nBRECHAS PRIORIZADAS (más urgente primero):\n")
	for _, e := range entries {
		if e.Status == domain.GapStatusStrong {
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s: %s (%d%%)\n", e.SkillName, e.Status, e.Percentage))
	}
	sb.WriteString(`
Crea un plan ordenado: una acción concreta por habilidad (curso, proyecto,
certificación), respetando el orden de urgencia dado, con duración estimada.

Devuelve SOLO un JSON con esta estructura exacta:
{
  "steps": [
    {"skill": "...", "action": "...", "estimated_duration": "..."}
  ]
}`)
	return sb.String()
}

type learningPathResponse struct {
	Steps []domain.LearningStep `json:"steps"`
}
