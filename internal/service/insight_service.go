package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"career-compass/internal/domain"
	"career-compass/internal/llm"
	"career-compass/internal/repository"
)

var (
	ErrNoTargetRole = errors.New("no target role set")
	ErrRateLimited  = errors.New("rate limited")
)

// InsightService pide al LLM una narrativa sobre la brecha vigente. El
// reporte determinista del motor es la fuente de verdad: el LLM solo
// aporta categorías, prioridades y sugerencias de aprendizaje.
type InsightService struct {
	logger      *zap.Logger
	llmClient   llm.LLMClient
	insights    repository.InsightRepository
	targetRoles *TargetRoleService
	skills      repository.SkillRepository
	limiter     InsightRateLimiter
}

func NewInsightService(
	logger *zap.Logger,
	llmClient llm.LLMClient,
	insights repository.InsightRepository,
	targetRoles *TargetRoleService,
	skills repository.SkillRepository,
	limiter InsightRateLimiter,
) *InsightService {
	return &InsightService{
		logger:      logger,
		llmClient:   llmClient,
		insights:    insights,
		targetRoles: targetRoles,
		skills:      skills,
		limiter:     limiter,
	}
}

// GenerateInsight calcula el reporte, consulta al LLM y persiste el
// análisis. MatchScore y la lista de habilidades a cubrir se derivan del
// motor; al LLM no se le confían valores ya calculados.
func (s *InsightService) GenerateInsight(ctx context.Context, userID string) (domain.GapInsight, error) {
	if s.limiter != nil && !s.limiter.Allow(userID) {
		return domain.GapInsight{}, ErrRateLimited
	}

	role, hasRole, err := s.targetRoles.GetTargetRole(ctx, userID)
	if err != nil {
		return domain.GapInsight{}, err
	}
	if !hasRole {
		return domain.GapInsight{}, ErrNoTargetRole
	}

	levels, err := s.skills.LevelsByUserID(ctx, userID)
	if err != nil {
		return domain.GapInsight{}, fmt.Errorf("load skills: %w", err)
	}

	entries := ComputeGapReport(role.RequiredSkills, levels)
	matchScore := gapMatchScore(entries)
	gapSkills := gapSkillNames(entries)

	parsed, err := s.runAnalysis(ctx, role, entries, matchScore)
	if err != nil {
		return domain.GapInsight{}, err
	}

	insight := domain.GapInsight{
		ID:         uuid.NewString(),
		UserID:     userID,
		RoleID:     role.ID,
		MatchScore: matchScore,
		Items:      filterInsightItems(parsed.MissingSkills, gapSkills),
		Summary:    strings.TrimSpace(parsed.Summary),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.insights.Create(ctx, insight); err != nil {
		s.logger.Warn("insight persist failed", zap.Error(err), zap.String("user_id", userID))
		return domain.GapInsight{}, fmt.Errorf("insight persist: %w", err)
	}

	return insight, nil
}

// LatestInsight devuelve el último análisis persistido del usuario.
func (s *InsightService) LatestInsight(ctx context.Context, userID string) (domain.GapInsight, error) {
	return s.insights.GetLatestByUserID(ctx, userID)
}

func (s *InsightService) runAnalysis(ctx context.Context, role domain.Role, entries []domain.GapEntry, matchScore float64) (insightResponse, error) {
	prompt := buildInsightPrompt(role, entries, matchScore)

	rawResp, err := s.llmClient.Generate(ctx, prompt)
	if err != nil {
		return insightResponse{}, fmt.Errorf("llm generate: %w", err)
	}

	cleaned := CleanLLMJSONResponse(rawResp)
	if obj := extractFirstJSONObject(cleaned); obj != "" {
		cleaned = obj
	}

	var parsed insightResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return insightResponse{}, fmt.Errorf("parse llm response: %w", err)
	}
	return parsed, nil
}

func buildInsightPrompt(role domain.Role, entries []domain.GapEntry, matchScore float64) string {
	var sb strings.Builder
	sb.WriteString(`Eres un asesor de carrera analizando la brecha de habilidades de una persona contra un rol objetivo.

ROL OBJETIVO: `)
	sb.WriteString(role.Title)
	sb.WriteString(" (")
	sb.WriteString(role.Industry)
	sb.WriteString(")\n\nREPORTE DE BRECHAS CALCULADO:\n")
	for _, e := range SortGapEntries(entries) {
		sb.WriteString(fmt.Sprintf("- %s: %s (%d%%)\n", e.SkillName, e.Status, e.Percentage))
	}
	sb.WriteString(fmt.Sprintf("\nMATCH SCORE CALCULADO: %.1f\n", matchScore))
	sb.WriteString(`
Para cada habilidad con status "missing" o "improvement":
1. Clasifícala: "technical", "leadership", "communication", "analytical" o "creative".
2. Prioriza: "critical" (missing), "high" o "medium".
3. Estima un tiempo de aprendizaje realista (ej. "2-4 weeks", "1-3 months").
4. Sugiere cómo aprenderla o demostrarla.
5. Escribe un resumen breve (2-3 oraciones) del fit general.

Devuelve SOLO un JSON con esta estructura exacta:
{
  "match_score": <eco del match score calculado>,
  "missing_skills": [
    {"skill": "...", "category": "...", "priority": "...", "learning_time": "...", "suggestion": "..."}
  ],
  "summary": "..."
}`)
	return sb.String()
}

// gapMatchScore es el promedio de porcentajes del reporte, redondeado a
// un decimal. Derivado por el motor, nunca por el LLM.
func gapMatchScore(entries []domain.GapEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	total := 0
	for _, e := range entries {
		total += e.Percentage
	}
	return math.Round(float64(total)/float64(len(entries))*10) / 10
}

func gapSkillNames(entries []domain.GapEntry) map[string]bool {
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Status != domain.GapStatusStrong {
			names[strings.ToLower(e.SkillName)] = true
		}
	}
	return names
}

// filterInsightItems descarta items del LLM que no correspondan a una
// habilidad realmente faltante o débil según el motor.
func filterInsightItems(items []domain.InsightItem, gapSkills map[string]bool) []domain.InsightItem {
	filtered := make([]domain.InsightItem, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Skill)
		if name == "" || !gapSkills[strings.ToLower(name)] {
			continue
		}
		item.Skill = name
		filtered = append(filtered, item)
	}
	return filtered
}

type insightResponse struct {
	MatchScore    float64              `json:"match_score"`
	MissingSkills []domain.InsightItem `json:"missing_skills"`
	Summary       string               `json:"summary"`
}
