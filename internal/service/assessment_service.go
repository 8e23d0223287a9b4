package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"career-compass/internal/domain"
	"career-compass/internal/repository"
)

var (
	ErrSkillNameRequired = errors.New("skill name required")
	ErrSkillLevelRange   = errors.New("skill level out of range")
	ErrSkillCategory     = errors.New("unknown skill category")
)

// AssessmentInput es una habilidad autoevaluada en un formulario.
type AssessmentInput struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	CurrentLevel int    `json:"current_level"`
	TargetLevel  int    `json:"target_level"`
}

// AssessmentService persiste autoevaluaciones y dispara el recálculo del
// reporte de brechas.
type AssessmentService struct {
	logger   *zap.Logger
	skills   repository.SkillRepository
	trackers *GapTrackerRegistry
}

func NewAssessmentService(logger *zap.Logger, skills repository.SkillRepository, trackers *GapTrackerRegistry) *AssessmentService {
	return &AssessmentService{
		logger:   logger,
		skills:   skills,
		trackers: trackers,
	}
}

// SubmitAssessment upserta cada habilidad evaluada y, si al menos una se
// persistió, marca Stale el reporte del usuario antes de retornar.
func (s *AssessmentService) SubmitAssessment(ctx context.Context, userID string, inputs []AssessmentInput) ([]domain.Skill, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	persisted := make([]domain.Skill, 0, len(inputs))
	for _, in := range inputs {
		skill, err := buildSkill(userID, in, now)
		if err != nil {
			return nil, err
		}
		if err := s.skills.Upsert(ctx, skill); err != nil {
			s.logger.Warn("skill upsert failed", zap.Error(err), zap.String("user_id", userID), zap.String("skill", skill.Name))
			return nil, fmt.Errorf("skill upsert: %w", err)
		}
		persisted = append(persisted, skill)
	}

	s.trackers.ForUser(userID).MarkStale()
	return persisted, nil
}

func buildSkill(userID string, in AssessmentInput, now time.Time) (domain.Skill, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Skill{}, ErrSkillNameRequired
	}

	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = domain.SkillCategoryTechnical
	}
	if !domain.ValidSkillCategory(category) {
		return domain.Skill{}, fmt.Errorf("%w: %s", ErrSkillCategory, category)
	}

	if in.CurrentLevel < 0 || in.CurrentLevel > 100 || in.TargetLevel < 0 || in.TargetLevel > 100 {
		return domain.Skill{}, ErrSkillLevelRange
	}

	return domain.Skill{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         name,
		Category:     category,
		CurrentLevel: in.CurrentLevel,
		TargetLevel:  in.TargetLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
