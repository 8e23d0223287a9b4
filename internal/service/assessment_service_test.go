package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"career-compass/internal/domain"
)

func TestSubmitAssessmentPersistsAndRecomputes(t *testing.T) {
	roles := &mockRoleRepo{roles: map[int64]domain.Role{
		1: {ID: 1, Title: "Backend Engineer", RequiredSkills: []string{"Go"}},
	}}
	targets := &mockTargetRoleRepo{selection: &domain.TargetRoleSelection{UserID: "user-1", RoleID: 1}}
	skills := &mockSkillRepo{}
	registry := newTestRegistry(roles, targets, skills)
	svc := NewAssessmentService(zap.NewNop(), skills, registry)

	tracker := registry.ForUser("user-1")

	skills.levels = map[string]domain.SkillLevel{"go": {CurrentLevel: 70, TargetLevel: 100}}
	persisted, err := svc.SubmitAssessment(context.Background(), "user-1", []AssessmentInput{
		{Name: "  Go  ", CurrentLevel: 70, TargetLevel: 100},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(persisted) != 1 {
		t.Fatalf("expected one persisted skill, got %d", len(persisted))
	}
	if persisted[0].Name != "Go" {
		t.Fatalf("expected trimmed name, got %q", persisted[0].Name)
	}
	if persisted[0].Category != domain.SkillCategoryTechnical {
		t.Fatalf("expected default category, got %s", persisted[0].Category)
	}
	if persisted[0].ID == "" || persisted[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamps set")
	}

	entries, state := tracker.Report()
	if state != GapStateReady {
		t.Fatalf("expected ready after assessment, got %s", state)
	}
	if entries[0].Percentage != 70 {
		t.Fatalf("report must reflect new levels, got %+v", entries[0])
	}
}

func TestSubmitAssessmentEmptyInput(t *testing.T) {
	skills := &mockSkillRepo{}
	registry := newTestRegistry(&mockRoleRepo{}, &mockTargetRoleRepo{}, skills)
	svc := NewAssessmentService(zap.NewNop(), skills, registry)

	persisted, err := svc.SubmitAssessment(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if persisted != nil {
		t.Fatalf("expected nothing persisted, got %+v", persisted)
	}
}

func TestSubmitAssessmentValidation(t *testing.T) {
	cases := []struct {
		name  string
		input AssessmentInput
		want  error
	}{
		{"blank name", AssessmentInput{Name: "   ", CurrentLevel: 50, TargetLevel: 100}, ErrSkillNameRequired},
		{"level above range", AssessmentInput{Name: "Go", CurrentLevel: 101, TargetLevel: 100}, ErrSkillLevelRange},
		{"negative level", AssessmentInput{Name: "Go", CurrentLevel: -1, TargetLevel: 100}, ErrSkillLevelRange},
		{"target above range", AssessmentInput{Name: "Go", CurrentLevel: 50, TargetLevel: 200}, ErrSkillLevelRange},
		{"unknown category", AssessmentInput{Name: "Go", Category: "mystic", CurrentLevel: 50, TargetLevel: 100}, ErrSkillCategory},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			skills := &mockSkillRepo{}
			registry := newTestRegistry(&mockRoleRepo{}, &mockTargetRoleRepo{}, skills)
			svc := NewAssessmentService(zap.NewNop(), skills, registry)

			_, err := svc.SubmitAssessment(context.Background(), "user-1", []AssessmentInput{tc.input})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(skills.upserted) != 0 {
				t.Fatalf("invalid input must not persist")
			}
		})
	}
}

func TestSubmitAssessmentNormalizesCategory(t *testing.T) {
	skills := &mockSkillRepo{}
	registry := newTestRegistry(&mockRoleRepo{}, &mockTargetRoleRepo{}, skills)
	svc := NewAssessmentService(zap.NewNop(), skills, registry)

	persisted, err := svc.SubmitAssessment(context.Background(), "user-1", []AssessmentInput{
		{Name: "Public Speaking", Category: "  Communication ", CurrentLevel: 40, TargetLevel: 90},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if persisted[0].Category != domain.SkillCategoryCommunication {
		t.Fatalf("expected normalized category, got %s", persisted[0].Category)
	}
}
