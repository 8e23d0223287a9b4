package service

import (
	"context"
	"errors"
	"testing"

	"career-compass/internal/domain"
	"career-compass/internal/llm"
)

func TestRecommendRolesHappyPath(t *testing.T) {
	roles := &mockRoleRepo{matches: []domain.RoleMatch{
		{Role: domain.Role{ID: 1, Title: "Backend Engineer"}, Distance: 0.12},
		{Role: domain.Role{ID: 2, Title: "Data Engineer"}, Distance: 0.27},
	}}
	skills := &mockSkillRepo{skills: []domain.Skill{
		{Name: "Go", Category: domain.SkillCategoryTechnical, CurrentLevel: 80},
	}}
	llmClient := &llm.MockClient{Embedding: []float32{0.1, 0.2, 0.3}}
	svc := NewRoleMatchService(llmClient, roles, skills)

	matches, err := svc.RecommendRoles(context.Background(), "user-1", 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Role.Title != "Backend Engineer" {
		t.Fatalf("unexpected first match %+v", matches[0])
	}
}

func TestRecommendRolesNoSkills(t *testing.T) {
	svc := NewRoleMatchService(&llm.MockClient{}, &mockRoleRepo{}, &mockSkillRepo{})

	_, err := svc.RecommendRoles(context.Background(), "user-1", 5)
	if !errors.Is(err, ErrNoSkillsAssessed) {
		t.Fatalf("expected ErrNoSkillsAssessed, got %v", err)
	}
}

func TestRecommendRolesEmbeddingError(t *testing.T) {
	skills := &mockSkillRepo{skills: []domain.Skill{{Name: "Go"}}}
	llmClient := &llm.MockClient{Err: errors.New("provider down")}
	svc := NewRoleMatchService(llmClient, &mockRoleRepo{}, skills)

	if _, err := svc.RecommendRoles(context.Background(), "user-1", 5); err == nil {
		t.Fatalf("expected error when embedding fails")
	}
}

func TestSkillSummaryFormat(t *testing.T) {
	summary := skillSummary([]domain.Skill{
		{Name: "Go", Category: domain.SkillCategoryTechnical, CurrentLevel: 80},
		{Name: "SQL", Category: domain.SkillCategoryTechnical, CurrentLevel: 30},
	})

	expected := "Go (technical, level 80/100)\nSQL (technical, level 30/100)"
	if summary != expected {
		t.Fatalf("expected %q, got %q", expected, summary)
	}
}
