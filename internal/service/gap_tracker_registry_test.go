package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"

	"career-compass/internal/domain"
)

type mockRoleRepo struct {
	roles   map[int64]domain.Role
	matches []domain.RoleMatch
	err     error
}

func (m *mockRoleRepo) GetByID(ctx context.Context, id int64) (domain.Role, error) {
	if m.err != nil {
		return domain.Role{}, m.err
	}
	role, ok := m.roles[id]
	if !ok {
		return domain.Role{}, pgx.ErrNoRows
	}
	return role, nil
}

func (m *mockRoleRepo) List(ctx context.Context) ([]domain.Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Role, 0, len(m.roles))
	for _, role := range m.roles {
		out = append(out, role)
	}
	return out, nil
}

func (m *mockRoleRepo) SearchByEmbedding(ctx context.Context, queryEmbedding pgvector.Vector, k int) ([]domain.RoleMatch, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

type mockTargetRoleRepo struct {
	selection *domain.TargetRoleSelection
	setCalls  int
	err       error
}

func (m *mockTargetRoleRepo) Set(ctx context.Context, selection domain.TargetRoleSelection) error {
	if m.err != nil {
		return m.err
	}
	m.setCalls++
	m.selection = &selection
	return nil
}

func (m *mockTargetRoleRepo) Get(ctx context.Context, userID string) (domain.TargetRoleSelection, error) {
	if m.err != nil {
		return domain.TargetRoleSelection{}, m.err
	}
	if m.selection == nil {
		return domain.TargetRoleSelection{}, pgx.ErrNoRows
	}
	return *m.selection, nil
}

func (m *mockTargetRoleRepo) Clear(ctx context.Context, userID string) error {
	if m.err != nil {
		return m.err
	}
	m.selection = nil
	return nil
}

type mockSkillRepo struct {
	levels   map[string]domain.SkillLevel
	skills   []domain.Skill
	upserted []domain.Skill
	err      error
}

func (m *mockSkillRepo) Upsert(ctx context.Context, skill domain.Skill) error {
	if m.err != nil {
		return m.err
	}
	m.upserted = append(m.upserted, skill)
	return nil
}

func (m *mockSkillRepo) ListByUserID(ctx context.Context, userID string) ([]domain.Skill, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.skills, nil
}

func (m *mockSkillRepo) LevelsByUserID(ctx context.Context, userID string) (map[string]domain.SkillLevel, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.levels == nil {
		return map[string]domain.SkillLevel{}, nil
	}
	return m.levels, nil
}

func newTestRegistry(roles *mockRoleRepo, targets *mockTargetRoleRepo, skills *mockSkillRepo) *GapTrackerRegistry {
	return NewGapTrackerRegistryWithScheduler(nil, roles, targets, skills, syncScheduler)
}

func TestRegistryFirstAccessLoadsReport(t *testing.T) {
	roles := &mockRoleRepo{roles: map[int64]domain.Role{
		3: {ID: 3, Title: "Data Analyst", RequiredSkills: []string{"SQL", "Python"}},
	}}
	targets := &mockTargetRoleRepo{selection: &domain.TargetRoleSelection{UserID: "user-1", RoleID: 3}}
	skills := &mockSkillRepo{levels: map[string]domain.SkillLevel{
		"sql": {CurrentLevel: 60, TargetLevel: 100},
	}}

	registry := newTestRegistry(roles, targets, skills)
	tracker := registry.ForUser("user-1")

	entries, state := tracker.Report()
	if state != GapStateReady {
		t.Fatalf("expected ready on first access, got %s", state)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if tracker.ReportRoleID() != 3 {
		t.Fatalf("expected role id 3, got %d", tracker.ReportRoleID())
	}
}

func TestRegistryReturnsSameTracker(t *testing.T) {
	registry := newTestRegistry(&mockRoleRepo{}, &mockTargetRoleRepo{}, &mockSkillRepo{})

	first := registry.ForUser("user-1")
	second := registry.ForUser("user-1")
	other := registry.ForUser("user-2")

	if first != second {
		t.Fatalf("expected the same tracker per user")
	}
	if first == other {
		t.Fatalf("expected distinct trackers across users")
	}
}

func TestRepoInputSourceNoSelection(t *testing.T) {
	source := &repoGapInputSource{
		userID:  "user-1",
		roles:   &mockRoleRepo{},
		targets: &mockTargetRoleRepo{},
		skills:  &mockSkillRepo{levels: map[string]domain.SkillLevel{"go": {CurrentLevel: 50, TargetLevel: 100}}},
	}

	inputs, err := source.GapInputs(context.Background())
	if err != nil {
		t.Fatalf("missing selection must not be an error, got %v", err)
	}
	if inputs.Role != nil {
		t.Fatalf("expected nil role, got %+v", inputs.Role)
	}
	if len(inputs.UserSkills) != 1 {
		t.Fatalf("skills must still load, got %v", inputs.UserSkills)
	}
}

func TestRepoInputSourceDanglingSelection(t *testing.T) {
	source := &repoGapInputSource{
		userID:  "user-1",
		roles:   &mockRoleRepo{},
		targets: &mockTargetRoleRepo{selection: &domain.TargetRoleSelection{UserID: "user-1", RoleID: 99}},
		skills:  &mockSkillRepo{},
	}

	inputs, err := source.GapInputs(context.Background())
	if err != nil {
		t.Fatalf("selection pointing at a removed role must degrade, got %v", err)
	}
	if inputs.Role != nil {
		t.Fatalf("expected nil role for removed catalog entry")
	}
}

func TestRepoInputSourcePropagatesSkillError(t *testing.T) {
	source := &repoGapInputSource{
		userID:  "user-1",
		roles:   &mockRoleRepo{},
		targets: &mockTargetRoleRepo{},
		skills:  &mockSkillRepo{err: errors.New("db down")},
	}

	if _, err := source.GapInputs(context.Background()); err == nil {
		t.Fatalf("expected error when skills cannot load")
	}
}
