package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"career-compass/internal/domain"
)

func TestSetTargetRoleMarksReportStale(t *testing.T) {
	roles := &mockRoleRepo{roles: map[int64]domain.Role{
		5: {ID: 5, Title: "Platform Engineer", RequiredSkills: []string{"Kubernetes"}},
	}}
	targets := &mockTargetRoleRepo{}
	skills := &mockSkillRepo{}
	registry := newTestRegistry(roles, targets, skills)

	// Primer acceso: sin selección, el tracker queda idle.
	tracker := registry.ForUser("user-1")
	if _, state := tracker.Report(); state != GapStateIdle {
		t.Fatalf("expected idle before selection, got %s", state)
	}

	svc := NewTargetRoleService(zap.NewNop(), roles, targets, registry)

	role, err := svc.SetTargetRole(context.Background(), "user-1", 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if role.Title != "Platform Engineer" {
		t.Fatalf("expected chosen role back, got %+v", role)
	}
	if targets.setCalls != 1 {
		t.Fatalf("expected one upsert, got %d", targets.setCalls)
	}

	// Con scheduler síncrono el recálculo ya corrió contra el rol nuevo.
	entries, state := tracker.Report()
	if state != GapStateReady {
		t.Fatalf("expected ready after selection, got %s", state)
	}
	if len(entries) != 1 || entries[0].SkillName != "Kubernetes" {
		t.Fatalf("expected report for the new role, got %+v", entries)
	}
	if tracker.ReportRoleID() != 5 {
		t.Fatalf("expected role id 5, got %d", tracker.ReportRoleID())
	}
}

func TestSetTargetRoleUnknownRole(t *testing.T) {
	roles := &mockRoleRepo{}
	targets := &mockTargetRoleRepo{}
	registry := newTestRegistry(roles, targets, &mockSkillRepo{})
	svc := NewTargetRoleService(zap.NewNop(), roles, targets, registry)

	_, err := svc.SetTargetRole(context.Background(), "user-1", 404)
	if !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
	if targets.setCalls != 0 {
		t.Fatalf("selection must not persist for unknown role")
	}
}

func TestGetTargetRoleAbsent(t *testing.T) {
	roles := &mockRoleRepo{}
	targets := &mockTargetRoleRepo{}
	registry := newTestRegistry(roles, targets, &mockSkillRepo{})
	svc := NewTargetRoleService(zap.NewNop(), roles, targets, registry)

	_, ok, err := svc.GetTargetRole(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("absent selection is not an error, got %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false without selection")
	}
}

func TestGetTargetRoleDanglingSelection(t *testing.T) {
	roles := &mockRoleRepo{}
	targets := &mockTargetRoleRepo{selection: &domain.TargetRoleSelection{UserID: "user-1", RoleID: 9}}
	registry := newTestRegistry(roles, targets, &mockSkillRepo{})
	svc := NewTargetRoleService(zap.NewNop(), roles, targets, registry)

	_, ok, err := svc.GetTargetRole(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("removed role must degrade to absent, got %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for dangling selection")
	}
}

func TestClearTargetRoleInvalidates(t *testing.T) {
	roles := &mockRoleRepo{roles: map[int64]domain.Role{
		5: {ID: 5, Title: "Platform Engineer", RequiredSkills: []string{"Kubernetes"}},
	}}
	targets := &mockTargetRoleRepo{selection: &domain.TargetRoleSelection{UserID: "user-1", RoleID: 5}}
	registry := newTestRegistry(roles, targets, &mockSkillRepo{})
	svc := NewTargetRoleService(zap.NewNop(), roles, targets, registry)

	tracker := registry.ForUser("user-1")
	if _, state := tracker.Report(); state != GapStateReady {
		t.Fatalf("expected ready before clear, got %s", state)
	}

	if err := svc.ClearTargetRole(context.Background(), "user-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if targets.selection != nil {
		t.Fatalf("expected selection removed")
	}

	entries, state := tracker.Report()
	if state != GapStateIdle {
		t.Fatalf("expected idle after clear, got %s", state)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty report after clear, got %+v", entries)
	}
}
