package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"career-compass/internal/domain"
)

// syncScheduler ejecuta el recálculo inline para que los tests sean
// deterministas.
func syncScheduler(fn func()) { fn() }

// queueScheduler acumula recálculos hasta que el test decide correrlos.
type queueScheduler struct {
	queue []func()
}

func (s *queueScheduler) schedule(fn func()) {
	s.queue = append(s.queue, fn)
}

func (s *queueScheduler) drain() {
	for len(s.queue) > 0 {
		fn := s.queue[0]
		s.queue = s.queue[1:]
		fn()
	}
}

type stubInputSource struct {
	mu      sync.Mutex
	inputs  GapInputs
	err     error
	fetches int
	onFetch func(fetch int)
}

func (s *stubInputSource) GapInputs(ctx context.Context) (GapInputs, error) {
	s.mu.Lock()
	s.fetches++
	fetch := s.fetches
	hook := s.onFetch
	s.mu.Unlock()

	if hook != nil {
		hook(fetch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs, s.err
}

func (s *stubInputSource) setInputs(inputs GapInputs) {
	s.mu.Lock()
	s.inputs = inputs
	s.mu.Unlock()
}

func (s *stubInputSource) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

type recordingObserver struct {
	states  []GapState
	entries [][]domain.GapEntry
}

func (o *recordingObserver) GapReportUpdated(userID string, state GapState, entries []domain.GapEntry) {
	o.states = append(o.states, state)
	o.entries = append(o.entries, entries)
}

func testRole(skills ...string) *domain.Role {
	return &domain.Role{ID: 7, Title: "Backend Engineer", RequiredSkills: skills}
}

func TestGapTrackerStartsIdle(t *testing.T) {
	tracker := NewGapTrackerWithScheduler("user-1", &stubInputSource{}, nil, syncScheduler)

	entries, state := tracker.Report()
	if state != GapStateIdle {
		t.Fatalf("expected idle, got %s", state)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestGapTrackerRefreshComputesReport(t *testing.T) {
	source := &stubInputSource{inputs: GapInputs{
		Role: testRole("Go", "SQL"),
		UserSkills: map[string]domain.SkillLevel{
			"go": {CurrentLevel: 60, TargetLevel: 100},
		},
	}}
	tracker := NewGapTrackerWithScheduler("user-1", source, nil, syncScheduler)

	tracker.Refresh()

	entries, state := tracker.Report()
	if state != GapStateReady {
		t.Fatalf("expected ready, got %s", state)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].SkillName != "Go" || entries[0].Status != domain.GapStatusStrong {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Status != domain.GapStatusMissing {
		t.Fatalf("expected SQL missing, got %+v", entries[1])
	}
	if tracker.ReportRoleID() != 7 {
		t.Fatalf("expected role id 7, got %d", tracker.ReportRoleID())
	}
}

func TestGapTrackerNoTargetRoleGoesIdle(t *testing.T) {
	source := &stubInputSource{inputs: GapInputs{
		UserSkills: map[string]domain.SkillLevel{"go": {CurrentLevel: 60, TargetLevel: 100}},
	}}
	tracker := NewGapTrackerWithScheduler("user-1", source, nil, syncScheduler)

	tracker.Refresh()

	entries, state := tracker.Report()
	if state != GapStateIdle {
		t.Fatalf("expected idle without target role, got %s", state)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty report, got %+v", entries)
	}
	if tracker.ReportRoleID() != 0 {
		t.Fatalf("expected role id 0, got %d", tracker.ReportRoleID())
	}
}

func TestGapTrackerMarkStaleInvalidatesSynchronously(t *testing.T) {
	source := &stubInputSource{inputs: GapInputs{
		Role:       testRole("Go"),
		UserSkills: map[string]domain.SkillLevel{"go": {CurrentLevel: 90, TargetLevel: 100}},
	}}
	sched := &queueScheduler{}
	tracker := NewGapTrackerWithScheduler("user-1", source, nil, sched.schedule)

	tracker.Refresh()
	sched.drain()
	if _, state := tracker.Report(); state != GapStateReady {
		t.Fatalf("expected ready before invalidation, got %s", state)
	}

	obs := &recordingObserver{}
	tracker.Subscribe(obs)

	tracker.MarkStale()

	// El recálculo todavía no corrió, pero el reporte viejo ya no es
	// legible como fresco.
	entries, state := tracker.Report()
	if state != GapStateRecomputing {
		t.Fatalf("expected recomputing after mark stale, got %s", state)
	}
	if len(entries) != 0 {
		t.Fatalf("stale entries must be cleared synchronously, got %+v", entries)
	}
	if tracker.ReportRoleID() != 0 {
		t.Fatalf("stale role id must be cleared, got %d", tracker.ReportRoleID())
	}
	if len(obs.states) == 0 || obs.states[0] != GapStateStale {
		t.Fatalf("observer must see the stale transition, got %v", obs.states)
	}

	sched.drain()
	if _, state := tracker.Report(); state != GapStateReady {
		t.Fatalf("expected ready after recompute, got %s", state)
	}
}

func TestGapTrackerCoalescesOverlappingTriggers(t *testing.T) {
	source := &stubInputSource{}
	var tracker *GapTracker

	source.setInputs(GapInputs{
		Role:       testRole("Go"),
		UserSkills: map[string]domain.SkillLevel{"go": {CurrentLevel: 20, TargetLevel: 100}},
	})
	source.onFetch = func(fetch int) {
		if fetch != 1 {
			return
		}
		// Triggers que llegan mientras el primer fetch está en vuelo:
		// colapsan en una sola re-entrada con insumos frescos.
		tracker.Refresh()
		tracker.Refresh()
		tracker.Refresh()
		source.setInputs(GapInputs{
			Role:       testRole("Go"),
			UserSkills: map[string]domain.SkillLevel{"go": {CurrentLevel: 80, TargetLevel: 100}},
		})
	}

	tracker = NewGapTrackerWithScheduler("user-1", source, nil, syncScheduler)
	tracker.Refresh()

	if source.fetchCount() != 2 {
		t.Fatalf("three overlapping triggers must coalesce into one re-run, got %d fetches", source.fetchCount())
	}

	entries, state := tracker.Report()
	if state != GapStateReady {
		t.Fatalf("expected ready, got %s", state)
	}
	if entries[0].Percentage != 80 {
		t.Fatalf("a slow first run must not overwrite the fresher result, got %d%%", entries[0].Percentage)
	}
}

func TestGapTrackerFetchErrorLeavesStale(t *testing.T) {
	source := &stubInputSource{err: errors.New("db down")}
	tracker := NewGapTrackerWithScheduler("user-1", source, nil, syncScheduler)

	tracker.Refresh()

	if _, state := tracker.Report(); state != GapStateStale {
		t.Fatalf("expected stale after fetch error, got %s", state)
	}

	// Un trigger posterior debe poder recuperarse.
	source.mu.Lock()
	source.err = nil
	source.inputs = GapInputs{Role: testRole("Go"), UserSkills: nil}
	source.mu.Unlock()

	tracker.Refresh()

	entries, state := tracker.Report()
	if state != GapStateReady {
		t.Fatalf("expected ready after recovery, got %s", state)
	}
	if entries[0].Status != domain.GapStatusMissing {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestGapTrackerReportReturnsCopy(t *testing.T) {
	source := &stubInputSource{inputs: GapInputs{Role: testRole("Go")}}
	tracker := NewGapTrackerWithScheduler("user-1", source, nil, syncScheduler)
	tracker.Refresh()

	entries, _ := tracker.Report()
	entries[0].SkillName = "mutated"

	again, _ := tracker.Report()
	if again[0].SkillName != "Go" {
		t.Fatalf("callers must not be able to mutate the cached report")
	}
}

func TestGapTrackerNotifiesObserversOnReady(t *testing.T) {
	source := &stubInputSource{inputs: GapInputs{
		Role:       testRole("Go"),
		UserSkills: map[string]domain.SkillLevel{"go": {CurrentLevel: 50, TargetLevel: 100}},
	}}
	tracker := NewGapTrackerWithScheduler("user-1", source, nil, syncScheduler)
	obs := &recordingObserver{}
	tracker.Subscribe(obs)

	tracker.Refresh()

	if len(obs.states) != 1 || obs.states[0] != GapStateReady {
		t.Fatalf("expected one ready notification, got %v", obs.states)
	}
	if len(obs.entries[0]) != 1 {
		t.Fatalf("expected notified entries, got %+v", obs.entries[0])
	}
}
