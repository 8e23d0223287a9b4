package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"career-compass/internal/domain"
)

// GapState es el estado del ciclo de recálculo del reporte de brechas.
type GapState string

const (
	GapStateIdle        GapState = "idle"
	GapStateRecomputing GapState = "recomputing"
	GapStateReady       GapState = "ready"
	GapStateStale       GapState = "stale"
)

// GapInputs son los insumos frescos de un recálculo. Role nil significa
// que el usuario no tiene rol objetivo: estado válido, no un error.
type GapInputs struct {
	Role       *domain.Role
	UserSkills map[string]domain.SkillLevel
}

// GapInputSource entrega los insumos al momento en que el recálculo
// realmente corre, no al momento del trigger.
type GapInputSource interface {
	GapInputs(ctx context.Context) (GapInputs, error)
}

// GapObserver recibe notificaciones cuando el reporte de un usuario
// cambia de estado o de contenido.
type GapObserver interface {
	GapReportUpdated(userID string, state GapState, entries []domain.GapEntry)
}

// GapTracker mantiene el reporte derivado de un usuario y coordina los
// triggers de recálculo. Triggers solapados colapsan en una sola
// re-entrada pendiente que relee los insumos más frescos al ejecutar,
// así un fetch lento nunca pisa el resultado de un trigger más nuevo.
type GapTracker struct {
	userID   string
	source   GapInputSource
	logger   *zap.Logger
	schedule func(fn func())

	mu        sync.Mutex
	state     GapState
	entries   []domain.GapEntry
	roleID    int64
	running   bool
	pending   bool
	observers []GapObserver
}

func NewGapTracker(userID string, source GapInputSource, logger *zap.Logger) *GapTracker {
	return NewGapTrackerWithScheduler(userID, source, logger, func(fn func()) { go fn() })
}

// NewGapTrackerWithScheduler permite inyectar un scheduler síncrono en
// tests para que los recálculos sean deterministas.
func NewGapTrackerWithScheduler(userID string, source GapInputSource, logger *zap.Logger, schedule func(fn func())) *GapTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if schedule == nil {
		schedule = func(fn func()) { go fn() }
	}
	return &GapTracker{
		userID:   userID,
		source:   source,
		logger:   logger,
		schedule: schedule,
		state:    GapStateIdle,
	}
}

// Subscribe registra un observador de cambios del reporte.
func (t *GapTracker) Subscribe(obs GapObserver) {
	if obs == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, obs)
}

// Report devuelve una copia del reporte junto con su estado. Un lector
// jamás recibe entries marcadas Ready que pertenezcan a un rol anterior:
// MarkStale las invalida de forma síncrona.
func (t *GapTracker) Report() ([]domain.GapEntry, GapState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries := make([]domain.GapEntry, len(t.entries))
	copy(entries, t.entries)
	return entries, t.state
}

// ReportRoleID devuelve el id del rol contra el que se calculó el
// reporte vigente; 0 si no hay rol objetivo.
func (t *GapTracker) ReportRoleID() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.roleID
}

// MarkStale invalida el reporte vigente de forma síncrona y dispara el
// recálculo automático. Se llama al cambiar el rol objetivo o al mutar
// las habilidades del usuario.
func (t *GapTracker) MarkStale() {
	t.mu.Lock()
	t.state = GapStateStale
	t.entries = nil
	t.roleID = 0
	observers := append([]GapObserver(nil), t.observers...)
	t.mu.Unlock()

	for _, obs := range observers {
		obs.GapReportUpdated(t.userID, GapStateStale, nil)
	}

	t.Refresh()
}

// Refresh pide una transición a Recomputing. Si ya hay un cómputo en
// vuelo deja exactamente una re-entrada pendiente, sin importar cuántos
// triggers lleguen mientras tanto.
func (t *GapTracker) Refresh() {
	t.mu.Lock()
	if t.running {
		t.pending = true
		t.mu.Unlock()
		return
	}
	t.running = true
	t.state = GapStateRecomputing
	t.mu.Unlock()

	t.schedule(t.run)
}

func (t *GapTracker) run() {
	ctx := context.Background()
	for {
		inputs, err := t.source.GapInputs(ctx)
		if err != nil {
			t.mu.Lock()
			if t.pending {
				t.pending = false
				t.state = GapStateRecomputing
				t.mu.Unlock()
				continue
			}
			t.running = false
			t.state = GapStateStale
			t.mu.Unlock()
			t.logger.Warn("gap recompute failed", zap.Error(err), zap.String("user_id", t.userID))
			return
		}

		state := GapStateReady
		var roleID int64
		entries := []domain.GapEntry{}
		if inputs.Role == nil {
			// Sin rol objetivo no hay nada que derivar.
			state = GapStateIdle
		} else {
			entries = ComputeGapReport(inputs.Role.RequiredSkills, inputs.UserSkills)
			roleID = inputs.Role.ID
		}

		t.mu.Lock()
		if t.pending {
			// Llegó un trigger más nuevo: descartar este resultado y
			// recalcular con insumos frescos.
			t.pending = false
			t.state = GapStateRecomputing
			t.mu.Unlock()
			continue
		}
		t.entries = entries
		t.roleID = roleID
		t.state = state
		t.running = false
		observers := append([]GapObserver(nil), t.observers...)
		t.mu.Unlock()

		for _, obs := range observers {
			obs.GapReportUpdated(t.userID, state, entries)
		}
		return
	}
}
