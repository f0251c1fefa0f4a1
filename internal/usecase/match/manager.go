package usecase_match

import (
	"context"
	"log/slog"
	"sync"
)

// Manager keeps at most one running detector per room code. Detectors are
// started lazily on demand and release their watch subscription when
// stopped or when the room retires.
type Manager struct {
	detector *Detector
	logger   *slog.Logger

	mu   sync.Mutex
	runs map[string]*detectorRun
}

// detectorRun identifies one detector goroutine. A winding-down goroutine
// may outlive its map entry when Stop and a fresh Ensure race it, so
// cleanup compares identity before touching the map.
type detectorRun struct {
	cancel context.CancelFunc
}

func NewManager(detector *Detector) *Manager {
	return &Manager{
		detector: detector,
		logger:   slog.Default(),
		runs:     make(map[string]*detectorRun),
	}
}

// Ensure starts a detector for the room unless one is already running.
func (m *Manager) Ensure(ctx context.Context, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, running := m.runs[code]; running {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	run := &detectorRun{cancel: cancel}
	m.runs[code] = run

	go func() {
		defer m.forget(code, run)
		if err := m.detector.Run(runCtx, code); err != nil && runCtx.Err() == nil {
			m.logger.Error("detector stopped",
				slog.String("room", code),
				slog.String("error", err.Error()))
		}
	}()
}

// Stop cancels the room's detector if one is running.
func (m *Manager) Stop(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if run, ok := m.runs[code]; ok {
		run.cancel()
		delete(m.runs, code)
	}
}

// StopAll cancels every running detector. Used on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for code, run := range m.runs {
		run.cancel()
		delete(m.runs, code)
	}
}

// forget releases the goroutine's own registration. The entry may already
// belong to a newer run of the same room; that one is left alone.
func (m *Manager) forget(code string, own *detectorRun) {
	own.cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	if run, ok := m.runs[code]; ok && run == own {
		delete(m.runs, code)
	}
}
