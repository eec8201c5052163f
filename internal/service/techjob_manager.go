package service

import (
	"fmt"
	"sync"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/connectivity"
)

// TechJobManager hands out one TechJobService per technician session and
// keeps its sync runner alive. Sessions are keyed by technician + workshop
// account, so nothing is shared between technicians.
type TechJobManager struct {
	jobs     core.TechJobRepository
	bookings core.TechBookingSource
	cache    core.JobCacheStore
	files    core.FileStore
	notifier core.Notifier

	mu       sync.Mutex
	sessions map[string]*techJobSession
}

type techJobSession struct {
	svc     *TechJobService
	monitor *connectivity.Monitor
	runner  *SyncRunner
}

func NewTechJobManager(
	jobs core.TechJobRepository,
	bookings core.TechBookingSource,
	cache core.JobCacheStore,
	files core.FileStore,
	notifier core.Notifier,
) *TechJobManager {
	return &TechJobManager{
		jobs:     jobs,
		bookings: bookings,
		cache:    cache,
		files:    files,
		notifier: notifier,
		sessions: make(map[string]*techJobSession),
	}
}

// Session returns the service for a technician, creating it (and starting
// its sync runner) on first use.
func (m *TechJobManager) Session(techID, userID string) *TechJobService {
	svc, _ := m.session(techID, userID)
	return svc
}

// Monitor returns the connectivity monitor backing a technician's session,
// for the heartbeat handler to feed.
func (m *TechJobManager) Monitor(techID, userID string) *connectivity.Monitor {
	_, monitor := m.session(techID, userID)
	return monitor
}

func (m *TechJobManager) session(techID, userID string) (*TechJobService, *connectivity.Monitor) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s_%s", techID, userID)
	if sess, ok := m.sessions[key]; ok {
		return sess.svc, sess.monitor
	}

	monitor := connectivity.NewMonitor()
	svc := NewTechJobService(techID, userID, m.jobs, m.bookings, m.cache, m.files, m.notifier, monitor)
	runner := NewSyncRunner(svc, monitor)
	runner.Start()

	m.sessions[key] = &techJobSession{svc: svc, monitor: monitor, runner: runner}
	return svc, monitor
}

// Shutdown stops every session's sync runner.
func (m *TechJobManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sess := range m.sessions {
		sess.runner.Stop()
	}
	m.sessions = make(map[string]*techJobSession)
}
