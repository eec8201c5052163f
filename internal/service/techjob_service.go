package service

import (
	"fmt"
	"log"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/connectivity"
)

type fetchState int

const (
	fetchIdle fetchState = iota
	fetchInFlight
)

// TechJobService owns one technician session's job list: it fetches and
// merges the two remote record sources, applies optimistic patches for the
// technician's actions, and queues mutations while offline.
//
// All state is per-instance; independent sessions (and tests) never share a
// fetch guard or a queue.
type TechJobService struct {
	techID string
	userID string

	jobs     core.TechJobRepository
	bookings core.TechBookingSource
	cache    core.JobCacheStore
	files    core.FileStore
	notifier core.Notifier
	monitor  *connectivity.Monitor
	queue    *OfflineQueue

	mu       sync.Mutex
	snapshot []core.TechnicianJob
	version  uint64
	loading  bool
	state    fetchState

	// single-active-timer state machine: idle when timerJobID is empty,
	// otherwise running on that job since timerStartedAt
	timerJobID     string
	timerStartedAt time.Time

	now   func() time.Time
	newID func() string
}

func NewTechJobService(
	techID, userID string,
	jobs core.TechJobRepository,
	bookings core.TechBookingSource,
	cache core.JobCacheStore,
	files core.FileStore,
	notifier core.Notifier,
	monitor *connectivity.Monitor,
) *TechJobService {
	return &TechJobService{
		techID:   techID,
		userID:   userID,
		jobs:     jobs,
		bookings: bookings,
		cache:    cache,
		files:    files,
		notifier: notifier,
		monitor:  monitor,
		queue:    NewOfflineQueue(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Queue exposes the session's offline operation queue.
func (s *TechJobService) Queue() *OfflineQueue {
	return s.queue
}

// Jobs returns a copy of the current job snapshot.
func (s *TechJobService) Jobs() []core.TechnicianJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := make([]core.TechnicianJob, len(s.snapshot))
	copy(jobs, s.snapshot)
	return jobs
}

// Version increments every time the snapshot is actually replaced. A fetch
// returning an identical list leaves it unchanged, so clients can skip
// redundant re-renders.
func (s *TechJobService) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Loading reports whether a fetch is in flight.
func (s *TechJobService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *TechJobService) cacheKey() string {
	return fmt.Sprintf("tech_jobs_%s_%s", s.techID, s.userID)
}

// FetchJobs retrieves and merges the two job sources, replacing the shared
// snapshot as a side effect. It is a silent no-op when the technician or
// user id is missing, or when a fetch is already in flight (the second
// caller does not wait, so callers must not assume freshness on return).
// Errors never escape: failures degrade to the durable cache or a notice.
func (s *TechJobService) FetchJobs() {
	if s.techID == "" || s.userID == "" {
		return
	}

	s.mu.Lock()
	if s.state == fetchInFlight {
		s.mu.Unlock()
		return
	}
	s.state = fetchInFlight
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = fetchIdle
		s.loading = false
		s.mu.Unlock()
	}()

	jobRecords, err := s.jobs.FindByTechnician(s.techID, s.userID)
	if err != nil {
		s.fallbackToCache(err)
		return
	}

	bookingRecords, err := s.bookings.FindAssignedToTechnician(s.techID)
	if err != nil {
		s.fallbackToCache(err)
		return
	}

	// Two independent mappings, concatenated. No de-duplication across the
	// sources: a record present in both appears twice.
	merged := make([]core.TechnicianJob, 0, len(jobRecords)+len(bookingRecords))
	for _, rec := range jobRecords {
		merged = append(merged, JobRecordToTechnicianJob(rec))
	}
	for _, rec := range bookingRecords {
		merged = append(merged, BookingRecordToTechnicianJob(rec))
	}

	s.replaceIfChanged(merged)

	if err := s.cache.Set(s.cacheKey(), merged); err != nil {
		log.Printf("⚠️ [TECHJOB] Failed to persist job cache for %s: %v", s.techID, err)
	}
}

func (s *TechJobService) fallbackToCache(fetchErr error) {
	log.Printf("⚠️ [TECHJOB] Fetch failed for tech %s: %v. Trying cache.", s.techID, fetchErr)

	cached, err := s.cache.Get(s.cacheKey())
	if err != nil || len(cached) == 0 {
		s.notifier.Notify(s.techID, "Unable to load jobs. Check your connection and try again.", core.NoticeDestructive)
		return
	}

	s.replaceIfChanged(cached)
	s.notifier.Notify(s.techID, "Showing saved jobs. Data may be out of date.", core.NoticeDefault)
}

// replaceIfChanged swaps the snapshot only when the new list differs
// structurally from the current one.
func (s *TechJobService) replaceIfChanged(jobs []core.TechnicianJob) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reflect.DeepEqual(s.snapshot, jobs) {
		return
	}
	s.snapshot = jobs
	s.version++
}

// patchJobs applies transform to a fresh copy of the snapshot and swaps it
// in. Mutations are whole-value replacements, never in-place edits.
func (s *TechJobService) patchJobs(transform func(jobs []core.TechnicianJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]core.TechnicianJob, len(s.snapshot))
	copy(jobs, s.snapshot)
	transform(jobs)
	s.snapshot = jobs
	s.version++
}

// UpdateJobStatus changes a job's status: directly against the remote store
// when online, queued with an optimistic patch when offline. An online
// rejection leaves local state untouched.
func (s *TechJobService) UpdateJobStatus(jobID string, newStatus core.JobStatus) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("invalid job status %q", newStatus)
	}

	if s.monitor.Online() {
		if err := s.jobs.UpdateStatus(jobID, newStatus); err != nil {
			s.notifier.Notify(s.techID, "Failed to update job status.", core.NoticeDestructive)
			return fmt.Errorf("update job status: %w", err)
		}
		s.patchStatus(jobID, newStatus)
		s.notifier.Notify(s.techID, "Job status updated.", core.NoticeDefault)
		return nil
	}

	s.queue.Enqueue(core.StatusUpdateOperation{
		ID:        s.newID(),
		Timestamp: s.now(),
		JobID:     jobID,
		NewStatus: newStatus,
	})
	s.patchStatus(jobID, newStatus)
	s.notifier.Notify(s.techID, "Job status updated (offline mode).", core.NoticeDefault)
	return nil
}

func (s *TechJobService) patchStatus(jobID string, status core.JobStatus) {
	s.patchJobs(func(jobs []core.TechnicianJob) {
		for i := range jobs {
			if jobs[i].ID == jobID {
				jobs[i].Status = status
			}
		}
	})
}

// ToggleJobTimer starts or stops the job timer. At most one timer runs at a
// time: toggling a different job stops the running one first, including its
// time-log side effects.
func (s *TechJobService) ToggleJobTimer(jobID string) error {
	s.mu.Lock()
	runningJob := s.timerJobID
	s.mu.Unlock()

	switch {
	case runningJob == "":
		s.startTimer(jobID)
	case runningJob == jobID:
		return s.stopTimer()
	default:
		if err := s.stopTimer(); err != nil {
			return err
		}
		s.startTimer(jobID)
	}
	return nil
}

func (s *TechJobService) startTimer(jobID string) {
	now := s.now()

	s.mu.Lock()
	s.timerJobID = jobID
	s.timerStartedAt = now
	s.mu.Unlock()

	// Exclusivity: exactly this job is active, every other one is not
	s.patchJobs(func(jobs []core.TechnicianJob) {
		for i := range jobs {
			jobs[i].IsActive = jobs[i].ID == jobID
		}
	})
	s.notifier.Notify(s.techID, "Timer started.", core.NoticeDefault)
}

func (s *TechJobService) stopTimer() error {
	now := s.now()

	s.mu.Lock()
	jobID := s.timerJobID
	startedAt := s.timerStartedAt
	s.timerJobID = ""
	s.timerStartedAt = time.Time{}
	s.mu.Unlock()

	if jobID == "" {
		return nil
	}

	seconds := int64(now.Sub(startedAt) / time.Second)
	entry := core.TimeLog{
		JobID:     jobID,
		StartedAt: startedAt,
		EndedAt:   now,
		Seconds:   seconds,
	}

	if s.monitor.Online() {
		if err := s.jobs.LogTime(entry); err != nil {
			// The timer still stops locally; only the persisted log is lost
			log.Printf("❌ [TECHJOB] Failed to persist time log for job %s: %v", jobID, err)
			s.notifier.Notify(s.techID, "Timer stopped, but the time log could not be saved.", core.NoticeDestructive)
		} else {
			s.notifier.Notify(s.techID, fmt.Sprintf("Timer stopped. Logged %s.", formatSeconds(seconds)), core.NoticeDefault)
		}
	} else {
		s.queue.Enqueue(core.TimeLogOperation{
			ID:        s.newID(),
			Timestamp: now,
			Log:       entry,
		})
		s.notifier.Notify(s.techID, fmt.Sprintf("Timer stopped. Logged %s (offline mode).", formatSeconds(seconds)), core.NoticeDefault)
	}

	s.patchJobs(func(jobs []core.TechnicianJob) {
		for i := range jobs {
			jobs[i].IsActive = false
			if jobs[i].ID == jobID {
				jobs[i].TimeLogged += seconds
			}
		}
	})
	return nil
}

// UploadJobPhoto stores a photo against a job. Online uploads go straight to
// file storage; offline the bytes ride along in the queued operation so the
// upload completes on replay.
func (s *TechJobService) UploadJobPhoto(jobID, fileName string, data []byte) error {
	now := s.now()

	if !s.monitor.Online() {
		s.queue.Enqueue(core.PhotoUploadOperation{
			ID:        s.newID(),
			Timestamp: now,
			JobID:     jobID,
			FileName:  fileName,
			Data:      data,
		})
		s.notifier.Notify(s.techID, "Photo queued for upload (offline mode).", core.NoticeDefault)
		return nil
	}

	url, err := s.files.Upload(photoStoragePath(jobID, fileName, now), data)
	if err != nil {
		s.notifier.Notify(s.techID, "Photo upload failed.", core.NoticeDestructive)
		return fmt.Errorf("upload photo: %w", err)
	}

	photo := core.JobPhoto{
		ID:         s.newID(),
		URL:        url,
		UploadedAt: now,
	}
	s.patchJobs(func(jobs []core.TechnicianJob) {
		for i := range jobs {
			if jobs[i].ID == jobID {
				jobs[i].Photos = append(jobs[i].Photos, photo)
			}
		}
	})
	s.notifier.Notify(s.techID, fmt.Sprintf("Photo uploaded (%s).", humanize.Bytes(uint64(len(data)))), core.NoticeDefault)
	return nil
}

// photoStoragePath namespaces uploads as {jobId}/{timestamp}.{ext}.
func photoStoragePath(jobID, fileName string, now time.Time) string {
	ext := strings.TrimPrefix(filepath.Ext(fileName), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s/%d.%s", jobID, now.Unix(), ext)
}

// RequestJobParts records one PartRequest per input entry, persisting them
// remotely when online and queueing the raw inputs when offline. The local
// parts list is patched optimistically either way; the approval workflow
// moves them past pending later.
func (s *TechJobService) RequestJobParts(jobID string, parts []core.PartInput) error {
	if len(parts) == 0 {
		return nil
	}

	now := s.now()
	requests := make([]core.PartRequest, len(parts))
	for i, p := range parts {
		requests[i] = core.PartRequest{
			ID:          s.newID(),
			Name:        p.Name,
			Quantity:    p.Quantity,
			Status:      core.PartRequestPending,
			RequestedAt: now,
		}
	}

	if s.monitor.Online() {
		if err := s.jobs.CreatePartRequests(jobID, requests); err != nil {
			s.notifier.Notify(s.techID, "Parts request failed.", core.NoticeDestructive)
			return fmt.Errorf("request parts: %w", err)
		}
		s.appendPartRequests(jobID, requests)
		s.notifier.Notify(s.techID, "Parts requested.", core.NoticeDefault)
		return nil
	}

	s.queue.Enqueue(core.PartsRequestOperation{
		ID:        s.newID(),
		Timestamp: now,
		JobID:     jobID,
		Parts:     parts,
	})
	s.appendPartRequests(jobID, requests)
	s.notifier.Notify(s.techID, "Parts requested (offline mode).", core.NoticeDefault)
	return nil
}

func (s *TechJobService) appendPartRequests(jobID string, requests []core.PartRequest) {
	s.patchJobs(func(jobs []core.TechnicianJob) {
		for i := range jobs {
			if jobs[i].ID == jobID {
				jobs[i].PartsRequested = append(jobs[i].PartsRequested, requests...)
			}
		}
	})
}

func formatSeconds(seconds int64) string {
	return (time.Duration(seconds) * time.Second).String()
}
