package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/connectivity"
)

// --- port fakes ---

type fakeJobRepo struct {
	mu      sync.Mutex
	records []core.JobRecord
	findErr error

	updateErr  error
	calls      []string // ordered log of mutating calls
	fetchCalls int      // number of FindByTechnician invocations

	// block, when set, holds FindByTechnician until released
	block   chan struct{}
	started chan struct{}
}

func (f *fakeJobRepo) FindByTechnician(techID, userID string) ([]core.JobRecord, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.records, nil
}

func (f *fakeJobRepo) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func (f *fakeJobRepo) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeJobRepo) UpdateStatus(jobID string, status core.JobStatus) error {
	f.record(fmt.Sprintf("status:%s:%s", jobID, status))
	return f.updateErr
}

func (f *fakeJobRepo) LogTime(entry core.TimeLog) error {
	f.record(fmt.Sprintf("time:%s:%d", entry.JobID, entry.Seconds))
	return nil
}

func (f *fakeJobRepo) AttachPhoto(jobID string, photo core.JobPhoto) error {
	f.record(fmt.Sprintf("photo:%s:%s", jobID, photo.URL))
	return nil
}

func (f *fakeJobRepo) CreatePartRequests(jobID string, requests []core.PartRequest) error {
	f.record(fmt.Sprintf("parts:%s:%d", jobID, len(requests)))
	return nil
}

func (f *fakeJobRepo) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeBookingSource struct {
	records []core.BookingRecord
	err     error
}

func (f *fakeBookingSource) FindAssignedToTechnician(techID string) ([]core.BookingRecord, error) {
	return f.records, f.err
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]core.TechnicianJob
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]core.TechnicianJob)}
}

func (f *fakeCache) Get(key string) ([]core.TechnicianJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store[key], nil
}

func (f *fakeCache) Set(key string, jobs []core.TechnicianJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[key] = jobs
	return nil
}

type fakeFiles struct {
	mu      sync.Mutex
	uploads map[string][]byte
	err     error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{uploads: make(map[string][]byte)}
}

func (f *fakeFiles) Upload(path string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[path] = data
	return "https://files.test/" + path, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (f *fakeNotifier) Notify(techID, message string, severity core.NoticeSeverity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, fmt.Sprintf("%s|%s", severity, message))
}

func (f *fakeNotifier) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.notices) == 0 {
		return ""
	}
	return f.notices[len(f.notices)-1]
}

// --- harness ---

type harness struct {
	svc      *TechJobService
	jobs     *fakeJobRepo
	bookings *fakeBookingSource
	cache    *fakeCache
	files    *fakeFiles
	notifier *fakeNotifier
	monitor  *connectivity.Monitor
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		jobs:     &fakeJobRepo{},
		bookings: &fakeBookingSource{},
		cache:    newFakeCache(),
		files:    newFakeFiles(),
		notifier: &fakeNotifier{},
		monitor:  connectivity.NewMonitor(),
	}
	h.svc = NewTechJobService("tech1", "user1", h.jobs, h.bookings, h.cache, h.files, h.notifier, h.monitor)

	// deterministic clock and ids
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	h.svc.now = func() time.Time { return base }
	counter := 0
	h.svc.newID = func() string {
		counter++
		return fmt.Sprintf("id-%d", counter)
	}
	return h
}

func jobRecord(id, title string) core.JobRecord {
	return core.JobRecord{ID: id, Title: title, Status: "pending"}
}

// --- fetch + merge ---

func TestFetchJobsMergesBothSourcesWithoutDedup(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.bookings.records = []core.BookingRecord{
		{ID: "a", ServiceName: "Brake job", Status: "confirmed"},
		{ID: "b", ServiceName: "Logbook", Status: "confirmed"},
	}

	h.svc.FetchJobs()

	jobs := h.svc.Jobs()
	require.Len(t, jobs, 3)

	// The same id arriving from both sources stays duplicated; the client
	// relies on positional identity, not ids.
	assert.Equal(t, "a", jobs[0].ID)
	assert.Equal(t, "a", jobs[1].ID)
	assert.Equal(t, "b", jobs[2].ID)
}

func TestFetchJobsOrdersJobRecordsBeforeBookings(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("j1", "Direct")}
	h.bookings.records = []core.BookingRecord{{ID: "b1", ServiceName: "Booked"}}

	h.svc.FetchJobs()

	jobs := h.svc.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "Direct", jobs[0].Title)
	assert.Equal(t, "Booked", jobs[1].Title)
}

func TestFetchJobsVersionUnchangedOnIdenticalResult(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}

	h.svc.FetchJobs()
	v1 := h.svc.Version()

	h.svc.FetchJobs()
	assert.Equal(t, v1, h.svc.Version(), "identical fetch result must not bump the version")

	h.jobs.records = append(h.jobs.records, jobRecord("b", "Logbook"))
	h.svc.FetchJobs()
	assert.Equal(t, v1+1, h.svc.Version())
}

func TestFetchJobsSecondCallIsNoOpWhileInFlight(t *testing.T) {
	h := newHarness(t)
	h.jobs.block = make(chan struct{})
	h.jobs.started = make(chan struct{}, 1)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}

	done := make(chan struct{})
	go func() {
		h.svc.FetchJobs()
		close(done)
	}()
	<-h.jobs.started

	// Second caller returns immediately instead of waiting or double-fetching
	returned := make(chan struct{})
	go func() {
		h.svc.FetchJobs()
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("concurrent FetchJobs did not return while another was in flight")
	}

	close(h.jobs.block)
	<-done
	assert.Len(t, h.svc.Jobs(), 1)
}

func TestFetchJobsWritesSnapshotToCache(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}

	h.svc.FetchJobs()

	cached, _ := h.cache.Get("tech_jobs_tech1_user1")
	require.Len(t, cached, 1)
	assert.Equal(t, "a", cached[0].ID)
}

func TestFetchJobsFallsBackToCacheOnError(t *testing.T) {
	h := newHarness(t)
	saved := []core.TechnicianJob{{ID: "cached", Title: "Saved job"}}
	require.NoError(t, h.cache.Set("tech_jobs_tech1_user1", saved))
	h.jobs.findErr = errors.New("network down")

	h.svc.FetchJobs()

	jobs := h.svc.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "cached", jobs[0].ID)
	assert.Equal(t, "default|Showing saved jobs. Data may be out of date.", h.notifier.last())
}

func TestFetchJobsErrorWithEmptyCacheKeepsSnapshot(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()
	v := h.svc.Version()

	h.jobs.findErr = errors.New("network down")
	h.cache.store = map[string][]core.TechnicianJob{}
	h.svc.FetchJobs()

	assert.Len(t, h.svc.Jobs(), 1, "stale snapshot must survive a failed refresh")
	assert.Equal(t, v, h.svc.Version())
	assert.Equal(t, "destructive|Unable to load jobs. Check your connection and try again.", h.notifier.last())
}

// --- status updates ---

func TestUpdateJobStatusOnlinePersistsThenPatches(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()

	require.NoError(t, h.svc.UpdateJobStatus("a", core.JobStatusWorking))

	assert.Equal(t, []string{"status:a:working"}, h.jobs.callLog())
	assert.Equal(t, core.JobStatusWorking, h.svc.Jobs()[0].Status)
	assert.Zero(t, h.svc.Queue().Len())
}

func TestUpdateJobStatusOnlineFailureLeavesSnapshotUntouched(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()
	h.jobs.updateErr = errors.New("rejected")

	err := h.svc.UpdateJobStatus("a", core.JobStatusWorking)

	require.Error(t, err)
	assert.Equal(t, core.JobStatusPending, h.svc.Jobs()[0].Status)
	assert.Zero(t, h.svc.Queue().Len(), "a rejected online update must not be queued")
	assert.Equal(t, "destructive|Failed to update job status.", h.notifier.last())
}

func TestUpdateJobStatusOfflineQueuesAndPatchesOptimistically(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()
	h.monitor.SetOnline(false)

	require.NoError(t, h.svc.UpdateJobStatus("a", core.JobStatusCompleted))

	assert.Empty(t, h.jobs.callLog(), "no remote call while offline")
	assert.Equal(t, core.JobStatusCompleted, h.svc.Jobs()[0].Status)
	assert.Equal(t, 1, h.svc.Queue().Len())
	assert.Equal(t, "default|Job status updated (offline mode).", h.notifier.last())
}

func TestUpdateJobStatusRejectsUnknownValue(t *testing.T) {
	h := newHarness(t)
	err := h.svc.UpdateJobStatus("a", core.JobStatus("exploded"))
	require.Error(t, err)
}

// --- timer ---

func TestToggleJobTimerStartStopLogsRealDuration(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	current := base
	h.svc.now = func() time.Time { return current }

	require.NoError(t, h.svc.ToggleJobTimer("a"))
	assert.True(t, h.svc.Jobs()[0].IsActive)

	current = base.Add(25 * time.Minute)
	require.NoError(t, h.svc.ToggleJobTimer("a"))

	assert.Equal(t, []string{"time:a:1500"}, h.jobs.callLog())
	job := h.svc.Jobs()[0]
	assert.False(t, job.IsActive)
	assert.Equal(t, int64(1500), job.TimeLogged)
}

func TestToggleJobTimerSwitchingJobsStopsPreviousFirst(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job"), jobRecord("b", "Logbook")}
	h.svc.FetchJobs()

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	current := base
	h.svc.now = func() time.Time { return current }

	require.NoError(t, h.svc.ToggleJobTimer("a"))
	current = base.Add(10 * time.Minute)
	require.NoError(t, h.svc.ToggleJobTimer("b"))

	// a's 10 minutes were logged before b became the single active job
	assert.Equal(t, []string{"time:a:600"}, h.jobs.callLog())

	jobs := h.svc.Jobs()
	assert.False(t, jobs[0].IsActive)
	assert.True(t, jobs[1].IsActive)
	assert.Equal(t, int64(600), jobs[0].TimeLogged)
}

func TestToggleJobTimerOfflineQueuesTimeLog(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()
	h.monitor.SetOnline(false)

	require.NoError(t, h.svc.ToggleJobTimer("a"))
	require.NoError(t, h.svc.ToggleJobTimer("a"))

	assert.Empty(t, h.jobs.callLog())
	require.Equal(t, 1, h.svc.Queue().Len())
	op := h.svc.Queue().Snapshot()[0]
	assert.Equal(t, core.OpTimeLog, op.Kind())
}

// --- photos ---

func TestUploadJobPhotoOnlineStoresAndPatches(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()

	require.NoError(t, h.svc.UploadJobPhoto("a", "damage.png", []byte{1, 2, 3}))

	require.Len(t, h.files.uploads, 1)
	job := h.svc.Jobs()[0]
	require.Len(t, job.Photos, 1)
	assert.Contains(t, job.Photos[0].URL, "a/")
}

func TestUploadJobPhotoOfflineQueuesBytesWithoutPatching(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()
	h.monitor.SetOnline(false)

	data := []byte("fake-jpeg")
	require.NoError(t, h.svc.UploadJobPhoto("a", "damage.jpg", data))

	assert.Empty(t, h.files.uploads, "no upload while offline")
	assert.Empty(t, h.svc.Jobs()[0].Photos, "photo list has no URL to show yet")

	require.Equal(t, 1, h.svc.Queue().Len())
	op, ok := h.svc.Queue().Snapshot()[0].(core.PhotoUploadOperation)
	require.True(t, ok)
	assert.Equal(t, data, op.Data, "queued operation must carry the bytes")
}

func TestUploadJobPhotoOnlineFailureNotifies(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()
	h.files.err = errors.New("storage down")

	err := h.svc.UploadJobPhoto("a", "damage.jpg", []byte{1})

	require.Error(t, err)
	assert.Empty(t, h.svc.Jobs()[0].Photos)
	assert.Equal(t, "destructive|Photo upload failed.", h.notifier.last())
}

// --- parts ---

func TestRequestJobPartsOnlinePersistsRemotely(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()

	parts := []core.PartInput{{Name: "Front pads", Quantity: 1}, {Name: "Rotors", Quantity: 2}}
	require.NoError(t, h.svc.RequestJobParts("a", parts))

	assert.Equal(t, []string{"parts:a:2"}, h.jobs.callLog())

	requested := h.svc.Jobs()[0].PartsRequested
	require.Len(t, requested, 2)
	assert.Equal(t, core.PartRequestPending, requested[0].Status)
	assert.Equal(t, "Front pads", requested[0].Name)
}

func TestRequestJobPartsOfflineQueuesAndPatches(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()
	h.monitor.SetOnline(false)

	require.NoError(t, h.svc.RequestJobParts("a", []core.PartInput{{Name: "Wiper blades", Quantity: 1}}))

	assert.Empty(t, h.jobs.callLog())
	assert.Equal(t, 1, h.svc.Queue().Len())
	// Optimistic: the pending request is visible locally right away
	require.Len(t, h.svc.Jobs()[0].PartsRequested, 1)
	assert.Equal(t, core.PartRequestPending, h.svc.Jobs()[0].PartsRequested[0].Status)
}

// --- drain ---

func TestDrainOfflineQueueReplaysInEnqueueOrder(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job"), jobRecord("b", "Logbook")}
	h.svc.FetchJobs()

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	current := base
	h.svc.now = func() time.Time { return current }

	h.monitor.SetOnline(false)
	require.NoError(t, h.svc.UpdateJobStatus("a", core.JobStatusWorking))
	require.NoError(t, h.svc.ToggleJobTimer("a"))
	current = base.Add(5 * time.Minute)
	require.NoError(t, h.svc.ToggleJobTimer("a"))
	require.NoError(t, h.svc.UploadJobPhoto("a", "done.jpg", []byte("img")))
	require.NoError(t, h.svc.RequestJobParts("b", []core.PartInput{{Name: "Oil filter", Quantity: 1}}))
	require.Equal(t, 4, h.svc.Queue().Len())

	fetchesBefore := h.jobs.fetchCount()
	h.monitor.SetOnline(true)
	h.svc.DrainOfflineQueue()

	calls := h.jobs.callLog()
	require.Len(t, calls, 4)
	assert.Equal(t, "status:a:working", calls[0])
	assert.Equal(t, "time:a:300", calls[1])
	assert.Contains(t, calls[2], "photo:a:")
	assert.Equal(t, "parts:b:1", calls[3])

	assert.Zero(t, h.svc.Queue().Len())
	assert.Len(t, h.files.uploads, 1, "queued photo bytes were uploaded during replay")
	assert.Equal(t, fetchesBefore+1, h.jobs.fetchCount(), "drain ends with exactly one job refresh")
}

func TestDrainOfflineQueueDropsFailedOperationAndContinues(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()

	h.monitor.SetOnline(false)
	require.NoError(t, h.svc.UpdateJobStatus("a", core.JobStatusWorking))
	require.NoError(t, h.svc.RequestJobParts("a", []core.PartInput{{Name: "Bulb", Quantity: 2}}))

	h.monitor.SetOnline(true)
	h.jobs.updateErr = errors.New("conflict")
	h.svc.DrainOfflineQueue()

	// The failed status replay is dropped, the parts replay still runs
	calls := h.jobs.callLog()
	require.Len(t, calls, 2)
	assert.Equal(t, "parts:a:1", calls[1])
	assert.Zero(t, h.svc.Queue().Len(), "failed operations are dropped, not retried")
}

func TestSyncRunnerDrainsOnReconnect(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.svc.FetchJobs()

	runner := NewSyncRunner(h.svc, h.monitor)
	runner.Start()
	defer runner.Stop()

	h.monitor.SetOnline(false)
	require.NoError(t, h.svc.UpdateJobStatus("a", core.JobStatusCompleted))
	require.Equal(t, 1, h.svc.Queue().Len())

	h.monitor.SetOnline(true)

	deadline := time.After(2 * time.Second)
	for h.svc.Queue().Len() > 0 {
		select {
		case <-deadline:
			t.Fatal("queue was not drained after reconnect")
		case <-time.After(10 * time.Millisecond):
		}
	}
	assert.Contains(t, h.jobs.callLog(), "status:a:completed")
}

// --- end to end offline scenario ---

func TestOfflineSessionEndToEnd(t *testing.T) {
	h := newHarness(t)
	h.jobs.records = []core.JobRecord{jobRecord("a", "Brake job")}
	h.bookings.records = []core.BookingRecord{{ID: "b", ServiceName: "Logbook", Status: "confirmed"}}
	h.svc.FetchJobs()
	require.Len(t, h.svc.Jobs(), 2)

	// Connection drops mid-shift
	h.monitor.SetOnline(false)

	require.NoError(t, h.svc.UpdateJobStatus("a", core.JobStatusWorking))
	require.NoError(t, h.svc.UploadJobPhoto("a", "before.jpg", []byte("x")))
	require.NoError(t, h.svc.RequestJobParts("b", []core.PartInput{{Name: "Air filter", Quantity: 1}}))

	// Everything is visible locally, nothing has hit the remote store
	assert.Equal(t, core.JobStatusWorking, h.svc.Jobs()[0].Status)
	require.Len(t, h.svc.Jobs()[1].PartsRequested, 1)
	assert.Empty(t, h.jobs.callLog())
	assert.Equal(t, 3, h.svc.Queue().Len())

	// Signal returns
	h.monitor.SetOnline(true)
	h.svc.DrainOfflineQueue()

	assert.Zero(t, h.svc.Queue().Len())
	require.Len(t, h.jobs.callLog(), 3)
	assert.Equal(t, "status:a:working", h.jobs.callLog()[0])
}
