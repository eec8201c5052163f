package service

import (
	"fmt"
	"log"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/connectivity"
)

// SyncRunner watches for offline -> online transitions and drains the
// session's offline queue against the remote store.
type SyncRunner struct {
	svc     *TechJobService
	monitor *connectivity.Monitor
	stop    chan struct{}
	done    chan struct{}
}

func NewSyncRunner(svc *TechJobService, monitor *connectivity.Monitor) *SyncRunner {
	return &SyncRunner{
		svc:     svc,
		monitor: monitor,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the watch loop. Each online transition with a non-empty
// queue triggers one drain pass.
func (r *SyncRunner) Start() {
	transitions := r.monitor.Subscribe()

	go func() {
		defer close(r.done)
		defer r.monitor.Unsubscribe(transitions)

		for {
			select {
			case <-transitions:
				if r.svc.Queue().Len() > 0 {
					r.svc.DrainOfflineQueue()
				}
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop terminates the watch loop and waits for it to exit.
func (r *SyncRunner) Stop() {
	close(r.stop)
	<-r.done
}

// DrainOfflineQueue replays queued operations strictly in enqueue order.
// Replay is best-effort, at-most-once: a failed operation is logged and
// dropped, never retried. Operations enqueued while the pass runs stay
// queued for the next transition. One full fetch refresh reconciles state
// afterwards.
func (s *TechJobService) DrainOfflineQueue() {
	ops := s.queue.Snapshot()
	if len(ops) == 0 {
		return
	}

	log.Printf("🔄 [SYNC] Replaying %d queued operation(s) for tech %s", len(ops), s.techID)

	for _, op := range ops {
		if err := s.replay(op); err != nil {
			log.Printf("❌ [SYNC] %s %s replay failed, dropping: %v", op.Kind(), op.OperationID(), err)
		}
	}

	s.queue.RemoveHead(len(ops))
	s.FetchJobs()
}

// replay dispatches one queued operation to its remote call. The type switch
// is exhaustive over the operation variants; an unknown variant is an error,
// not a silent drop.
func (s *TechJobService) replay(op core.OfflineOperation) error {
	switch v := op.(type) {
	case core.StatusUpdateOperation:
		return s.jobs.UpdateStatus(v.JobID, v.NewStatus)

	case core.TimeLogOperation:
		return s.jobs.LogTime(v.Log)

	case core.PhotoUploadOperation:
		url, err := s.files.Upload(photoStoragePath(v.JobID, v.FileName, v.Timestamp), v.Data)
		if err != nil {
			return err
		}
		return s.jobs.AttachPhoto(v.JobID, core.JobPhoto{
			ID:         s.newID(),
			URL:        url,
			UploadedAt: v.Timestamp,
		})

	case core.PartsRequestOperation:
		requests := make([]core.PartRequest, len(v.Parts))
		for i, p := range v.Parts {
			requests[i] = core.PartRequest{
				ID:          s.newID(),
				Name:        p.Name,
				Quantity:    p.Quantity,
				Status:      core.PartRequestPending,
				RequestedAt: v.Timestamp,
			}
		}
		return s.jobs.CreatePartRequests(v.JobID, requests)

	default:
		return fmt.Errorf("unhandled offline operation kind %q", op.Kind())
	}
}
