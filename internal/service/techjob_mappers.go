package service

import (
	"github.com/google/uuid"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

// The technician job list merges two record sources. Each source has its own
// mapper with a fully specified input shape; the fetch coordinator composes
// them and concatenates the results.

// JobRecordToTechnicianJob maps a direct job assignment row into the
// normalized job shape. TimeLogged stays zero here; the time-entries
// aggregation fills it separately.
func JobRecordToTechnicianJob(rec core.JobRecord) core.TechnicianJob {
	return core.TechnicianJob{
		ID:            rec.ID,
		Title:         rec.Title,
		Description:   rec.Description,
		Customer:      rec.CustomerName,
		Vehicle:       rec.Vehicle,
		Status:        normalizeJobStatus(rec.Status),
		AssignedAt:    rec.AssignedAt,
		ScheduledFor:  rec.ScheduledFor,
		EstimatedTime: rec.EstimatedTime,
		Priority:      rec.Priority,
		TimeLogged:    0,
	}
}

// BookingRecordToTechnicianJob maps a technician-assigned booking into the
// normalized job shape. The booking status vocabulary is coarser than the
// job one, so the mapping is deliberately lossy and one-way. A booking's
// free-text notes field is synthesized into a single system-authored note.
func BookingRecordToTechnicianJob(rec core.BookingRecord) core.TechnicianJob {
	job := core.TechnicianJob{
		ID:            rec.ID,
		Title:         rec.ServiceName,
		Description:   rec.Notes,
		Customer:      rec.CustomerName,
		Vehicle:       rec.Vehicle,
		Status:        bookingStatusToJobStatus(rec.Status),
		AssignedAt:    rec.CreatedAt,
		ScheduledFor:  rec.BookingDate,
		EstimatedTime: rec.Duration,
		Priority:      "normal",
		TimeLogged:    0,
	}

	if rec.Notes != "" {
		job.Notes = []core.JobNote{{
			ID:        uuid.NewString(),
			Content:   rec.Notes,
			CreatedAt: rec.CreatedAt,
			Author:    core.SystemAuthor,
		}}
	}

	return job
}

// normalizeJobStatus converts the store vocabulary into the client one.
// Unknown values default to pending rather than leaking raw strings.
func normalizeJobStatus(raw string) core.JobStatus {
	switch raw {
	case "in_progress", "inProgress":
		return core.JobStatusInProgress
	case "working":
		return core.JobStatusWorking
	case "completed":
		return core.JobStatusCompleted
	case "cancelled":
		return core.JobStatusCancelled
	default:
		return core.JobStatusPending
	}
}

// bookingStatusToJobStatus is the lossy booking -> job mapping:
// confirmed becomes pending (work not started), completed and cancelled map
// through, anything else defaults to pending.
func bookingStatusToJobStatus(raw string) core.JobStatus {
	switch raw {
	case "completed":
		return core.JobStatusCompleted
	case "cancelled":
		return core.JobStatusCancelled
	case "confirmed":
		return core.JobStatusPending
	default:
		return core.JobStatusPending
	}
}
