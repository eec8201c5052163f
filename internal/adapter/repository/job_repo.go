package repository

import (
	"fmt"

	"github.com/pocketbase/dbx"
	pbCore "github.com/pocketbase/pocketbase/core"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

// PBTechJobRepo backs the remote job store with the jobs, time_entries,
// job_photos and part_requests collections.
type PBTechJobRepo struct {
	app pbCore.App
}

func NewTechJobRepo(app pbCore.App) core.TechJobRepository {
	return &PBTechJobRepo{app: app}
}

// Mapping helper: Record -> source row shape
func (r *PBTechJobRepo) toRecord(record *pbCore.Record) core.JobRecord {
	return core.JobRecord{
		ID:            record.Id,
		Title:         record.GetString("title"),
		Description:   record.GetString("description"),
		CustomerName:  record.GetString("customer_name"),
		Vehicle:       record.GetString("vehicle"),
		Status:        record.GetString("status"),
		AssignedAt:    record.GetDateTime("assigned_at").Time(),
		ScheduledFor:  record.GetDateTime("scheduled_for").Time(),
		EstimatedTime: record.GetString("estimated_time"),
		Priority:      record.GetString("priority"),
	}
}

func (r *PBTechJobRepo) FindByTechnician(techID, userID string) ([]core.JobRecord, error) {
	records, err := r.app.FindRecordsByFilter(
		"jobs",
		"technician_id = {:techId} && user_id = {:userId}",
		"-assigned_at",
		0, 0,
		dbx.Params{"techId": techID, "userId": userID},
	)
	if err != nil {
		return nil, err
	}

	rows := make([]core.JobRecord, 0, len(records))
	for _, rec := range records {
		rows = append(rows, r.toRecord(rec))
	}
	return rows, nil
}

// storeStatus converts the normalized client vocabulary back into the
// collection's select values.
func storeStatus(status core.JobStatus) string {
	if status == core.JobStatusInProgress {
		return "in_progress"
	}
	return string(status)
}

func (r *PBTechJobRepo) UpdateStatus(jobID string, status core.JobStatus) error {
	record, err := r.app.FindRecordById("jobs", jobID)
	if err != nil {
		return fmt.Errorf("job not found: %w", err)
	}

	record.Set("status", storeStatus(status))
	return r.app.Save(record)
}

func (r *PBTechJobRepo) LogTime(entry core.TimeLog) error {
	collection, err := r.app.FindCollectionByNameOrId("time_entries")
	if err != nil {
		return err
	}

	record := pbCore.NewRecord(collection)
	record.Set("job_id", entry.JobID)
	record.Set("started_at", entry.StartedAt)
	record.Set("ended_at", entry.EndedAt)
	record.Set("seconds", entry.Seconds)

	return r.app.Save(record)
}

func (r *PBTechJobRepo) AttachPhoto(jobID string, photo core.JobPhoto) error {
	collection, err := r.app.FindCollectionByNameOrId("job_photos")
	if err != nil {
		return err
	}

	record := pbCore.NewRecord(collection)
	record.Set("job_id", jobID)
	record.Set("url", photo.URL)
	record.Set("caption", photo.Caption)
	record.Set("uploaded_at", photo.UploadedAt)

	return r.app.Save(record)
}

func (r *PBTechJobRepo) CreatePartRequests(jobID string, requests []core.PartRequest) error {
	collection, err := r.app.FindCollectionByNameOrId("part_requests")
	if err != nil {
		return err
	}

	for _, req := range requests {
		record := pbCore.NewRecord(collection)
		record.Set("job_id", jobID)
		record.Set("name", req.Name)
		record.Set("quantity", req.Quantity)
		record.Set("status", string(req.Status))
		record.Set("requested_at", req.RequestedAt)

		if err := r.app.Save(record); err != nil {
			return fmt.Errorf("failed to save part request %q: %w", req.Name, err)
		}
	}
	return nil
}
