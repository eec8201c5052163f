package repository

import (
	"encoding/json"

	"github.com/pocketbase/dbx"
	pbCore "github.com/pocketbase/pocketbase/core"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

// PBJobCacheRepo persists the technician job snapshot in the tech_job_cache
// collection so it survives restarts. One record per cache key; the payload
// is the JSON-encoded job list.
type PBJobCacheRepo struct {
	app pbCore.App
}

func NewJobCacheRepo(app pbCore.App) core.JobCacheStore {
	return &PBJobCacheRepo{app: app}
}

func (r *PBJobCacheRepo) Get(key string) ([]core.TechnicianJob, error) {
	record, err := r.app.FindFirstRecordByFilter(
		"tech_job_cache",
		"key = {:key}",
		dbx.Params{"key": key},
	)
	if err != nil {
		// No cached snapshot yet; callers treat empty as a miss
		return nil, nil
	}

	var jobs []core.TechnicianJob
	if err := json.Unmarshal([]byte(record.GetString("payload")), &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *PBJobCacheRepo) Set(key string, jobs []core.TechnicianJob) error {
	payload, err := json.Marshal(jobs)
	if err != nil {
		return err
	}

	record, err := r.app.FindFirstRecordByFilter(
		"tech_job_cache",
		"key = {:key}",
		dbx.Params{"key": key},
	)
	if err != nil {
		collection, err := r.app.FindCollectionByNameOrId("tech_job_cache")
		if err != nil {
			return err
		}
		record = pbCore.NewRecord(collection)
		record.Set("key", key)
	}

	record.Set("payload", string(payload))
	return r.app.Save(record)
}
