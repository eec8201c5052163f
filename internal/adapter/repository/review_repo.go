package repository

import (
	"github.com/pocketbase/dbx"
	pbCore "github.com/pocketbase/pocketbase/core"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

type PBReviewRepo struct {
	app pbCore.App
}

func NewReviewRepo(app pbCore.App) core.ReviewRepository {
	return &PBReviewRepo{app: app}
}

func (r *PBReviewRepo) toDomain(record *pbCore.Record) *core.Review {
	return &core.Review{
		ID:        record.Id,
		Author:    record.GetString("author"),
		Rating:    int(record.GetFloat("rating")),
		Content:   record.GetString("content"),
		Status:    record.GetString("status"),
		Reply:     record.GetString("reply"),
		BookingID: record.GetString("booking_id"),
		Created:   record.GetString("created"),
	}
}

func (r *PBReviewRepo) FindByStatus(status string) ([]*core.Review, error) {
	records, err := r.app.FindRecordsByFilter(
		"reviews",
		"status = {:status}",
		"-created",
		0, 0,
		dbx.Params{"status": status},
	)
	if err != nil {
		return nil, err
	}

	var reviews []*core.Review
	for _, rec := range records {
		reviews = append(reviews, r.toDomain(rec))
	}
	return reviews, nil
}

func (r *PBReviewRepo) SetStatus(id, status string) error {
	record, err := r.app.FindRecordById("reviews", id)
	if err != nil {
		return err
	}
	record.Set("status", status)
	return r.app.Save(record)
}

func (r *PBReviewRepo) SetReply(id, reply string) error {
	record, err := r.app.FindRecordById("reviews", id)
	if err != nil {
		return err
	}
	record.Set("reply", reply)
	return r.app.Save(record)
}
