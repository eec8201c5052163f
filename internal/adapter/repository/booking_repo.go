package repository

import (
	"github.com/pocketbase/dbx"
	pbCore "github.com/pocketbase/pocketbase/core"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

// PBBookingRepo backs the diary and the booking-derived half of the
// technician job merge with the bookings collection.
type PBBookingRepo struct {
	app pbCore.App
}

func NewBookingRepo(app pbCore.App) *PBBookingRepo {
	return &PBBookingRepo{app: app}
}

// Mapping helper: Record -> Domain Model
func (r *PBBookingRepo) toDomain(record *pbCore.Record) *core.Booking {
	return &core.Booking{
		ID:            record.Id,
		CustomerName:  record.GetString("customer_name"),
		CustomerPhone: record.GetString("customer_phone"),
		CustomerEmail: record.GetString("customer_email"),
		Vehicle:       record.GetString("vehicle"),
		ServiceName:   record.GetString("service_name"),
		Notes:         record.GetString("notes"),
		Status:        record.GetString("status"),
		BookingTime:   record.GetString("booking_time"),
		TechnicianID:  record.GetString("technician_id"),
		UserID:        record.GetString("user_id"),
		Created:       record.GetString("created"),
		Updated:       record.GetString("updated"),
	}
}

func (r *PBBookingRepo) GetByID(id string) (*core.Booking, error) {
	record, err := r.app.FindRecordById("bookings", id)
	if err != nil {
		return nil, err
	}
	return r.toDomain(record), nil
}

func (r *PBBookingRepo) Create(b *core.Booking) error {
	collection, err := r.app.FindCollectionByNameOrId("bookings")
	if err != nil {
		return err
	}

	record := pbCore.NewRecord(collection)
	record.Set("customer_name", b.CustomerName)
	record.Set("customer_phone", b.CustomerPhone)
	record.Set("customer_email", b.CustomerEmail)
	record.Set("vehicle", b.Vehicle)
	record.Set("service_name", b.ServiceName)
	record.Set("notes", b.Notes)
	record.Set("status", b.Status)
	record.Set("user_id", b.UserID)

	if b.BookingTime != "" {
		record.Set("booking_time", b.BookingTime)
	}

	if err := r.app.Save(record); err != nil {
		return err
	}

	// Write ID and timestamps back to the domain model
	b.ID = record.Id
	b.Created = record.GetString("created")
	b.Updated = record.GetString("updated")

	return nil
}

func (r *PBBookingRepo) Update(b *core.Booking) error {
	record, err := r.app.FindRecordById("bookings", b.ID)
	if err != nil {
		return err
	}

	record.Set("status", b.Status)
	record.Set("notes", b.Notes)
	record.Set("booking_time", b.BookingTime)

	if b.TechnicianID == "" {
		record.Set("technician_id", nil)
	} else {
		record.Set("technician_id", b.TechnicianID)
	}

	return r.app.Save(record)
}

func (r *PBBookingRepo) FindPending() ([]*core.Booking, error) {
	records, err := r.app.FindRecordsByFilter("bookings", "status = 'pending'", "-created", 0, 0, nil)
	if err != nil {
		return nil, err
	}

	var bookings []*core.Booking
	for _, rec := range records {
		bookings = append(bookings, r.toDomain(rec))
	}
	return bookings, nil
}

func (r *PBBookingRepo) FindByDate(date string) ([]*core.Booking, error) {
	records, err := r.app.FindRecordsByFilter(
		"bookings",
		"booking_time >= {:start} && booking_time < {:end}",
		"booking_time",
		0, 0,
		dbx.Params{"start": date + " 00:00", "end": date + " 24:00"},
	)
	if err != nil {
		return nil, err
	}

	var bookings []*core.Booking
	for _, rec := range records {
		bookings = append(bookings, r.toDomain(rec))
	}
	return bookings, nil
}

// FindAssignedToTechnician returns the booking rows feeding the technician
// job merge. Cancelled bookings are included; the status mapper carries
// them through so the technician sees the cancellation.
func (r *PBBookingRepo) FindAssignedToTechnician(techID string) ([]core.BookingRecord, error) {
	records, err := r.app.FindRecordsByFilter(
		"bookings",
		"technician_id = {:techId}",
		"booking_time",
		0, 0,
		dbx.Params{"techId": techID},
	)
	if err != nil {
		return nil, err
	}

	rows := make([]core.BookingRecord, 0, len(records))
	for _, rec := range records {
		rows = append(rows, core.BookingRecord{
			ID:           rec.Id,
			ServiceName:  rec.GetString("service_name"),
			CustomerName: rec.GetString("customer_name"),
			Vehicle:      rec.GetString("vehicle"),
			Status:       rec.GetString("status"),
			Notes:        rec.GetString("notes"),
			BookingDate:  rec.GetDateTime("booking_time").Time(),
			CreatedAt:    rec.GetDateTime("created").Time(),
			Duration:     rec.GetString("estimated_duration"),
		})
	}
	return rows, nil
}
