package core

// TechJobRepository is the remote job store: direct job assignment records
// plus the mutations the technician surface performs against them.
type TechJobRepository interface {
	// FindByTechnician returns the direct job assignments for a technician
	// under a workshop account.
	FindByTechnician(techID, userID string) ([]JobRecord, error)

	UpdateStatus(jobID string, status JobStatus) error
	LogTime(entry TimeLog) error
	AttachPhoto(jobID string, photo JobPhoto) error
	CreatePartRequests(jobID string, requests []PartRequest) error
}

// TechBookingSource exposes booking records assigned to a technician, the
// second input of the job merge.
type TechBookingSource interface {
	FindAssignedToTechnician(techID string) ([]BookingRecord, error)
}

// JobCacheStore is the durable fallback snapshot of the last successful
// fetch. Read only when a fetch fails; overwritten on every success.
type JobCacheStore interface {
	Get(key string) ([]TechnicianJob, error)
	Set(key string, jobs []TechnicianJob) error
}

// FileStore uploads a file and returns its public URL.
type FileStore interface {
	Upload(path string, data []byte) (string, error)
}

// NoticeSeverity selects the toast styling on the client.
type NoticeSeverity string

const (
	NoticeDefault     NoticeSeverity = "default"
	NoticeDestructive NoticeSeverity = "destructive"
)

// Notifier presents a short fire-and-forget message to a technician.
type Notifier interface {
	Notify(techID, message string, severity NoticeSeverity)
}

// BookingRepository defines data access for diary bookings.
type BookingRepository interface {
	GetByID(id string) (*Booking, error)
	Create(booking *Booking) error
	Update(booking *Booking) error

	FindPending() ([]*Booking, error)
	FindByDate(date string) ([]*Booking, error)
}

// TechnicianRepository defines data access for technicians.
type TechnicianRepository interface {
	GetByID(id string) (*Technician, error)
	GetActive() ([]*Technician, error)
}

// ReviewRepository defines data access for customer reviews.
type ReviewRepository interface {
	FindByStatus(status string) ([]*Review, error)
	SetStatus(id, status string) error
	SetReply(id, reply string) error
}

// SettingsRepository fetches the single workshop settings record.
type SettingsRepository interface {
	GetSettings() (*Settings, error)
}

// BookingService defines the diary business operations.
type BookingService interface {
	CreateBooking(req *BookingRequest) (*Booking, error)
	AssignTechnician(bookingID, technicianID string) error
	RecallToPending(bookingID string) error
	UpdateStatus(bookingID, status string) error
	CancelBooking(bookingID, reason string) error
	RescheduleBooking(bookingID, newTime string) error
}

// BookingRequest is the service-layer DTO for new bookings.
type BookingRequest struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Vehicle       string
	ServiceName   string
	Notes         string
	BookingTime   string
	UserID        string
}
