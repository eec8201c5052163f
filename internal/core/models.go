package core

import "time"

// JobStatus is the normalized status vocabulary for technician jobs.
// Booking-derived jobs are mapped into this vocabulary lossily (bookings
// only know confirmed/completed/cancelled).
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "inProgress"
	JobStatusWorking    JobStatus = "working"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// IsValid reports whether s is one of the known job statuses.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusInProgress, JobStatusWorking,
		JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// TechnicianJob is the normalized job shape shown on the technician mobile
// surface. It merges two underlying record kinds: direct job assignments and
// bookings assigned to a technician.
//
// Invariant: within one snapshot at most one job has IsActive = true
// (single running timer).
type TechnicianJob struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Customer    string    `json:"customer"`
	Vehicle     string    `json:"vehicle"`
	Status      JobStatus `json:"status"`

	AssignedAt   time.Time `json:"assigned_at"`
	ScheduledFor time.Time `json:"scheduled_for"`

	EstimatedTime string `json:"estimated_time"`
	Priority      string `json:"priority"`

	// TimeLogged is total logged seconds. The merge step leaves it zero;
	// it is filled by the time-entries aggregation, not the fetch.
	TimeLogged int64 `json:"time_logged"`

	PartsRequested []PartRequest `json:"parts_requested"`
	Photos         []JobPhoto    `json:"photos"`
	Notes          []JobNote     `json:"notes"`

	IsActive bool `json:"is_active"`
}

// PartRequestStatus tracks the approval workflow for a requested part.
type PartRequestStatus string

const (
	PartRequestPending   PartRequestStatus = "pending"
	PartRequestApproved  PartRequestStatus = "approved"
	PartRequestDenied    PartRequestStatus = "denied"
	PartRequestDelivered PartRequestStatus = "delivered"
)

// PartRequest is a technician-initiated request for a part. Created
// client-side with a fresh id; status transitions belong to the approval
// workflow.
type PartRequest struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Quantity    int               `json:"quantity"`
	Status      PartRequestStatus `json:"status"`
	RequestedAt time.Time         `json:"requested_at"`
}

// PartInput is the raw (name, quantity) pair a technician submits.
type PartInput struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// JobPhoto points into remote file storage. Immutable once created.
type JobPhoto struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
	Caption    string    `json:"caption,omitempty"`
}

// SystemAuthor is the author sentinel for notes synthesized from booking
// free-text fields.
const SystemAuthor = "system"

// JobNote is a free-text note attached to a job.
type JobNote struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
}

// TimeLog is one timer run against a job.
type TimeLog struct {
	JobID     string    `json:"job_id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Seconds   int64     `json:"seconds"`
}

// JobRecord is the loosely-typed row shape returned by the jobs source.
// It is the fully specified input of the job-record mapper.
type JobRecord struct {
	ID            string
	Title         string
	Description   string
	CustomerName  string
	Vehicle       string
	Status        string // raw store vocabulary, e.g. "in_progress"
	AssignedAt    time.Time
	ScheduledFor  time.Time
	EstimatedTime string
	Priority      string
}

// BookingRecord is the row shape returned by the bookings source. Bookings
// carry a coarser status vocabulary and a single free-text notes field.
type BookingRecord struct {
	ID           string
	ServiceName  string
	CustomerName string
	Vehicle      string
	Status       string // confirmed | completed | cancelled | ...
	Notes        string
	BookingDate  time.Time
	CreatedAt    time.Time
	Duration     string
}

// Booking is a diary entry: a customer service request against the workshop.
type Booking struct {
	ID            string `json:"id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	Vehicle       string `json:"vehicle"`
	ServiceName   string `json:"service_name"`
	Notes         string `json:"notes"`
	Status        string `json:"status"` // pending | confirmed | completed | cancelled
	BookingTime   string `json:"booking_time"`
	TechnicianID  string `json:"technician_id"`
	UserID        string `json:"user_id"`

	Created string `json:"created"`
	Updated string `json:"updated"`
}

// Technician represents a workshop staff member with a mobile login.
type Technician struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Active   bool   `json:"active"`
	Verified bool   `json:"verified"`
	UserID   string `json:"user_id"` // owning workshop account
}

// Review is a customer review awaiting moderation or reply.
type Review struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
	Status    string `json:"status"` // pending | approved | rejected
	Reply     string `json:"reply"`
	BookingID string `json:"booking_id"`
	Created   string `json:"created"`
}

// HelpArticle is a piece of onboarding help content.
type HelpArticle struct {
	ID        string `json:"id"`
	Topic     string `json:"topic"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	SortOrder int    `json:"sort_order"`
}

// Settings is the single workshop settings record.
type Settings struct {
	ID            string `json:"id"`
	WorkshopName  string `json:"workshop_name"`
	ContactEmail  string `json:"contact_email"`
	ContactPhone  string `json:"contact_phone"`
	IntakeSecret  string `json:"intake_secret"` // HS256 secret for the email webhook
	LowStockAlert bool   `json:"low_stock_alert"`
}
