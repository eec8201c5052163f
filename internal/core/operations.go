package core

import "time"

// OperationKind identifies an offline operation variant. Used for logging
// and queue inspection; replay dispatch goes through the type switch so a
// new variant without a replay arm is a compile-time hole, not a silent drop.
type OperationKind string

const (
	OpStatusUpdate OperationKind = "status_update"
	OpTimeLog      OperationKind = "time_log"
	OpPhotoUpload  OperationKind = "photo_upload"
	OpPartsRequest OperationKind = "parts_request"
)

// OfflineOperation is a mutation recorded while the technician client has no
// connectivity, replayed in FIFO order once connectivity returns. Each
// variant carries its own typed payload.
type OfflineOperation interface {
	// OperationID is the client-generated id of the queued operation.
	OperationID() string
	// EnqueuedAt is when the operation was recorded.
	EnqueuedAt() time.Time
	// Kind names the variant.
	Kind() OperationKind

	isOfflineOperation()
}

// StatusUpdateOperation defers a job status change.
type StatusUpdateOperation struct {
	ID        string
	Timestamp time.Time
	JobID     string
	NewStatus JobStatus
}

// TimeLogOperation defers persisting a completed timer run.
type TimeLogOperation struct {
	ID        string
	Timestamp time.Time
	Log       TimeLog
}

// PhotoUploadOperation defers a photo upload. The file bytes are carried in
// the operation so the upload can actually complete on replay.
type PhotoUploadOperation struct {
	ID        string
	Timestamp time.Time
	JobID     string
	FileName  string
	Data      []byte
}

// PartsRequestOperation defers a parts request.
type PartsRequestOperation struct {
	ID        string
	Timestamp time.Time
	JobID     string
	Parts     []PartInput
}

func (o StatusUpdateOperation) OperationID() string   { return o.ID }
func (o StatusUpdateOperation) EnqueuedAt() time.Time { return o.Timestamp }
func (o StatusUpdateOperation) Kind() OperationKind   { return OpStatusUpdate }
func (o StatusUpdateOperation) isOfflineOperation()   {}

func (o TimeLogOperation) OperationID() string   { return o.ID }
func (o TimeLogOperation) EnqueuedAt() time.Time { return o.Timestamp }
func (o TimeLogOperation) Kind() OperationKind   { return OpTimeLog }
func (o TimeLogOperation) isOfflineOperation()   {}

func (o PhotoUploadOperation) OperationID() string   { return o.ID }
func (o PhotoUploadOperation) EnqueuedAt() time.Time { return o.Timestamp }
func (o PhotoUploadOperation) Kind() OperationKind   { return OpPhotoUpload }
func (o PhotoUploadOperation) isOfflineOperation()   {}

func (o PartsRequestOperation) OperationID() string   { return o.ID }
func (o PartsRequestOperation) EnqueuedAt() time.Time { return o.Timestamp }
func (o PartsRequestOperation) Kind() OperationKind   { return OpPartsRequest }
func (o PartsRequestOperation) isOfflineOperation()   {}
