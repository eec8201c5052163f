package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	domain "github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
	"github.com/MicahMunyard/easyworkshophub-sub002/internal/service"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/broker"
)

// maxPhotoUpload caps technician photo uploads at 10MB.
const maxPhotoUpload = 10 << 20

// PhotoServer streams stored technician photos back over HTTP.
type PhotoServer interface {
	Serve(w http.ResponseWriter, r *http.Request, path string) error
}

// TechHandler serves the technician mobile API: the job list, the four
// job actions, the connectivity heartbeat and the SSE stream.
type TechHandler struct {
	App     *pocketbase.PocketBase
	Broker  *broker.SegmentedBroker
	Manager *service.TechJobManager
	Photos  PhotoServer
}

// --- Auth ---

func (h *TechHandler) ProcessLogin(e *core.RequestEvent) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
		return e.JSON(400, map[string]string{"error": "Invalid request body"})
	}

	record, err := h.App.FindAuthRecordByEmail("technicians", body.Email)
	if err != nil || !record.ValidatePassword(body.Password) {
		return e.JSON(400, map[string]string{"error": "Invalid email or password"})
	}
	if !record.GetBool("active") {
		return e.JSON(403, map[string]string{"error": "Account is deactivated"})
	}

	token, err := record.NewAuthToken()
	if err != nil {
		return e.JSON(500, map[string]string{"error": "Could not create token"})
	}

	http.SetCookie(e.Response, &http.Cookie{
		Name:     "pb_auth",
		Value:    token,
		Path:     "/",
		Secure:   false,
		HttpOnly: true,
	})

	return e.JSON(200, map[string]interface{}{
		"token": token,
		"technician": map[string]string{
			"id":    record.Id,
			"name":  record.GetString("name"),
			"email": record.Email(),
		},
	})
}

func (h *TechHandler) Logout(e *core.RequestEvent) error {
	http.SetCookie(e.Response, &http.Cookie{
		Name:   "pb_auth",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return e.JSON(200, map[string]string{"status": "ok"})
}

// session resolves the job session for the authenticated technician.
func (h *TechHandler) session(e *core.RequestEvent) *service.TechJobService {
	return h.Manager.Session(e.Auth.Id, e.Auth.GetString("user_id"))
}

// --- Jobs ---

// GetJobs triggers a refresh and returns the current job snapshot. The
// snapshot may come from the cache fallback when the sources are down.
func (h *TechHandler) GetJobs(e *core.RequestEvent) error {
	sess := h.session(e)
	sess.FetchJobs()

	return e.JSON(200, map[string]interface{}{
		"jobs":    sess.Jobs(),
		"version": sess.Version(),
		"pending": sess.Queue().Len(),
	})
}

func (h *TechHandler) UpdateJobStatus(e *core.RequestEvent) error {
	jobID := e.Request.PathValue("id")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
		return e.JSON(400, map[string]string{"error": "Invalid request body"})
	}

	status := domain.JobStatus(body.Status)
	if !status.IsValid() {
		return e.JSON(400, map[string]string{"error": fmt.Sprintf("Unknown status %q", body.Status)})
	}

	sess := h.session(e)
	if err := sess.UpdateJobStatus(jobID, status); err != nil {
		return e.JSON(502, map[string]string{"error": "Status update failed"})
	}

	return e.JSON(200, map[string]interface{}{
		"jobs":    sess.Jobs(),
		"version": sess.Version(),
	})
}

func (h *TechHandler) ToggleJobTimer(e *core.RequestEvent) error {
	jobID := e.Request.PathValue("id")

	sess := h.session(e)
	if err := sess.ToggleJobTimer(jobID); err != nil {
		return e.JSON(502, map[string]string{"error": "Timer update failed"})
	}

	return e.JSON(200, map[string]interface{}{
		"jobs":    sess.Jobs(),
		"version": sess.Version(),
	})
}

func (h *TechHandler) UploadJobPhoto(e *core.RequestEvent) error {
	jobID := e.Request.PathValue("id")

	if err := e.Request.ParseMultipartForm(maxPhotoUpload); err != nil {
		return e.JSON(400, map[string]string{"error": "Invalid multipart form"})
	}
	file, header, err := e.Request.FormFile("photo")
	if err != nil {
		return e.JSON(400, map[string]string{"error": "Missing photo file"})
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoUpload+1))
	if err != nil {
		return e.JSON(400, map[string]string{"error": "Could not read upload"})
	}
	if len(data) > maxPhotoUpload {
		return e.JSON(413, map[string]string{"error": "Photo too large"})
	}

	sess := h.session(e)
	if err := sess.UploadJobPhoto(jobID, header.Filename, data); err != nil {
		return e.JSON(502, map[string]string{"error": "Photo upload failed"})
	}

	return e.JSON(200, map[string]interface{}{
		"jobs":    sess.Jobs(),
		"version": sess.Version(),
	})
}

func (h *TechHandler) RequestJobParts(e *core.RequestEvent) error {
	jobID := e.Request.PathValue("id")

	var body struct {
		Parts []domain.PartInput `json:"parts"`
	}
	if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
		return e.JSON(400, map[string]string{"error": "Invalid request body"})
	}
	if len(body.Parts) == 0 {
		return e.JSON(400, map[string]string{"error": "No parts listed"})
	}
	for _, part := range body.Parts {
		if part.Name == "" || part.Quantity <= 0 {
			return e.JSON(400, map[string]string{"error": "Each part needs a name and a positive quantity"})
		}
	}

	sess := h.session(e)
	if err := sess.RequestJobParts(jobID, body.Parts); err != nil {
		return e.JSON(502, map[string]string{"error": "Parts request failed"})
	}

	return e.JSON(200, map[string]interface{}{
		"jobs":    sess.Jobs(),
		"version": sess.Version(),
	})
}

// --- Connectivity ---

// Heartbeat lets the mobile client report its connectivity. The offline →
// online transition wakes the sync runner, which drains the queued actions.
func (h *TechHandler) Heartbeat(e *core.RequestEvent) error {
	var body struct {
		Online bool `json:"online"`
	}
	if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
		return e.JSON(400, map[string]string{"error": "Invalid request body"})
	}

	monitor := h.Manager.Monitor(e.Auth.Id, e.Auth.GetString("user_id"))
	monitor.SetOnline(body.Online)

	return e.JSON(200, map[string]interface{}{
		"online":  monitor.Online(),
		"pending": h.session(e).Queue().Len(),
	})
}

// --- SSE ---

// Stream pushes toasts and job events to the technician's device.
func (h *TechHandler) Stream(e *core.RequestEvent) error {
	techID := e.Auth.Id

	e.Response.Header().Set("Content-Type", "text/event-stream")
	e.Response.Header().Set("Cache-Control", "no-cache")
	e.Response.Header().Set("Connection", "keep-alive")

	eventChan := h.Broker.Subscribe(broker.ChannelTech, techID)
	defer h.Broker.Unsubscribe(broker.ChannelTech, techID, eventChan)

	initialEvent := broker.Event{
		Type:      "connection.established",
		Timestamp: time.Now().Unix(),
		Data: map[string]interface{}{
			"role":    "tech",
			"tech_id": techID,
		},
	}
	eventJSON, _ := json.Marshal(initialEvent)
	fmt.Fprintf(e.Response, "data: %s\n\n", eventJSON)
	e.Response.(http.Flusher).Flush()

	for {
		select {
		case event := <-eventChan:
			eventJSON, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(e.Response, "data: %s\n\n", eventJSON)
			e.Response.(http.Flusher).Flush()

		case <-e.Request.Context().Done():
			return nil
		}
	}
}

// ServePhoto streams a stored job photo.
func (h *TechHandler) ServePhoto(e *core.RequestEvent) error {
	path := e.Request.PathValue("path")
	if path == "" {
		return e.String(400, "Missing photo path")
	}
	if err := h.Photos.Serve(e.Response, e.Request, path); err != nil {
		return e.String(404, "Photo not found")
	}
	return nil
}
