package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	domain "github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
	"github.com/MicahMunyard/easyworkshophub-sub002/internal/service"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/broker"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/services"
)

// AdminHandler serves the workshop back office: the booking diary,
// review moderation, inventory and the admin event stream.
type AdminHandler struct {
	Broker    *broker.SegmentedBroker
	Bookings  domain.BookingService
	Diary     domain.BookingRepository
	Techs     domain.TechnicianRepository
	Reviews   *service.ReviewService
	Inventory *services.InventoryService
}

// --- Booking diary ---

// GetDiary returns the bookings for a day. Defaults to today.
func (h *AdminHandler) GetDiary(e *core.RequestEvent) error {
	date := e.Request.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	bookings, err := h.Diary.FindByDate(date)
	if err != nil {
		return e.JSON(500, map[string]string{"error": "Could not load diary"})
	}

	return e.JSON(200, map[string]interface{}{
		"date":     date,
		"bookings": bookings,
	})
}

func (h *AdminHandler) GetPendingBookings(e *core.RequestEvent) error {
	bookings, err := h.Diary.FindPending()
	if err != nil {
		return e.JSON(500, map[string]string{"error": "Could not load pending bookings"})
	}
	return e.JSON(200, map[string]interface{}{"bookings": bookings})
}

func (h *AdminHandler) CreateBooking(e *core.RequestEvent) error {
	var req domain.BookingRequest
	if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
		return e.JSON(400, map[string]string{"error": "Invalid request body"})
	}
	if req.CustomerName == "" || req.BookingTime == "" {
		return e.JSON(400, map[string]string{"error": "Customer name and booking time are required"})
	}
	req.UserID = e.Auth.Id

	booking, err := h.Bookings.CreateBooking(&req)
	if err != nil {
		return e.JSON(500, map[string]string{"error": "Could not create booking"})
	}
	return e.JSON(201, booking)
}

func (h *AdminHandler) AssignTechnician(e *core.RequestEvent) error {
	bookingID := e.Request.PathValue("id")

	var body struct {
		TechnicianID string `json:"technician_id"`
	}
	if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil || body.TechnicianID == "" {
		return e.JSON(400, map[string]string{"error": "Missing technician_id"})
	}

	if err := h.Bookings.AssignTechnician(bookingID, body.TechnicianID); err != nil {
		return e.JSON(409, map[string]string{"error": err.Error()})
	}
	return e.JSON(200, map[string]string{"status": "assigned"})
}

func (h *AdminHandler) RecallBooking(e *core.RequestEvent) error {
	bookingID := e.Request.PathValue("id")

	if err := h.Bookings.RecallToPending(bookingID); err != nil {
		return e.JSON(409, map[string]string{"error": err.Error()})
	}
	return e.JSON(200, map[string]string{"status": "pending"})
}

func (h *AdminHandler) UpdateBookingStatus(e *core.RequestEvent) error {
	bookingID := e.Request.PathValue("id")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
		return e.JSON(400, map[string]string{"error": "Invalid request body"})
	}

	if err := h.Bookings.UpdateStatus(bookingID, body.Status); err != nil {
		return e.JSON(409, map[string]string{"error": err.Error()})
	}
	return e.JSON(200, map[string]string{"status": body.Status})
}

func (h *AdminHandler) CancelBooking(e *core.RequestEvent) error {
	bookingID := e.Request.PathValue("id")

	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(e.Request.Body).Decode(&body)

	if err := h.Bookings.CancelBooking(bookingID, body.Reason); err != nil {
		return e.JSON(409, map[string]string{"error": err.Error()})
	}
	return e.JSON(200, map[string]string{"status": "cancelled"})
}

func (h *AdminHandler) RescheduleBooking(e *core.RequestEvent) error {
	bookingID := e.Request.PathValue("id")

	var body struct {
		BookingTime string `json:"booking_time"`
	}
	if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil || body.BookingTime == "" {
		return e.JSON(400, map[string]string{"error": "Missing booking_time"})
	}

	if err := h.Bookings.RescheduleBooking(bookingID, body.BookingTime); err != nil {
		return e.JSON(409, map[string]string{"error": err.Error()})
	}
	return e.JSON(200, map[string]string{"status": "rescheduled"})
}

func (h *AdminHandler) GetTechnicians(e *core.RequestEvent) error {
	techs, err := h.Techs.GetActive()
	if err != nil {
		return e.JSON(500, map[string]string{"error": "Could not load technicians"})
	}
	return e.JSON(200, map[string]interface{}{"technicians": techs})
}

// --- Reviews ---

func (h *AdminHandler) GetPendingReviews(e *core.RequestEvent) error {
	reviews, err := h.Reviews.PendingReviews()
	if err != nil {
		return e.JSON(500, map[string]string{"error": "Could not load reviews"})
	}
	return e.JSON(200, map[string]interface{}{"reviews": reviews})
}

func (h *AdminHandler) ModerateReview(e *core.RequestEvent) error {
	reviewID := e.Request.PathValue("id")

	var body struct {
		Approve bool `json:"approve"`
	}
	if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
		return e.JSON(400, map[string]string{"error": "Invalid request body"})
	}

	if err := h.Reviews.Moderate(reviewID, body.Approve); err != nil {
		return e.JSON(404, map[string]string{"error": "Review not found"})
	}
	return e.JSON(200, map[string]string{"status": "ok"})
}

func (h *AdminHandler) ReplyToReview(e *core.RequestEvent) error {
	reviewID := e.Request.PathValue("id")

	var body struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil || body.Reply == "" {
		return e.JSON(400, map[string]string{"error": "Missing reply"})
	}

	if err := h.Reviews.Reply(reviewID, body.Reply); err != nil {
		return e.JSON(404, map[string]string{"error": "Review not found"})
	}
	return e.JSON(200, map[string]string{"status": "ok"})
}

// --- Inventory ---

func (h *AdminHandler) GetInventory(e *core.RequestEvent) error {
	items, err := h.Inventory.GetActiveItems()
	if err != nil {
		return e.JSON(500, map[string]string{"error": "Could not load inventory"})
	}
	return e.JSON(200, map[string]interface{}{"items": items})
}

func (h *AdminHandler) GetLowStock(e *core.RequestEvent) error {
	items, err := h.Inventory.LowStockItems()
	if err != nil {
		return e.JSON(500, map[string]string{"error": "Could not load inventory"})
	}
	return e.JSON(200, map[string]interface{}{"items": items})
}

// DeductStock handles a manual stock adjustment, e.g. writing off a
// damaged part.
func (h *AdminHandler) DeductStock(e *core.RequestEvent) error {
	itemID := e.Request.PathValue("id")

	var body struct {
		Quantity float64 `json:"quantity"`
	}
	if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil || body.Quantity <= 0 {
		return e.JSON(400, map[string]string{"error": "Quantity must be a positive number"})
	}

	price, err := h.Inventory.DeductStock(itemID, body.Quantity)
	if err != nil {
		return e.JSON(409, map[string]string{"error": err.Error()})
	}
	return e.JSON(200, map[string]interface{}{"status": "ok", "unit_price": price})
}

// RecordPartsUsed books parts against a completed job and deducts them
// from stock.
func (h *AdminHandler) RecordPartsUsed(e *core.RequestEvent) error {
	jobID := e.Request.PathValue("id")

	var body struct {
		Parts []struct {
			ItemID   string  `json:"item_id"`
			Quantity float64 `json:"quantity"`
		} `json:"parts"`
	}
	if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil || len(body.Parts) == 0 {
		return e.JSON(400, map[string]string{"error": "At least one part is required"})
	}

	parts := make([]services.JobPart, 0, len(body.Parts))
	for _, p := range body.Parts {
		if p.ItemID == "" || p.Quantity <= 0 {
			return e.JSON(400, map[string]string{"error": "Each part needs an item_id and a positive quantity"})
		}
		parts = append(parts, services.JobPart{ItemID: p.ItemID, Quantity: p.Quantity})
	}

	total, err := h.Inventory.RecordPartsUsage(jobID, parts)
	if err != nil {
		return e.JSON(409, map[string]string{"error": err.Error()})
	}
	return e.JSON(200, map[string]interface{}{"status": "ok", "total_parts_cost": total})
}

func (h *AdminHandler) GetJobParts(e *core.RequestEvent) error {
	jobID := e.Request.PathValue("id")

	parts, err := h.Inventory.GetJobParts(jobID)
	if err != nil {
		return e.JSON(500, map[string]string{"error": "Could not load job parts"})
	}
	return e.JSON(200, map[string]interface{}{"parts": parts})
}

// --- SSE ---

// Stream pushes booking, parts and stock events to the back office.
func (h *AdminHandler) Stream(e *core.RequestEvent) error {
	e.Response.Header().Set("Content-Type", "text/event-stream")
	e.Response.Header().Set("Cache-Control", "no-cache")
	e.Response.Header().Set("Connection", "keep-alive")

	eventChan := h.Broker.Subscribe(broker.ChannelAdmin, "")
	defer h.Broker.Unsubscribe(broker.ChannelAdmin, "", eventChan)

	initialEvent := broker.Event{
		Type:      "connection.established",
		Timestamp: time.Now().Unix(),
		Data:      map[string]interface{}{"role": "admin"},
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
