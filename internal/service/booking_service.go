package service

import (
	"fmt"
	"log"
	"time"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/broker"
)

// BookingService implements the diary operations: creating bookings,
// assigning technicians and moving bookings through their lifecycle.
type BookingService struct {
	bookingRepo core.BookingRepository
	techRepo    core.TechnicianRepository
	broker      *broker.SegmentedBroker
}

func NewBookingService(
	bookingRepo core.BookingRepository,
	techRepo core.TechnicianRepository,
	eventBroker *broker.SegmentedBroker,
) core.BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		techRepo:    techRepo,
		broker:      eventBroker,
	}
}

func (s *BookingService) CreateBooking(req *core.BookingRequest) (*core.Booking, error) {
	booking := &core.Booking{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Vehicle:       req.Vehicle,
		ServiceName:   req.ServiceName,
		Notes:         req.Notes,
		Status:        "pending",
		BookingTime:   req.BookingTime,
		UserID:        req.UserID,
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, err
	}

	if s.broker != nil {
		s.broker.Publish(broker.ChannelAdmin, "", broker.Event{
			Type:      "booking.created",
			Timestamp: time.Now().Unix(),
			Data: map[string]interface{}{
				"id":       booking.ID,
				"customer": booking.CustomerName,
				"vehicle":  booking.Vehicle,
				"service":  booking.ServiceName,
				"time":     booking.BookingTime,
				"status":   booking.Status,
			},
		})
	}

	return booking, nil
}

func (s *BookingService) AssignTechnician(bookingID, technicianID string) error {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("booking not found: %w", err)
	}

	if booking.Status != "pending" && booking.Status != "confirmed" {
		return fmt.Errorf("cannot assign technician: booking is already %s", booking.Status)
	}

	tech, err := s.techRepo.GetByID(technicianID)
	if err != nil {
		return fmt.Errorf("technician not found: %w", err)
	}
	if !tech.Active {
		return fmt.Errorf("technician is not active")
	}

	booking.TechnicianID = technicianID
	booking.Status = "confirmed"

	if err := s.bookingRepo.Update(booking); err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}

	if s.broker != nil {
		s.broker.Publish(broker.ChannelTech, technicianID, broker.Event{
			Type:      "job.assigned",
			Timestamp: time.Now().Unix(),
			Data: map[string]interface{}{
				"booking_id": booking.ID,
				"customer":   booking.CustomerName,
				"vehicle":    booking.Vehicle,
				"service":    booking.ServiceName,
				"time":       booking.BookingTime,
			},
		})
		log.Printf("📡 [BOOKING_SERVICE] Published job.assigned to tech %s", technicianID)

		s.broker.Publish(broker.ChannelAdmin, "", broker.Event{
			Type:      "job.assigned",
			Timestamp: time.Now().Unix(),
			Data: map[string]interface{}{
				"booking_id": bookingID,
				"tech_id":    technicianID,
				"tech_name":  tech.Name,
				"status":     booking.Status,
			},
		})
	}

	return nil
}

// RecallToPending pulls an assigned booking back into the pending pool,
// clearing the technician so it can be reassigned.
func (s *BookingService) RecallToPending(bookingID string) error {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("booking not found: %w", err)
	}

	if booking.Status == "completed" || booking.Status == "cancelled" {
		return fmt.Errorf("cannot recall a %s booking", booking.Status)
	}

	recalledTech := booking.TechnicianID
	booking.TechnicianID = ""
	booking.Status = "pending"

	if err := s.bookingRepo.Update(booking); err != nil {
		return fmt.Errorf("failed to recall booking: %w", err)
	}

	if s.broker != nil {
		if recalledTech != "" {
			s.broker.Publish(broker.ChannelTech, recalledTech, broker.Event{
				Type:      "job.recalled",
				Timestamp: time.Now().Unix(),
				Data: map[string]interface{}{
					"booking_id": bookingID,
				},
			})
		}
		s.broker.Publish(broker.ChannelAdmin, "", broker.Event{
			Type:      "booking.recalled",
			Timestamp: time.Now().Unix(),
			Data: map[string]interface{}{
				"booking_id": bookingID,
				"tech_id":    recalledTech,
			},
		})
	}

	return nil
}

func (s *BookingService) UpdateStatus(bookingID, status string) error {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("booking not found: %w", err)
	}

	booking.Status = status
	if err := s.bookingRepo.Update(booking); err != nil {
		return err
	}

	if s.broker != nil {
		if booking.TechnicianID != "" {
			s.broker.Publish(broker.ChannelTech, booking.TechnicianID, broker.Event{
				Type:      "job.status_changed",
				Timestamp: time.Now().Unix(),
				Data: map[string]interface{}{
					"booking_id": bookingID,
					"status":     status,
				},
			})
		}
		s.broker.Publish(broker.ChannelAdmin, "", broker.Event{
			Type:      "job.status_changed",
			Timestamp: time.Now().Unix(),
			Data: map[string]interface{}{
				"booking_id": bookingID,
				"status":     status,
				"tech_id":    booking.TechnicianID,
			},
		})
	}

	return nil
}

func (s *BookingService) CancelBooking(bookingID, reason string) error {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("booking not found: %w", err)
	}

	booking.Status = "cancelled"
	if reason != "" {
		if booking.Notes != "" {
			booking.Notes += "\n"
		}
		booking.Notes += "Cancelled: " + reason
	}

	if err := s.bookingRepo.Update(booking); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if s.broker != nil {
		s.broker.Publish(broker.ChannelAdmin, "", broker.Event{
			Type:      "booking.cancelled",
			Timestamp: time.Now().Unix(),
			Data: map[string]interface{}{
				"id":     bookingID,
				"reason": reason,
			},
		})
		if booking.TechnicianID != "" {
			s.broker.Publish(broker.ChannelTech, booking.TechnicianID, broker.Event{
				Type:      "job.cancelled",
				Timestamp: time.Now().Unix(),
				Data: map[string]interface{}{
					"booking_id": bookingID,
					"reason":     reason,
				},
			})
		}
	}

	return nil
}

func (s *BookingService) RescheduleBooking(bookingID, newTime string) error {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("booking not found: %w", err)
	}

	booking.BookingTime = newTime
	if err := s.bookingRepo.Update(booking); err != nil {
		return fmt.Errorf("failed to reschedule booking: %w", err)
	}
	return nil
}
