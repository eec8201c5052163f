package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

type fakeBookingRepo struct {
	bookings map[string]*core.Booking
}

func newFakeBookingRepo(bookings ...*core.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[string]*core.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(id string) (*core.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, errors.New("not found")
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBookingRepo) Create(b *core.Booking) error {
	b.ID = "new"
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) Update(b *core.Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return errors.New("not found")
	}
	clone := *b
	f.bookings[b.ID] = &clone
	return nil
}

func (f *fakeBookingRepo) FindPending() ([]*core.Booking, error) { return nil, nil }

func (f *fakeBookingRepo) FindByDate(date string) ([]*core.Booking, error) { return nil, nil }

type fakeTechRepo struct {
	techs map[string]*core.Technician
}

func (f *fakeTechRepo) GetByID(id string) (*core.Technician, error) {
	t, ok := f.techs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func (f *fakeTechRepo) GetActive() ([]*core.Technician, error) { return nil, nil }

func newBookingHarness(bookings ...*core.Booking) (core.BookingService, *fakeBookingRepo, *fakeTechRepo) {
	bookingRepo := newFakeBookingRepo(bookings...)
	techRepo := &fakeTechRepo{techs: map[string]*core.Technician{
		"t1": {ID: "t1", Name: "Sam", Active: true},
		"t2": {ID: "t2", Name: "Alex", Active: false},
	}}
	return NewBookingService(bookingRepo, techRepo, nil), bookingRepo, techRepo
}

func TestCreateBookingStartsPending(t *testing.T) {
	svc, repo, _ := newBookingHarness()

	booking, err := svc.CreateBooking(&core.BookingRequest{
		CustomerName: "Jo Smith",
		BookingTime:  "2026-09-02 09:30",
		UserID:       "user1",
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", booking.Status)
	assert.Equal(t, "pending", repo.bookings[booking.ID].Status)
}

func TestAssignTechnicianConfirmsBooking(t *testing.T) {
	svc, repo, _ := newBookingHarness(&core.Booking{ID: "b1", Status: "pending"})

	require.NoError(t, svc.AssignTechnician("b1", "t1"))

	assert.Equal(t, "confirmed", repo.bookings["b1"].Status)
	assert.Equal(t, "t1", repo.bookings["b1"].TechnicianID)
}

func TestAssignTechnicianRejectsInactiveTech(t *testing.T) {
	svc, repo, _ := newBookingHarness(&core.Booking{ID: "b1", Status: "pending"})

	err := svc.AssignTechnician("b1", "t2")

	require.Error(t, err)
	assert.Empty(t, repo.bookings["b1"].TechnicianID)
}

func TestAssignTechnicianRejectsFinishedBooking(t *testing.T) {
	svc, _, _ := newBookingHarness(&core.Booking{ID: "b1", Status: "completed"})
	require.Error(t, svc.AssignTechnician("b1", "t1"))
}

func TestRecallToPendingUnassignsTechnician(t *testing.T) {
	svc, repo, _ := newBookingHarness(&core.Booking{ID: "b1", Status: "confirmed", TechnicianID: "t1"})

	require.NoError(t, svc.RecallToPending("b1"))

	assert.Equal(t, "pending", repo.bookings["b1"].Status)
	assert.Empty(t, repo.bookings["b1"].TechnicianID)
}

func TestRecallToPendingRejectsFinishedBooking(t *testing.T) {
	svc, _, _ := newBookingHarness(&core.Booking{ID: "b1", Status: "cancelled"})
	require.Error(t, svc.RecallToPending("b1"))
}

func TestCancelBookingAppendsReasonToNotes(t *testing.T) {
	svc, repo, _ := newBookingHarness(&core.Booking{ID: "b1", Status: "confirmed", Notes: "Front left squeak"})

	require.NoError(t, svc.CancelBooking("b1", "customer no-show"))

	b := repo.bookings["b1"]
	assert.Equal(t, "cancelled", b.Status)
	assert.Contains(t, b.Notes, "Front left squeak")
	assert.Contains(t, b.Notes, "Cancelled: customer no-show")
}
