package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
	"github.com/raylene/casework/internal/metrics"
)

// BookingService publishes consultation slots and books clients into them.
type BookingService struct {
	slots    ports.SlotRepository
	bookings ports.BookingRepository
	tx       ports.TxManager
	logger   zerolog.Logger
	now      clock
}

func NewBookingService(slots ports.SlotRepository, bookings ports.BookingRepository, tx ports.TxManager, logger zerolog.Logger) *BookingService {
	return &BookingService{slots: slots, bookings: bookings, tx: tx, logger: logger, now: utcNow}
}

func (s *BookingService) PublishSlot(ctx context.Context, actor domain.Actor, in ports.PublishSlotInput) (*domain.AvailabilitySlot, error) {
	if !actor.IsStaffLike() {
		return nil, domain.ErrForbidden
	}

	verr := &domain.ValidationError{}
	loc := domain.SlotLocation(in.Location)
	if loc == "" {
		loc = domain.LocationOnline
	}
	if !loc.Valid() {
		verr.Add("location", fmt.Sprintf("%q is not a valid choice.", in.Location))
	}
	if in.Start.IsZero() {
		verr.Add("start", "This field is required.")
	}
	if !in.End.After(in.Start) {
		verr.Add("end", "End must be after start.")
	}
	capacity := in.Capacity
	if capacity == 0 {
		capacity = 1
	}
	if capacity < 1 {
		verr.Add("capacity", "Ensure this value is greater than or equal to 1.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	slot := &domain.AvailabilitySlot{
		ID:        newID(),
		StaffID:   actor.UserID(),
		Start:     in.Start.UTC(),
		End:       in.End.UTC(),
		Location:  loc,
		Capacity:  capacity,
		CreatedAt: s.now(),
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}

func (s *BookingService) ListSlots(ctx context.Context, filter ports.SlotFilter) ([]*domain.AvailabilitySlot, error) {
	if filter.Location != "" && !domain.SlotLocation(filter.Location).Valid() {
		return nil, domain.NewValidationError("location", fmt.Sprintf("%q is not a valid choice.", filter.Location))
	}
	return s.slots.List(ctx, filter)
}

// CreateBooking books the caller into a slot. The seat is reserved with the
// booking in one unit; a full slot yields domain.ErrSlotFull.
func (s *BookingService) CreateBooking(ctx context.Context, actor domain.Actor, in ports.CreateBookingInput) (*domain.Booking, error) {
	if in.SlotID == "" {
		return nil, domain.NewValidationError("slot", "This field is required.")
	}
	slot, err := s.slots.FindByID(ctx, in.SlotID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewValidationError("slot", fmt.Sprintf("Invalid pk %q - object does not exist.", in.SlotID))
		}
		return nil, err
	}

	booking := &domain.Booking{
		ID:        newID(),
		ClientID:  actor.UserID(),
		StaffID:   slot.StaffID,
		SlotID:    slot.ID,
		Start:     slot.Start,
		Status:    domain.BookingPending,
		Notes:     in.Notes,
		CreatedAt: s.now(),
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.slots.Reserve(ctx, slot.ID); err != nil {
			return err
		}
		return s.bookings.Create(ctx, booking)
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotFull) {
			metrics.BookingsCreatedTotal.WithLabelValues("full").Inc()
		}
		return nil, err
	}

	metrics.BookingsCreatedTotal.WithLabelValues("ok").Inc()
	s.logger.Info().Str("booking_id", booking.ID).Str("slot_id", slot.ID).Msg("booking created")
	return booking, nil
}

// UpdateBooking changes a booking's status. Staff may set any status and the
// meeting URL; the client may only cancel. Leaving or re-entering CANCELLED
// gives back or takes a seat on the slot.
func (s *BookingService) UpdateBooking(ctx context.Context, actor domain.Actor, in ports.UpdateBookingInput) (*domain.Booking, error) {
	status, err := domain.ParseBookingStatus(in.Status)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.FindByID(ctx, in.BookingID, scopeFor(actor.Principal, nil))
	if err != nil {
		return nil, err
	}

	staff := actor.CanSeeAll(nil)
	if !staff && (status != domain.BookingCancelled || in.MeetingURL != nil) {
		return nil, domain.ErrForbidden
	}

	prev := booking.Status
	booking.Status = status
	if in.MeetingURL != nil {
		booking.MeetingURL = *in.MeetingURL
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		switch {
		case prev != domain.BookingCancelled && status == domain.BookingCancelled:
			if err := s.slots.Release(ctx, booking.SlotID); err != nil {
				return err
			}
		case prev == domain.BookingCancelled && status != domain.BookingCancelled:
			if err := s.slots.Reserve(ctx, booking.SlotID); err != nil {
				return err
			}
		}
		return s.bookings.Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, p domain.Principal, filter ports.BookingFilter) ([]*domain.Booking, error) {
	if scope := scopeFor(p, nil); scope != "" {
		filter.ClientID = scope
	}
	return s.bookings.List(ctx, filter)
}
