package ports

import (
	"context"
	"time"

	"github.com/raylene/casework/internal/core/domain"
)

type SlotFilter struct {
	StaffID  string
	Location string
	From     time.Time
}

type BookingFilter struct {
	ClientID string // visibility scope
	Status   string
	StaffID  string
}

type SlotRepository interface {
	Create(ctx context.Context, s *domain.AvailabilitySlot) error
	FindByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error)
	List(ctx context.Context, filter SlotFilter) ([]*domain.AvailabilitySlot, error)
	// Reserve takes one seat, failing with domain.ErrSlotFull when booked == capacity.
	Reserve(ctx context.Context, slotID string) error
	// Release gives a seat back.
	Release(ctx context.Context, slotID string) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id, clientID string) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, error)
}

type PublishSlotInput struct {
	Start    time.Time
	End      time.Time
	Location string
	Capacity int
}

type CreateBookingInput struct {
	SlotID string
	Notes  string
}

type UpdateBookingInput struct {
	BookingID  string
	Status     string
	MeetingURL *string
}

type BookingService interface {
	PublishSlot(ctx context.Context, actor domain.Actor, in PublishSlotInput) (*domain.AvailabilitySlot, error)
	ListSlots(ctx context.Context, filter SlotFilter) ([]*domain.AvailabilitySlot, error)
	CreateBooking(ctx context.Context, actor domain.Actor, in CreateBookingInput) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, actor domain.Actor, in UpdateBookingInput) (*domain.Booking, error)
	ListBookings(ctx context.Context, p domain.Principal, filter BookingFilter) ([]*domain.Booking, error)
}
