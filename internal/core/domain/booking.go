package domain

import (
	"fmt"
	"time"
)

type SlotLocation string

const (
	LocationOnline   SlotLocation = "ONLINE"
	LocationInPerson SlotLocation = "IN_PERSON"
)

func (l SlotLocation) Valid() bool {
	return l == LocationOnline || l == LocationInPerson
}

// AvailabilitySlot is a consultation window published by a staff member.
// Booked counts the non-cancelled bookings holding a seat.
type AvailabilitySlot struct {
	ID        string       `json:"id" bson:"_id"`
	StaffID   string       `json:"staff_id" bson:"staff_id"`
	Start     time.Time    `json:"start" bson:"start"`
	End       time.Time    `json:"end" bson:"end"`
	Location  SlotLocation `json:"location" bson:"location"`
	Capacity  int          `json:"capacity" bson:"capacity"`
	Booked    int          `json:"booked" bson:"booked"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

func ParseBookingStatus(raw string) (BookingStatus, error) {
	switch s := BookingStatus(raw); s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return s, nil
	}
	return "", NewValidationError("status", fmt.Sprintf("%q is not a valid choice.", raw))
}

type Booking struct {
	ID         string        `json:"id" bson:"_id"`
	ClientID   string        `json:"client_id" bson:"client_id"`
	StaffID    string        `json:"staff_id" bson:"staff_id"`
	SlotID     string        `json:"slot_id" bson:"slot_id"`
	Start      time.Time     `json:"start" bson:"start"`
	MeetingURL string        `json:"meeting_url" bson:"meeting_url"`
	Status     BookingStatus `json:"status" bson:"status"`
	Notes      string        `json:"notes" bson:"notes"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
}
