package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type publishSlotRequest struct {
	Start    time.Time `json:"start"    validate:"required"`
	End      time.Time `json:"end"      validate:"required"`
	Location string    `json:"location" validate:"omitempty,oneof=ONLINE IN_PERSON"`
	Capacity int       `json:"capacity" validate:"gte=0"`
}

type createBookingRequest struct {
	SlotID string `json:"slot" validate:"required"`
	Notes  string `json:"notes"`
}

type updateBookingStatusRequest struct {
	Status     string  `json:"status"      validate:"required"`
	MeetingURL *string `json:"meeting_url" validate:"omitempty,url"`
}

// ListSlots handles GET /api/bookings/availability.
//
// @Summary      List availability slots
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        staff     query     string  false  "Staff id"
// @Param        location  query     string  false  "ONLINE or IN_PERSON"
// @Param        from      query     string  false  "RFC3339 lower bound on start"
// @Success      200       {array}   domain.AvailabilitySlot
// @Failure      400       {object}  map[string]any
// @Router       /api/bookings/availability [get]
func (h *BookingHandler) ListSlots(c echo.Context) error {
	filter := ports.SlotFilter{
		StaffID:  c.QueryParam("staff"),
		Location: c.QueryParam("location"),
	}
	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return domain.NewValidationError("from", "Datetime has wrong format. Use RFC3339.")
		}
		filter.From = from
	}

	slots, err := h.service.ListSlots(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slots)
}

// PublishSlot handles POST /api/bookings/availability.
//
// @Summary      Publish an availability slot
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      publishSlotRequest  true  "Slot"
// @Success      201   {object}  domain.AvailabilitySlot
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /api/bookings/availability [post]
func (h *BookingHandler) PublishSlot(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req publishSlotRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	slot, err := h.service.PublishSlot(c.Request().Context(), a, ports.PublishSlotInput{
		Start:    req.Start,
		End:      req.End,
		Location: req.Location,
		Capacity: req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, slot)
}

// List handles GET /api/bookings.
//
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Status filter"
// @Param        staff   query     string  false  "Staff id"
// @Param        client  query     string  false  "Client id (staff only)"
// @Success      200     {array}   domain.Booking
// @Router       /api/bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	bookings, err := h.service.ListBookings(c.Request().Context(), p, ports.BookingFilter{
		ClientID: c.QueryParam("client"),
		Status:   c.QueryParam("status"),
		StaffID:  c.QueryParam("staff"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookings)
}

// Create handles POST /api/bookings.
//
// @Summary      Book a slot
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Booking"
// @Success      201   {object}  domain.Booking
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /api/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req createBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	b, err := h.service.CreateBooking(c.Request().Context(), a, ports.CreateBookingInput{SlotID: req.SlotID, Notes: req.Notes})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

// UpdateStatus handles PATCH /api/bookings/:id/status.
//
// @Summary      Change a booking's status
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                      true  "Booking id"
// @Param        body  body      updateBookingStatusRequest  true  "New status"
// @Success      200   {object}  domain.Booking
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req updateBookingStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	b, err := h.service.UpdateBooking(c.Request().Context(), a, ports.UpdateBookingInput{
		BookingID:  c.Param("id"),
		Status:     req.Status,
		MeetingURL: req.MeetingURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}
