package http

import (
	"time"

	"github.com/shopspring/decimal"

	boatHttp "github.com/nekogravitycat/boat-rental-backend/internal/boat/http"
	"github.com/nekogravitycat/boat-rental-backend/internal/booking"
	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	BoatID string `form:"boat_id" binding:"omitempty,uuid"`
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	From   string `form:"from"`
	To     string `form:"to"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=start_date end_date created_at status total_price"`
}

// Dates parses the optional from/to bounds.
func (r *ListBookingsRequest) Dates() (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if r.From != "" {
		d, err := booking.ParseDate(r.From)
		if err != nil {
			return nil, nil, err
		}
		from = &d
	}
	if r.To != "" {
		d, err := booking.ParseDate(r.To)
		if err != nil {
			return nil, nil, err
		}
		to = &d
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, booking.ErrInvalidDateRange
	}
	return from, to, nil
}

type BookingResponse struct {
	ID         string           `json:"id"`
	Boat       boatHttp.BoatTag `json:"boat"`
	UserID     string           `json:"user_id"`
	StartDate  string           `json:"start_date"`
	EndDate    string           `json:"end_date"`
	Guests     int              `json:"guests"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Status     string           `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		Boat:       boatHttp.BoatTag{ID: b.BoatID, Name: b.BoatName},
		UserID:     b.UserID,
		StartDate:  b.StartDate.Format(booking.DateLayout),
		EndDate:    b.EndDate.Format(booking.DateLayout),
		Guests:     b.Guests,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

type CreateBookingRequest struct {
	BoatID     string           `json:"boat_id" binding:"required,uuid"`
	StartDate  string           `json:"start_date" binding:"required"`
	EndDate    string           `json:"end_date" binding:"required"`
	TotalPrice *decimal.Decimal `json:"total_price" binding:"required"`
	Guests     *int             `json:"guests" binding:"required"`
}

// DateRangeRequest is the shared shape of availability checks and quotes.
type DateRangeRequest struct {
	BoatID    string `json:"boat_id" form:"boat_id" binding:"required,uuid"`
	StartDate string `json:"start_date" form:"start_date" binding:"required"`
	EndDate   string `json:"end_date" form:"end_date" binding:"required"`
}

// Range parses and orders the requested days.
func (r *DateRangeRequest) Range() (booking.DateRange, error) {
	start, err := booking.ParseDate(r.StartDate)
	if err != nil {
		return booking.DateRange{}, err
	}
	end, err := booking.ParseDate(r.EndDate)
	if err != nil {
		return booking.DateRange{}, err
	}
	return booking.NewDateRange(start, end)
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type QuoteResponse struct {
	BoatID     string          `json:"boat_id"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	Days       int             `json:"days"`
	DayRate    decimal.Decimal `json:"day_rate"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	ServiceFee decimal.Decimal `json:"service_fee"`
	Total      decimal.Decimal `json:"total"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
