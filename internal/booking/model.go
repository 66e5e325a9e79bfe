package booking

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "booking not found")
	ErrBoatNotFound         = apperror.New(http.StatusNotFound, "boat not found")
	ErrUserNotFound         = apperror.New(http.StatusNotFound, "user not found")
	ErrInvalidDateRange     = apperror.New(http.StatusBadRequest, "end date must not be before start date")
	ErrMissingFields        = apperror.New(http.StatusBadRequest, "boat, renter, start date, end date and total price are required")
	ErrInvalidDate          = apperror.New(http.StatusBadRequest, "dates must be formatted as YYYY-MM-DD")
	ErrInvalidGuests        = apperror.New(http.StatusBadRequest, "guests must be a positive number")
	ErrGuestsExceedCapacity = apperror.New(http.StatusBadRequest, "guests exceed the boat capacity")
	ErrBoatNotListed        = apperror.New(http.StatusConflict, "boat is not available for booking")
	ErrPriceMismatch        = apperror.New(http.StatusBadRequest, "submitted total price does not match the expected price")
	ErrInvalidStatus        = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrPermissionDenied     = apperror.New(http.StatusForbidden, "permission denied")
	ErrConflict             = apperror.New(http.StatusConflict, "boat is already booked for the requested dates")
	ErrConcurrentUpdate     = apperror.New(http.StatusInternalServerError, "booking was modified concurrently, please retry")
	ErrWindowClosed         = apperror.New(http.StatusBadRequest, "bookings can only be cancelled at least 48 hours before the start date")
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus accepts the three known statuses in any letter case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// DateLayout is the wire format of booking dates.
const DateLayout = time.DateOnly

// ParseDate reads a YYYY-MM-DD date. RFC3339 timestamps are accepted
// and cut down to their UTC day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		// The calendar day in the sender's offset, not in UTC.
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, ErrInvalidDate
}

// TruncateDay returns midnight UTC of the day t falls on in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive range of whole days. Start == End is a single day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalises both ends to UTC days and rejects End before Start.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: TruncateDay(start), End: TruncateDay(end)}
	if r.End.Before(r.Start) {
		return DateRange{}, ErrInvalidDateRange
	}
	return r, nil
}

// Overlaps reports whether r and o share at least one day.
// Ranges touching on the same day overlap.
func (r DateRange) Overlaps(o DateRange) bool {
	return !o.Start.After(r.End) && !o.End.Before(r.Start)
}

// Days is the number of billable days: the whole days between Start and End,
// never less than one.
func (r DateRange) Days() int {
	days := int(math.Ceil(r.End.Sub(r.Start).Hours() / 24))
	return max(1, days)
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// Booking is a renter's request to occupy a boat for a date range.
type Booking struct {
	ID         string
	BoatID     string
	BoatName   string
	UserID     string
	StartDate  time.Time
	EndDate    time.Time
	Guests     int
	TotalPrice decimal.Decimal
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// OverlapError describes the existing booking that blocks a range.
type OverlapError struct {
	BookingID            string
	ConflictingBookingID string
	Requested            DateRange
	Existing             DateRange
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("range %s overlaps booking %s (%s)", e.Requested, e.ConflictingBookingID, e.Existing)
}

func (e *OverlapError) Unwrap() error {
	return ErrConflict
}

// PriceMismatchError carries the expected and submitted totals of a rejected booking.
type PriceMismatchError struct {
	Expected  decimal.Decimal
	Submitted decimal.Decimal
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("submitted total %s does not match expected total %s", e.Submitted.StringFixed(2), e.Expected.StringFixed(2))
}

func (e *PriceMismatchError) Unwrap() error {
	return ErrPriceMismatch
}

// Filter defines parameters for listing bookings.
type Filter struct {
	UserID    string
	BoatID    string
	Status    Status
	From      *time.Time // bookings ending on or after this day
	To        *time.Time // bookings starting on or before this day
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
