package booking

import (
	"context"
)

// blockingStatuses are the statuses that occupy a boat for availability checks.
var blockingStatuses = []Status{StatusPending, StatusConfirmed}

// confirmedOnly narrows the check to binding bookings, used when confirming.
var confirmedOnly = []Status{StatusConfirmed}

// OverlapFinder returns one booking of boatID in one of statuses whose range
// overlaps r, ignoring excludeID. It returns nil when there is none.
type OverlapFinder interface {
	FindOverlap(ctx context.Context, boatID string, r DateRange, statuses []Status, excludeID string) (*Booking, error)
}

// AvailabilityChecker answers whether a boat is free for a range of days.
// Availability is always derived from stored bookings, never cached.
type AvailabilityChecker struct {
	bookings OverlapFinder
	boats    BoatReader
}

func NewAvailabilityChecker(bookings OverlapFinder, boats BoatReader) *AvailabilityChecker {
	return &AvailabilityChecker{bookings: bookings, boats: boats}
}

// IsAvailable reports whether no pending or confirmed booking of the boat
// shares a day with r. excludeID may be empty.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, boatID string, r DateRange, excludeID string) (bool, error) {
	conflict, err := c.conflict(ctx, boatID, r, blockingStatuses, excludeID)
	if err != nil {
		return false, err
	}
	return conflict == nil, nil
}

func (c *AvailabilityChecker) conflict(ctx context.Context, boatID string, r DateRange, statuses []Status, excludeID string) (*Booking, error) {
	if _, err := c.boats.GetByID(ctx, boatID); err != nil {
		return nil, mapBoatError(err)
	}
	return c.bookings.FindOverlap(ctx, boatID, r, statuses, excludeID)
}

// Overlaps reports whether the inclusive ranges a and b share a day.
func Overlaps(a, b DateRange) bool {
	return a.Overlaps(b)
}
