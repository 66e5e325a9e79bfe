package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/boat-rental-backend/internal/boat"
	"github.com/nekogravitycat/boat-rental-backend/internal/db"
	"github.com/nekogravitycat/boat-rental-backend/internal/user"
)

// CancellationWindow is the minimum time between a cancellation and the start date.
const CancellationWindow = 48 * time.Hour

type BoatReader interface {
	GetByID(ctx context.Context, id string) (*boat.Boat, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

func (a Actor) canAccess(b *Booking) bool {
	return a.IsAdmin || (a.UserID != "" && a.UserID == b.UserID)
}

type CreateRequest struct {
	BoatID     string
	UserID     string
	StartDate  time.Time
	EndDate    time.Time
	Guests     int
	TotalPrice *decimal.Decimal
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	CheckAvailability(ctx context.Context, boatID string, r DateRange) error
	Quote(ctx context.Context, boatID string, r DateRange) (*Quote, error)
	ChangeStatus(ctx context.Context, id string, status Status) (*Booking, error)
	Cancel(ctx context.Context, id string, actor Actor) (*Booking, error)
	Get(ctx context.Context, id string, actor Actor) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
}

type service struct {
	repo     Repository
	tx       db.TxManager
	boats    BoatReader
	users    UserReader
	checker  *AvailabilityChecker
	observer Observer
	now      func() time.Time
}

// NewService creates a booking Service. observer may be nil.
func NewService(repo Repository, tx db.TxManager, boats BoatReader, users UserReader, observer Observer) Service {
	if observer == nil {
		observer = NopObserver{}
	}
	return &service{
		repo:     repo,
		tx:       tx,
		boats:    boats,
		users:    users,
		checker:  NewAvailabilityChecker(repo, boats),
		observer: observer,
		now:      time.Now,
	}
}

func mapBoatError(err error) error {
	if errors.Is(err, boat.ErrNotFound) {
		return ErrBoatNotFound
	}
	return err
}

func mapUserError(err error) error {
	if errors.Is(err, user.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// Create records a PENDING booking. Overlaps with other bookings are allowed
// here and settled when an admin confirms.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if req.BoatID == "" || req.UserID == "" || req.StartDate.IsZero() || req.EndDate.IsZero() || req.TotalPrice == nil {
		return nil, ErrMissingFields
	}
	r, err := NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if req.Guests <= 0 {
		return nil, ErrInvalidGuests
	}

	b, err := s.boats.GetByID(ctx, req.BoatID)
	if err != nil {
		return nil, mapBoatError(err)
	}
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, mapUserError(err)
	}
	if !b.IsAvailable {
		return nil, ErrBoatNotListed
	}
	if req.Guests > b.Capacity {
		return nil, ErrGuestsExceedCapacity
	}

	if err := ValidateSubmittedTotal(b.DayRate, r, *req.TotalPrice); err != nil {
		s.observer.PriceRejected(b.ID)
		log.Printf("price rejected for boat %s by user %s: %v", b.ID, req.UserID, err)
		return nil, err
	}

	bk := &Booking{
		BoatID:     b.ID,
		BoatName:   b.Name,
		UserID:     req.UserID,
		StartDate:  r.Start,
		EndDate:    r.End,
		Guests:     req.Guests,
		TotalPrice: ComputeExpectedTotal(b.DayRate, r).Round(2),
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, bk); err != nil {
		return nil, err
	}

	s.observer.Created(bk)
	log.Printf("booking %s created for boat %s (%s) by user %s", bk.ID, bk.BoatID, r, bk.UserID)
	return bk, nil
}

// CheckAvailability returns nil when the boat is listed and no pending or
// confirmed booking shares a day with r.
func (s *service) CheckAvailability(ctx context.Context, boatID string, r DateRange) error {
	b, err := s.boats.GetByID(ctx, boatID)
	if err != nil {
		return mapBoatError(err)
	}
	if !b.IsAvailable {
		return ErrBoatNotListed
	}

	existing, err := s.checker.conflict(ctx, boatID, r, blockingStatuses, "")
	if err != nil {
		return err
	}
	if existing != nil {
		return &OverlapError{
			ConflictingBookingID: existing.ID,
			Requested:            r,
			Existing:             existing.Range(),
		}
	}
	return nil
}

func (s *service) Quote(ctx context.Context, boatID string, r DateRange) (*Quote, error) {
	b, err := s.boats.GetByID(ctx, boatID)
	if err != nil {
		return nil, mapBoatError(err)
	}
	q := ComputeQuote(b.DayRate, r)
	return &q, nil
}

// ChangeStatus sets the status of a booking. Confirming re-checks the boat's
// other confirmed bookings inside the same transaction as the write, with the
// boat row locked so concurrent confirmations of one boat run one at a time.
func (s *service) ChangeStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var (
		updated  *Booking
		previous Status
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		previous = current.Status
		if current.Status == status {
			updated = current
			return nil
		}

		if status == StatusConfirmed {
			if err := s.repo.LockBoat(ctx, current.BoatID); err != nil {
				return err
			}
			existing, err := s.repo.FindOverlap(ctx, current.BoatID, current.Range(), confirmedOnly, current.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return &OverlapError{
					BookingID:            current.ID,
					ConflictingBookingID: existing.ID,
					Requested:            current.Range(),
					Existing:             existing.Range(),
				}
			}
		}

		updated, err = s.repo.UpdateStatus(ctx, id, status)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.observer.ConfirmationConflict(id)
			log.Printf("confirmation of booking %s rejected: %v", id, err)
		}
		return nil, err
	}

	if previous != status {
		s.observer.StatusChanged(updated, previous)
		log.Printf("booking %s status changed from %s to %s", id, previous, status)
	}
	return updated, nil
}

// Cancel marks a booking CANCELLED on behalf of its renter or an admin.
// It is refused once the start date is less than CancellationWindow away.
// Cancelling a cancelled booking returns it unchanged.
func (s *service) Cancel(ctx context.Context, id string, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canAccess(b) {
		return nil, ErrPermissionDenied
	}
	if b.Status == StatusCancelled {
		return b, nil
	}

	if b.StartDate.Sub(s.now()) < CancellationWindow {
		s.observer.CancellationRefused(b.ID)
		return nil, ErrWindowClosed
	}

	updated, err := s.repo.UpdateStatus(ctx, id, StatusCancelled)
	if err != nil {
		return nil, err
	}

	s.observer.Cancelled(updated)
	log.Printf("booking %s cancelled by user %s", id, actor.UserID)
	return updated, nil
}

func (s *service) Get(ctx context.Context, id string, actor Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canAccess(b) {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}
