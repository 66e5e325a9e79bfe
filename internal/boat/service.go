package boat

import (
	"context"
	"log"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name        string
	Description string
	Location    string
	DayRate     decimal.Decimal
	Capacity    int
	IsAvailable bool
	Rating      decimal.Decimal
	OwnerID     string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Location    *string
	DayRate     *decimal.Decimal
	Capacity    *int
	IsAvailable *bool
	Rating      *decimal.Decimal
}

// MediaRemover deletes the media attached to a boat, rows and stored files.
type MediaRemover interface {
	DeleteByBoat(ctx context.Context, boatID string) error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Boat, error)
	GetByID(ctx context.Context, id string) (*Boat, error)
	List(ctx context.Context, filter Filter) ([]*Boat, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Boat, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	media MediaRemover
}

// NewService creates a boat Service. media may be nil when no media store is wired.
func NewService(repo Repository, media MediaRemover) Service {
	return &service{
		repo:  repo,
		media: media,
	}
}

func validateRating(r decimal.Decimal) error {
	if r.IsNegative() || r.GreaterThan(maxRating) {
		return ErrInvalidRating
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Boat, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !req.DayRate.IsPositive() {
		return nil, ErrInvalidDayRate
	}
	if req.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	b := &Boat{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		DayRate:     req.DayRate,
		Capacity:    req.Capacity,
		IsAvailable: req.IsAvailable,
		Rating:      req.Rating,
		OwnerID:     req.OwnerID,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	log.Printf("boat %s (%q) created by %s", b.ID, b.Name, b.OwnerID)
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Boat, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Boat, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Boat, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		b.Name = name
	}
	if req.Description != nil {
		b.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		b.Location = strings.TrimSpace(*req.Location)
	}
	if req.DayRate != nil {
		if !req.DayRate.IsPositive() {
			return nil, ErrInvalidDayRate
		}
		b.DayRate = *req.DayRate
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		b.Capacity = *req.Capacity
	}
	if req.IsAvailable != nil {
		b.IsAvailable = *req.IsAvailable
	}
	if req.Rating != nil {
		if err := validateRating(*req.Rating); err != nil {
			return nil, err
		}
		b.Rating = *req.Rating
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a boat and its media. Boats referenced by any booking,
// cancelled ones included, are kept so booking history stays intact.
func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	hasBookings, err := s.repo.HasBookings(ctx, id)
	if err != nil {
		return err
	}
	if hasBookings {
		return ErrHasBookings
	}

	if s.media != nil {
		if err := s.media.DeleteByBoat(ctx, id); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("boat %s deleted", id)
	return nil
}
