package boat

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "boat not found")
	ErrNameTaken       = apperror.New(http.StatusConflict, "a boat with this name already exists")
	ErrHasBookings     = apperror.New(http.StatusConflict, "boat has bookings and cannot be deleted")
	ErrEmptyName       = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidDayRate  = apperror.New(http.StatusBadRequest, "day rate must be positive")
	ErrInvalidCapacity = apperror.New(http.StatusBadRequest, "capacity must be positive")
	ErrInvalidRating   = apperror.New(http.StatusBadRequest, "rating must be between 0 and 5")
)

var maxRating = decimal.NewFromInt(5)

// Boat is the rentable resource.
// IsAvailable is a manual listing switch, independent of bookings.
type Boat struct {
	ID          string
	Name        string
	Description string
	Location    string
	DayRate     decimal.Decimal
	Capacity    int
	IsAvailable bool
	Rating      decimal.Decimal
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing boats.
type Filter struct {
	Location    string
	Available   *bool
	MinCapacity int
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
