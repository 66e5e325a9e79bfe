package http

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/boat-rental-backend/internal/boat"
	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/request"
)

// ListBoatsRequest defines query parameters for listing boats.
type ListBoatsRequest struct {
	request.ListParams
	Location    string `form:"location"`
	Available   *bool  `form:"available"`
	MinCapacity int    `form:"min_capacity" binding:"omitempty,min=1"`
	SortBy      string `form:"sort_by" binding:"omitempty,oneof=name day_rate capacity rating created_at"`
}

type BoatResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	DayRate     decimal.Decimal `json:"day_rate"`
	Capacity    int             `json:"capacity"`
	IsAvailable bool            `json:"is_available"`
	Rating      decimal.Decimal `json:"rating"`
	OwnerID     string          `json:"owner_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BoatTag is a brief representation of a boat embedded in other responses.
type BoatTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewBoatResponse(b *boat.Boat) BoatResponse {
	return BoatResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Location:    b.Location,
		DayRate:     b.DayRate,
		Capacity:    b.Capacity,
		IsAvailable: b.IsAvailable,
		Rating:      b.Rating,
		OwnerID:     b.OwnerID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type CreateBoatRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Location    string           `json:"location" binding:"required"`
	DayRate     *decimal.Decimal `json:"day_rate" binding:"required"`
	Capacity    int              `json:"capacity" binding:"required,min=1"`
	IsAvailable *bool            `json:"is_available"`
	Rating      *decimal.Decimal `json:"rating"`
}

// Validate performs custom validation for CreateBoatRequest.
func (r *CreateBoatRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return boat.ErrEmptyName
	}
	if !r.DayRate.IsPositive() {
		return boat.ErrInvalidDayRate
	}
	return nil
}

type UpdateBoatRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Location    *string          `json:"location"`
	DayRate     *decimal.Decimal `json:"day_rate"`
	Capacity    *int             `json:"capacity" binding:"omitempty,min=1"`
	IsAvailable *bool            `json:"is_available"`
	Rating      *decimal.Decimal `json:"rating"`
}

// Validate performs custom validation for UpdateBoatRequest.
func (r *UpdateBoatRequest) Validate() error {
	if r.DayRate != nil && !r.DayRate.IsPositive() {
		return boat.ErrInvalidDayRate
	}
	return nil
}
