package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/boat-rental-backend/internal/auth"
	"github.com/nekogravitycat/boat-rental-backend/internal/boat"
	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/response"
)

type Handler struct {
	service boat.Service
}

func NewHandler(service boat.Service) *Handler {
	return &Handler{service: service}
}

// List is public: anyone can browse the fleet.
func (h *Handler) List(c *gin.Context) {
	var req ListBoatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := boat.Filter{
		Location:    req.Location,
		Available:   req.Available,
		MinCapacity: req.MinCapacity,
		Page:        req.Page,
		PageSize:    req.PageSize,
		SortBy:      req.SortBy,
		SortOrder:   strings.ToUpper(req.SortOrder),
	}

	boats, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BoatResponse, len(boats))
	for i, b := range boats {
		items[i] = NewBoatResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBoatResponse(b))
}

// Create is admin only; the acting admin becomes the boat's owner.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBoatRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	req := boat.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		Location:    body.Location,
		DayRate:     *body.DayRate,
		Capacity:    body.Capacity,
		IsAvailable: true,
		Rating:      decimal.Zero,
		OwnerID:     auth.GetUserID(c),
	}
	if body.IsAvailable != nil {
		req.IsAvailable = *body.IsAvailable
	}
	if body.Rating != nil {
		req.Rating = *body.Rating
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBoatResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateBoatRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Update(c.Request.Context(), uri.ID, boat.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Location:    body.Location,
		DayRate:     body.DayRate,
		Capacity:    body.Capacity,
		IsAvailable: body.IsAvailable,
		Rating:      body.Rating,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBoatResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
