package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/boat-rental-backend/internal/auth"
	"github.com/nekogravitycat/boat-rental-backend/internal/booking"
	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func actorFrom(c *gin.Context) booking.Actor {
	return booking.Actor{
		UserID:  auth.GetUserID(c),
		IsAdmin: auth.IsSystemAdmin(c),
	}
}

// writeError adds the diagnostic fields of price and overlap errors,
// everything else goes through response.Error.
func writeError(c *gin.Context, err error) {
	var mismatch *booking.PriceMismatchError
	if errors.As(err, &mismatch) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           booking.ErrPriceMismatch.Message,
			"expected_total":  mismatch.Expected.StringFixed(2),
			"submitted_total": mismatch.Submitted.StringFixed(2),
		})
		return
	}

	var overlap *booking.OverlapError
	if errors.As(err, &overlap) {
		c.JSON(http.StatusConflict, gin.H{
			"error":                  booking.ErrConflict.Message,
			"conflicting_booking_id": overlap.ConflictingBookingID,
			"conflicting_start_date": overlap.Existing.Start.Format(booking.DateLayout),
			"conflicting_end_date":   overlap.Existing.End.Format(booking.DateLayout),
		})
		return
	}

	response.Error(c, err)
}

// List returns the caller's bookings. Admins see every booking and may filter by user.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	from, to, err := req.Dates()
	if err != nil {
		response.Error(c, err)
		return
	}

	actor := actorFrom(c)
	filterUserID := actor.UserID
	if actor.IsAdmin {
		filterUserID = req.UserID // can be empty to show all
	}

	filter := booking.Filter{
		UserID:    filterUserID,
		BoatID:    req.BoatID,
		Status:    booking.Status(req.Status),
		From:      from,
		To:        to,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: strings.ToUpper(req.SortOrder),
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.Get(c.Request.Context(), req.ID, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	start, err := booking.ParseDate(body.StartDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	end, err := booking.ParseDate(body.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		BoatID:     body.BoatID,
		UserID:     auth.GetUserID(c),
		StartDate:  start,
		EndDate:    end,
		Guests:     *body.Guests,
		TotalPrice: body.TotalPrice,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	var body DateRangeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	r, err := body.Range()
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.CheckAvailability(c.Request.Context(), body.BoatID, r); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{Available: true})
}

func (h *Handler) Quote(c *gin.Context) {
	var req DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	r, err := req.Range()
	if err != nil {
		response.Error(c, err)
		return
	}

	q, err := h.service.Quote(c.Request.Context(), req.BoatID, r)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		BoatID:     req.BoatID,
		StartDate:  r.Start.Format(booking.DateLayout),
		EndDate:    r.End.Format(booking.DateLayout),
		Days:       q.Days,
		DayRate:    q.DayRate,
		Subtotal:   q.Subtotal.Round(2),
		ServiceFee: q.ServiceFee.Round(2),
		Total:      q.Total.Round(2),
	})
}

// UpdateStatus changes a booking's status. Admin only.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	status, err := booking.ParseStatus(body.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.ChangeStatus(c.Request.Context(), uri.ID, status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Cancel is the renter's cancellation. The booking is kept with status cancelled.
func (h *Handler) Cancel(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), req.ID, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}
