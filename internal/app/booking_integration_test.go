//go:build integration

package app_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boatHttp "github.com/nekogravitycat/boat-rental-backend/internal/boat/http"
	bookingHttp "github.com/nekogravitycat/boat-rental-backend/internal/booking/http"
	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/response"
)

// daysFromNow formats the UTC day n days away.
func daysFromNow(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format(time.DateOnly)
}

func createBoat(t *testing.T, token, name string, dayRate string, capacity int) boatHttp.BoatResponse {
	t.Helper()
	w := executeRequest("POST", "/v1/boats", map[string]any{
		"name":        name,
		"location":    "Marina Norte",
		"day_rate":    dayRate,
		"capacity":    capacity,
		"rating":      "4.2",
		"description": "test boat",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[boatHttp.BoatResponse](t, w)
}

func createBooking(t *testing.T, token, boatID, start, end, total string, guests int) bookingHttp.BookingResponse {
	t.Helper()
	w := executeRequest("POST", "/v1/bookings", map[string]any{
		"boat_id":     boatID,
		"start_date":  start,
		"end_date":    end,
		"total_price": total,
		"guests":      guests,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[bookingHttp.BookingResponse](t, w)
}

func TestBoatAdministration(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "admin@marina.test", "anchors-away", true)
	renter := createTestUser(t, "renter@marina.test", "anchors-away", false)
	adminToken := generateToken(t, admin.ID)
	renterToken := generateToken(t, renter.ID)

	boat := createBoat(t, adminToken, "Sea Breeze", "100.00", 6)
	assert.Equal(t, admin.ID, boat.OwnerID)
	assert.True(t, boat.IsAvailable)

	t.Run("Create Boat: Forbidden (Renter)", func(t *testing.T) {
		w := executeRequest("POST", "/v1/boats", map[string]any{
			"name": "Pirate", "location": "x", "day_rate": "10", "capacity": 2,
		}, renterToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Create Boat: Duplicate Name", func(t *testing.T) {
		w := executeRequest("POST", "/v1/boats", map[string]any{
			"name": "Sea Breeze", "location": "x", "day_rate": "10", "capacity": 2,
		}, adminToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Create Boat: Non-positive Day Rate", func(t *testing.T) {
		w := executeRequest("POST", "/v1/boats", map[string]any{
			"name": "Free Ride", "location": "x", "day_rate": "0", "capacity": 2,
		}, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("List Boats: Public", func(t *testing.T) {
		w := executeRequest("GET", "/v1/boats?min_capacity=4", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		page := decode[response.PageResponse[boatHttp.BoatResponse]](t, w)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Sea Breeze", page.Items[0].Name)
	})

	t.Run("Update Boat: Delist", func(t *testing.T) {
		w := executeRequest("PATCH", "/v1/boats/"+boat.ID, map[string]any{"is_available": false}, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.False(t, decode[boatHttp.BoatResponse](t, w).IsAvailable)

		w = executeRequest("POST", "/v1/bookings", map[string]any{
			"boat_id": boat.ID, "start_date": daysFromNow(10), "end_date": daysFromNow(11),
			"total_price": "110", "guests": 2,
		}, renterToken)
		assert.Equal(t, http.StatusConflict, w.Code, "delisted boats take no bookings")
	})

	t.Run("Delete Boat: Without Bookings", func(t *testing.T) {
		other := createBoat(t, adminToken, "Short Lived", "50", 2)
		w := executeRequest("DELETE", "/v1/boats/"+other.ID, nil, adminToken)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = executeRequest("GET", "/v1/boats/"+other.ID, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBookingLifecycle(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "admin@marina.test", "anchors-away", true)
	renter := createTestUser(t, "renter@marina.test", "anchors-away", false)
	other := createTestUser(t, "other@marina.test", "anchors-away", false)
	adminToken := generateToken(t, admin.ID)
	renterToken := generateToken(t, renter.ID)
	otherToken := generateToken(t, other.ID)

	boat := createBoat(t, adminToken, "Blue Marlin", "100", 6)

	start, end := daysFromNow(30), daysFromNow(33)
	first := createBooking(t, renterToken, boat.ID, start, end, "330.40", 4)
	assert.Equal(t, "pending", first.Status)
	assert.Equal(t, "330.00", first.TotalPrice.StringFixed(2))
	assert.Equal(t, start, first.StartDate)
	assert.Equal(t, "Blue Marlin", first.Boat.Name)

	t.Run("Create Booking: Price Mismatch", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings", map[string]any{
			"boat_id": boat.ID, "start_date": start, "end_date": end, "total_price": "332", "guests": 2,
		}, renterToken)
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[map[string]any](t, w)
		assert.Equal(t, "330.00", body["expected_total"])
		assert.Equal(t, "332.00", body["submitted_total"])
	})

	t.Run("Create Booking: Validation", func(t *testing.T) {
		cases := []map[string]any{
			{"boat_id": boat.ID, "start_date": end, "end_date": start, "total_price": "330", "guests": 2},
			{"boat_id": boat.ID, "start_date": start, "end_date": end, "total_price": "330", "guests": 0},
			{"boat_id": boat.ID, "start_date": start, "end_date": end, "total_price": "330", "guests": 7},
			{"boat_id": boat.ID, "start_date": "next tuesday", "end_date": end, "total_price": "330", "guests": 2},
			{"boat_id": boat.ID, "start_date": start, "end_date": end, "guests": 2},
		}
		for i, body := range cases {
			w := executeRequest("POST", "/v1/bookings", body, renterToken)
			assert.Equal(t, http.StatusBadRequest, w.Code, "case %d: %s", i, w.Body.String())
		}
	})

	t.Run("Create Booking: Unauthenticated", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings", map[string]any{}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Check Availability", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings/check-availability", map[string]any{
			"boat_id": boat.ID, "start_date": end, "end_date": daysFromNow(40),
		}, otherToken)
		require.Equal(t, http.StatusConflict, w.Code, "touching the last day conflicts")
		assert.Equal(t, first.ID, decode[map[string]any](t, w)["conflicting_booking_id"])

		w = executeRequest("POST", "/v1/bookings/check-availability", map[string]any{
			"boat_id": boat.ID, "start_date": daysFromNow(34), "end_date": daysFromNow(40),
		}, otherToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"available":true}`, w.Body.String())
	})

	t.Run("Quote", func(t *testing.T) {
		w := executeRequest("GET", fmt.Sprintf("/v1/bookings/quote?boat_id=%s&start_date=%s&end_date=%s", boat.ID, start, end), nil, otherToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		q := decode[bookingHttp.QuoteResponse](t, w)
		assert.Equal(t, 3, q.Days)
		assert.True(t, q.Total.Equal(decimal.NewFromInt(330)))
	})

	// A second renter may request overlapping days; staff arbitrate on confirmation.
	second := createBooking(t, otherToken, boat.ID, end, daysFromNow(35), "220", 2)

	t.Run("Update Status: Forbidden (Renter)", func(t *testing.T) {
		w := executeRequest("PATCH", "/v1/bookings/"+first.ID, map[string]any{"status": "confirmed"}, renterToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Update Status: Invalid Status", func(t *testing.T) {
		w := executeRequest("PATCH", "/v1/bookings/"+first.ID, map[string]any{"status": "CONFIRMADO"}, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Confirm: First Wins, Touching Second Conflicts", func(t *testing.T) {
		w := executeRequest("PATCH", "/v1/bookings/"+first.ID, map[string]any{"status": "CONFIRMED"}, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "confirmed", decode[bookingHttp.BookingResponse](t, w).Status)

		w = executeRequest("PATCH", "/v1/bookings/"+second.ID, map[string]any{"status": "confirmed"}, adminToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		assert.Equal(t, first.ID, decode[map[string]any](t, w)["conflicting_booking_id"])

		w = executeRequest("GET", "/v1/bookings/"+second.ID, nil, otherToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pending", decode[bookingHttp.BookingResponse](t, w).Status)
	})

	t.Run("Visibility", func(t *testing.T) {
		w := executeRequest("GET", "/v1/bookings/"+first.ID, nil, otherToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = executeRequest("GET", "/v1/bookings", nil, renterToken)
		require.Equal(t, http.StatusOK, w.Code)
		page := decode[response.PageResponse[bookingHttp.BookingResponse]](t, w)
		require.Len(t, page.Items, 1)
		assert.Equal(t, first.ID, page.Items[0].ID)

		w = executeRequest("GET", "/v1/bookings?boat_id="+boat.ID, nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, decode[response.PageResponse[bookingHttp.BookingResponse]](t, w).Total)
	})

	t.Run("Cancel: Stranger Forbidden", func(t *testing.T) {
		w := executeRequest("DELETE", "/v1/bookings/"+first.ID, nil, otherToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Cancel Frees The Slot", func(t *testing.T) {
		w := executeRequest("DELETE", "/v1/bookings/"+first.ID, nil, renterToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "cancelled", decode[bookingHttp.BookingResponse](t, w).Status)

		w = executeRequest("PATCH", "/v1/bookings/"+second.ID, map[string]any{"status": "confirmed"}, adminToken)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("Delete Boat: Refused With Bookings", func(t *testing.T) {
		w := executeRequest("DELETE", "/v1/boats/"+boat.ID, nil, adminToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Metrics", func(t *testing.T) {
		w := executeRequest("GET", "/metrics", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), "boat_rental_booking_confirmation_conflicts_total"))
	})
}

func TestCancellationWindow(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "admin@marina.test", "anchors-away", true)
	renter := createTestUser(t, "renter@marina.test", "anchors-away", false)
	adminToken := generateToken(t, admin.ID)
	renterToken := generateToken(t, renter.ID)

	boat := createBoat(t, adminToken, "Last Minute", "100", 4)

	// Tomorrow is always less than 48 hours away.
	soon := createBooking(t, renterToken, boat.ID, daysFromNow(1), daysFromNow(1), "110", 1)
	w := executeRequest("DELETE", "/v1/bookings/"+soon.ID, nil, renterToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "48 hours")

	// Admins still cancel late bookings through the status change.
	w = executeRequest("PATCH", "/v1/bookings/"+soon.ID, map[string]any{"status": "cancelled"}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode[bookingHttp.BookingResponse](t, w).Status)
}

func TestConcurrentConfirmations(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "admin@marina.test", "anchors-away", true)
	adminToken := generateToken(t, admin.ID)
	boat := createBoat(t, adminToken, "Contested", "100", 8)

	const contenders = 8
	ids := make([]string, contenders)
	for i := range ids {
		renter := createTestUser(t, fmt.Sprintf("renter%d@marina.test", i), "anchors-away", false)
		// Every range shares day 20 with every other range.
		before, after := i%3, i%2
		days := max(1, before+after)
		total := decimal.NewFromInt(int64(110 * days)).String()
		b := createBooking(t, generateToken(t, renter.ID), boat.ID, daysFromNow(20-before), daysFromNow(20+after), total, 1)
		ids[i] = b.ID
	}

	var wg sync.WaitGroup
	codes := make([]int, contenders)
	startLine := make(chan struct{})
	for i, id := range ids {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-startLine
			w := executeRequest("PATCH", "/v1/bookings/"+id, map[string]any{"status": "confirmed"}, adminToken)
			codes[i] = w.Code
		}()
	}
	close(startLine)
	wg.Wait()

	ok, conflict := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		}
	}
	assert.Equal(t, 1, ok, "codes: %v", codes)
	assert.Equal(t, contenders-1, conflict, "codes: %v", codes)

	var confirmed int
	require.NoError(t, testPool.QueryRow(context.Background(),
		"SELECT count(*) FROM public.bookings WHERE boat_id = $1 AND status = 'confirmed'", boat.ID).Scan(&confirmed))
	assert.Equal(t, 1, confirmed)
}
