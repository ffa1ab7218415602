package handlers

import (
	"net/http"
	"testing"
)

type reportResponse struct {
	Stats struct {
		TotalBookings       int    `json:"totalBookings"`
		TotalRevenue        string `json:"totalRevenue"`
		AverageBookingValue string `json:"averageBookingValue"`
	} `json:"stats"`
	Revenue []struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	} `json:"revenue"`
}

func TestReportsEmptyWindow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	rec := env.do(t, http.MethodGet, "/api/admin/reports?period=weekly", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}

	var report reportResponse
	decode(t, rec, &report)
	if report.Stats.TotalBookings != 0 {
		t.Fatalf("bookings: got %d", report.Stats.TotalBookings)
	}
	// No bookings must not produce NaN; the average reads 0.00.
	if report.Stats.AverageBookingValue != "0.00" {
		t.Fatalf("average: got %q, want 0.00", report.Stats.AverageBookingValue)
	}
	if report.Stats.TotalRevenue != "0.00" {
		t.Fatalf("revenue: got %q, want 0.00", report.Stats.TotalRevenue)
	}
	if len(report.Revenue) != 0 {
		t.Fatalf("expected empty series, got %d points", len(report.Revenue))
	}
}

func TestReportsAggregateBookings(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	// Two one-day Baleno bookings at 1588 each, created now.
	today := "2026-09-10"
	tomorrow := "2026-09-11"
	createBooking(t, env, today, tomorrow)
	createBooking(t, env, today, tomorrow)

	rec := env.do(t, http.MethodGet, "/api/admin/reports?period=weekly", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}

	var report reportResponse
	decode(t, rec, &report)
	if report.Stats.TotalBookings != 2 {
		t.Fatalf("bookings: got %d, want 2", report.Stats.TotalBookings)
	}
	if report.Stats.TotalRevenue != "3176.00" {
		t.Fatalf("revenue: got %q, want 3176.00", report.Stats.TotalRevenue)
	}
	if report.Stats.AverageBookingValue != "1588.00" {
		t.Fatalf("average: got %q, want 1588.00", report.Stats.AverageBookingValue)
	}
	if len(report.Revenue) != 1 {
		t.Fatalf("expected 1 revenue bucket, got %d", len(report.Revenue))
	}
	if report.Revenue[0].Amount != "3176.00" {
		t.Fatalf("bucket amount: got %q", report.Revenue[0].Amount)
	}
}

func TestReportsTopLevelRoute(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	rec := env.do(t, http.MethodGet, "/api/reports?period=weekly", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}

	// Still admin-only despite living outside /admin.
	rec = env.do(t, http.MethodGet, "/api/reports?period=weekly", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated: got %d, want 401", rec.Code)
	}
}

func TestReportsRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	rec := env.do(t, http.MethodGet, "/api/admin/reports?period=hourly", admin, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad period: got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/admin/reports?startDate=not-a-date", admin, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad startDate: got %d", rec.Code)
	}
}

func TestAdminUserListIncludesStats(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)
	userID, token := env.signupAndSignin(t, "Ravi", "ravi@example.com", "secret1")

	// A linked booking, paid.
	vehicle := env.seededVehicle(t, "Maruti Baleno")
	location := env.seededLocation(t)
	rec := env.do(t, http.MethodPost, "/api/bookings", token,
		bookingBody(vehicle.ID, location.ID, "2026-09-10", "2026-09-11"))
	if rec.Code != http.StatusOK {
		t.Fatalf("booking: got %d", rec.Code)
	}
	var booking struct {
		ID string `json:"bookingId"`
	}
	decode(t, rec, &booking)
	if rec := env.do(t, http.MethodPost, "/api/bookings/"+booking.ID+"/payment", "",
		map[string]string{"amount": "100"}); rec.Code != http.StatusOK {
		t.Fatalf("payment: got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/admin/users/"+userID, admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Statistics struct {
			BookingCount int     `json:"booking_count"`
			TotalSpent   float64 `json:"total_spent"`
		} `json:"statistics"`
		Bookings []struct {
			ID string `json:"id"`
		} `json:"bookings"`
	}
	decode(t, rec, &resp)
	if resp.Statistics.BookingCount != 1 {
		t.Fatalf("booking count: got %d", resp.Statistics.BookingCount)
	}
	if resp.Statistics.TotalSpent != 1588 {
		t.Fatalf("total spent: got %v", resp.Statistics.TotalSpent)
	}
	if len(resp.Bookings) != 1 || resp.Bookings[0].ID != booking.ID {
		t.Fatalf("booking history: %+v", resp.Bookings)
	}
}
