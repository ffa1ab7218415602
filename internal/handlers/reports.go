package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"foxcarz-backend/internal/storage"
	"foxcarz-backend/pkg/utils"
)

// defaultReportWindow maps a period to how far back the report reaches when no
// explicit date range is given.
func defaultReportWindow(period string, now time.Time) time.Time {
	switch period {
	case "daily":
		return now.AddDate(0, 0, -1)
	case "monthly":
		return now.AddDate(0, -1, 0)
	case "yearly":
		return now.AddDate(-1, 0, 0)
	default: // weekly
		return now.AddDate(0, 0, -7)
	}
}

// bucketLabel formats a revenue bucket timestamp for the dashboard chart.
func bucketLabel(period string, ts int64) string {
	t := time.Unix(ts, 0).UTC()
	switch period {
	case "weekly":
		return "Week of " + t.Format("Jan 2")
	case "yearly":
		return t.Format("Jan 2006")
	default: // daily, monthly
		return t.Format("Jan 2")
	}
}

// money renders an amount the way the dashboard expects: a fixed two-decimal
// string.
func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Reports aggregates booking volume and revenue for the admin dashboard.
// Query parameters: period (daily, weekly, monthly, yearly; default weekly),
// optional startDate/endDate (YYYY-MM-DD) overriding the period's window.
func Reports(store storage.Store) http.HandlerFunc {
	type revenueRow struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("period")
		switch period {
		case "daily", "weekly", "monthly", "yearly":
		case "":
			period = "weekly"
		default:
			utils.RespondError(w, http.StatusBadRequest, "Invalid period")
			return
		}

		now := time.Now().UTC()
		start := defaultReportWindow(period, now)
		end := now

		if raw := r.URL.Query().Get("startDate"); raw != "" {
			parsed, err := parseBookingDate(raw)
			if err != nil {
				utils.RespondError(w, http.StatusBadRequest, "Invalid startDate")
				return
			}
			start = parsed
		}
		if raw := r.URL.Query().Get("endDate"); raw != "" {
			parsed, err := parseBookingDate(raw)
			if err != nil {
				utils.RespondError(w, http.StatusBadRequest, "Invalid endDate")
				return
			}
			// Inclusive of the whole end day.
			end = parsed.AddDate(0, 0, 1).Add(-time.Second)
		}

		count, total, err := store.BookingStats(start.Unix(), end.Unix())
		if err != nil {
			log.Printf("❌ Failed to compute booking stats: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error generating report")
			return
		}

		// Average over max(count, 1) so an empty window reports 0.00 instead
		// of NaN.
		divisor := count
		if divisor == 0 {
			divisor = 1
		}
		average := total / float64(divisor)

		points, err := store.RevenueSeries(period, start.Unix(), end.Unix())
		if err != nil {
			log.Printf("❌ Failed to compute revenue series: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error generating report")
			return
		}

		revenue := make([]revenueRow, 0, len(points))
		for _, p := range points {
			revenue = append(revenue, revenueRow{
				Name:   bucketLabel(period, p.Bucket),
				Amount: money(p.Amount),
			})
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"stats": map[string]interface{}{
				"totalBookings":       count,
				"totalRevenue":        money(total),
				"averageBookingValue": money(average),
			},
			"revenue": revenue,
		})
	}
}
