package handling

import (
	"net/http"
	"strconv"

	"seeu_cafe_server/lib"
	"seeu_cafe_server/structs/tables"

	"github.com/go-chi/chi/v5"
)

const (
	defaultStatisticsDays = 7
	maxStatisticsDays     = 365
)

// ParseIdParam parses the {id} URL parameter into a bill identifier.
func ParseIdParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, lib.InvalidRequestf("invalid bill id %q", raw)
	}
	return id, nil
}

// ParseBillListOptions parses the optional status filter for bill listings.
func ParseBillListOptions(r *http.Request) (*tables.BillStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}

	status := tables.BillStatus(raw)
	switch status {
	case tables.BillStatusPending, tables.BillStatusPaid, tables.BillStatusCancelled:
		return &status, nil
	default:
		return nil, lib.InvalidRequestf("invalid bill status %q", raw).
			With("allowed", []tables.BillStatus{tables.BillStatusPending, tables.BillStatusPaid, tables.BillStatusCancelled})
	}
}

// ParseStatisticsOptions parses the trailing-window size in days, clamped
// by validation rather than silently: out-of-range input is an error.
func ParseStatisticsOptions(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return defaultStatisticsDays, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > maxStatisticsDays {
		return 0, lib.InvalidRequestf("days must be between 1 and %d", maxStatisticsDays).
			With("days", raw)
	}

	return days, nil
}
