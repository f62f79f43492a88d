package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dvloznov/finsight/internal/ledger"
)

const dateParam = "2006-01-02"

// userID resolves the acting user from the X-User-ID header, falling back to
// the configured default for single-user deployments.
func userID(r *http.Request, fallback string) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return fallback
}

// parseRange reads optional from/to query parameters as YYYY-MM-DD dates.
// "from" starts at midnight UTC; "to" covers the whole named day.
func parseRange(r *http.Request) (*ledger.Range, error) {
	var rng ledger.Range

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(dateParam, v)
		if err != nil {
			return nil, fmt.Errorf("invalid from date %q", v)
		}
		rng.From = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(dateParam, v)
		if err != nil {
			return nil, fmt.Errorf("invalid to date %q", v)
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		rng.To = &end
	}
	if rng.From != nil && rng.To != nil && rng.From.After(*rng.To) {
		return nil, fmt.Errorf("from date is after to date")
	}
	return &rng, nil
}
