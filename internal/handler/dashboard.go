package handler

import (
	"net/http"
	"time"

	"github.com/skusdev/profile/internal/roster"
)

// DashboardHandler serves the derived dashboard metrics.
type DashboardHandler struct {
	store *roster.Store
	now   func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler. now is the reference
// clock; pass time.Now in production.
func NewDashboardHandler(store *roster.Store, now func() time.Time) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{store: store, now: now}
}

// HandleDashboard recomputes the full metric battery from the current
// collection and returns it. Nothing is cached between requests.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	summary := roster.ComputeSummary(h.store.All(), h.now())
	writeJSON(w, http.StatusOK, summary)
}
