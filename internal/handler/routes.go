package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, members *MemberHandler, dashboard *DashboardHandler) {
	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/members/", members.HandleList)
	mux.HandleFunc("POST /api/members/", members.HandleCreate)
	mux.HandleFunc("GET /api/members/view", members.HandleView)
	mux.HandleFunc("GET /api/members/export", members.HandleExport)
	mux.HandleFunc("POST /api/members/bulk-delete", members.HandleBulkDelete)
	mux.HandleFunc("GET /api/members/{id}", members.HandleGet)
	mux.HandleFunc("PUT /api/members/{id}", members.HandleUpdate)
	mux.HandleFunc("DELETE /api/members/{id}", members.HandleDelete)
	mux.HandleFunc("POST /api/members/{id}/tags", members.HandleAddTag)
	mux.HandleFunc("DELETE /api/members/{id}/tags", members.HandleRemoveTag)

	mux.HandleFunc("GET /api/dashboard", dashboard.HandleDashboard)
}
