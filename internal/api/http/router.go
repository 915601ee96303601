package http

import (
	"net/http"

	"toolshare-reservation-backend/internal/security"
	"toolshare-reservation-backend/internal/service"

	"github.com/gorilla/mux"
)

// NewRouter wires the API routes. All reservation and notification routes
// sit behind bearer auth; health does not.
func NewRouter(
	reservations service.ReservationService,
	notifications service.NotificationService,
	tokenManager security.TokenManager,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(NewAuthMiddleware(tokenManager).Handler)

	rh := NewReservationHandler(reservations)
	api.HandleFunc("/reservations", rh.Create).Methods("POST")
	api.HandleFunc("/reservations", rh.List).Methods("GET")
	api.HandleFunc("/reservations/{id}", rh.Get).Methods("GET")
	api.HandleFunc("/reservations/{id}/actions", rh.Actions).Methods("GET")
	api.HandleFunc("/reservations/{id}/approve", rh.Approve).Methods("POST")
	api.HandleFunc("/reservations/{id}/decline", rh.Decline).Methods("POST")
	api.HandleFunc("/reservations/{id}/cancel", rh.Cancel).Methods("POST")
	api.HandleFunc("/reservations/{id}/pickup", rh.Pickup).Methods("POST")
	api.HandleFunc("/reservations/{id}/return", rh.Return).Methods("POST")
	api.HandleFunc("/tools/{id}/availability", rh.Availability).Methods("GET")

	nh := NewNotificationHandler(notifications)
	api.HandleFunc("/notifications", nh.List).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", nh.MarkAsRead).Methods("POST")

	return router
}
