package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conferenceportal/internal/delivery/http/controllers"
	"conferenceportal/internal/delivery/http/middleware"
)

// RouterDeps holds the controllers and middleware the router needs.
type RouterDeps struct {
	Events        *controllers.EventController
	Registrations *controllers.RegistrationController
	RequireAuth   func(http.HandlerFunc) http.HandlerFunc
	// Limiter throttles quote and registration submissions. Nil disables throttling.
	Limiter *middleware.RateLimiter
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()
	auth := d.RequireAuth
	admin := func(h http.HandlerFunc) http.HandlerFunc { return auth(middleware.RequireAdmin(h)) }

	// Attendee
	mux.HandleFunc("GET /events/{eventID}", auth(d.Events.GetEvent))
	mux.HandleFunc("POST /events/{eventID}/quote", d.Limiter.Limit(auth(d.Registrations.Quote)))
	mux.HandleFunc("POST /events/{eventID}/registrations", d.Limiter.Limit(auth(d.Registrations.Create)))
	mux.HandleFunc("GET /registrations/{registrationID}", auth(d.Registrations.Get))
	mux.HandleFunc("PATCH /registrations/{registrationID}", auth(d.Registrations.Update))
	mux.HandleFunc("POST /registrations/{registrationID}/cancel", auth(d.Registrations.Cancel))

	// Admin
	mux.HandleFunc("POST /admin/events", admin(d.Events.CreateEvent))
	mux.HandleFunc("GET /admin/events", admin(d.Events.ListEvents))
	mux.HandleFunc("PUT /admin/events/{eventID}", admin(d.Events.UpdateEvent))
	mux.HandleFunc("GET /admin/events/{eventID}/registrations", admin(d.Registrations.ListByEvent))
	mux.HandleFunc("GET /admin/events/{eventID}/occupancy", admin(d.Events.ActivityOccupancy))
	mux.HandleFunc("POST /admin/events/{eventID}/discount-codes", admin(d.Events.CreateDiscountCode))
	mux.HandleFunc("GET /admin/events/{eventID}/discount-codes", admin(d.Events.ListDiscountCodes))
	mux.HandleFunc("POST /admin/registrations/{registrationID}/promote", admin(d.Registrations.Promote))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
