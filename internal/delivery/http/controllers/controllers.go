// Package controllers holds the HTTP handlers for attendee and administrator routes.
// Handlers decode and validate the request, call a domain service, and write the
// standard {data, error} envelope.
package controllers

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"conferenceportal/internal/delivery/http/helpers"
	"conferenceportal/internal/delivery/http/middleware"
	"conferenceportal/internal/domain"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// pathUUID reads a UUID path parameter, writing a 400 when it is missing or malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	if _, err := uuid.Parse(v); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return v, true
}

// requireActor returns the authenticated caller, writing a 401 when there is none.
func requireActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return actor, ok
}
