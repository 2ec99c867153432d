package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"conferenceportal/internal/delivery/http/helpers"
	"conferenceportal/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// QuoteRequest is the request body for POST /events/{eventID}/quote.
type QuoteRequest struct {
	GuestDinnerTicket bool   `json:"guest_dinner_ticket"`
	GuestBreakfast    bool   `json:"guest_breakfast"`
	ChildCount        int    `json:"child_count"`
	DiscountCode      string `json:"discount_code"`
}

// Validate implements Validator.
func (q QuoteRequest) Validate() []string {
	if q.ChildCount < 0 {
		return []string{"child_count must not be negative"}
	}
	return nil
}

// QuoteSuccessResponse is the success response envelope for POST /events/{eventID}/quote (200).
type QuoteSuccessResponse struct {
	Data  *domain.PriceQuote `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// Quote godoc
// @Summary Price a registration without saving it
// @Description Computes the current price breakdown for the selection. Discount codes are validated but never consumed.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body QuoteRequest true "Priced selection"
// @Success 200 {object} controllers.QuoteSuccessResponse "data contains the price breakdown"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/quote [post]
func (c *RegistrationController) Quote(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req QuoteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	q, err := c.Service.Quote(r.Context(), eventID, domain.Selection{
		GuestDinnerTicket: req.GuestDinnerTicket,
		GuestBreakfast:    req.GuestBreakfast,
		ChildCount:        req.ChildCount,
		DiscountCode:      req.DiscountCode,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, q)
}

// CreateRegistrationRequest is the request body for POST /events/{eventID}/registrations.
// user_id and total_price are honored for administrators only.
type CreateRegistrationRequest struct {
	UserID            string         `json:"user_id,omitempty"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	Email             string         `json:"email"`
	WednesdayActivity string         `json:"wednesday_activity"`
	GuestDinnerTicket bool           `json:"guest_dinner_ticket"`
	GuestBreakfast    bool           `json:"guest_breakfast"`
	Children          []domain.Child `json:"children"`
	DiscountCode      string         `json:"discount_code"`
	PaymentMethod     string         `json:"payment_method"`
	TotalPrice        *float64       `json:"total_price,omitempty"`
}

// Validate implements Validator.
func (c CreateRegistrationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(c.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if !emailRegex.MatchString(strings.TrimSpace(c.Email)) {
		errs = append(errs, "email is invalid")
	}
	errs = append(errs, validateChildren(c.Children)...)
	if c.TotalPrice != nil && *c.TotalPrice < 0 {
		errs = append(errs, "total_price must not be negative")
	}
	return errs
}

func validateChildren(children []domain.Child) []string {
	var errs []string
	for i, ch := range children {
		if strings.TrimSpace(ch.Name) == "" {
			errs = append(errs, fmt.Sprintf("children[%d].name is required", i))
		}
		if ch.Age < 0 {
			errs = append(errs, fmt.Sprintf("children[%d].age must not be negative", i))
		}
	}
	return errs
}

// RegistrationSuccessResponse is the success response envelope for single-registration routes.
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Create godoc
// @Summary Register for an event
// @Description Prices the selection, applies a valid discount code, and places the activity choice on the waitlist when its seats are taken. Administrators may register on behalf of user_id and override total_price.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body CreateRegistrationRequest true "Registration form"
// @Success 201 {object} controllers.RegistrationSuccessResponse "data contains the saved registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [post]
func (c *RegistrationController) Create(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req CreateRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.Create(r.Context(), actor, &domain.RegistrationInput{
		EventID:           eventID,
		UserID:            req.UserID,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		WednesdayActivity: req.WednesdayActivity,
		GuestDinnerTicket: req.GuestDinnerTicket,
		GuestBreakfast:    req.GuestBreakfast,
		Children:          req.Children,
		DiscountCode:      req.DiscountCode,
		PaymentMethod:     req.PaymentMethod,
		TotalPrice:        req.TotalPrice,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Get godoc
// @Summary Get a registration
// @Description Attendees may read only their own registrations.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID} [get]
func (c *RegistrationController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "registrationID")
	if !ok {
		return
	}
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.Get(r.Context(), actor, id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// UpdateRegistrationRequest is the request body for PATCH /registrations/{registrationID}.
// All fields optional; omitted fields are unchanged. total_price is honored for administrators only.
type UpdateRegistrationRequest struct {
	FirstName         *string         `json:"first_name"`
	LastName          *string         `json:"last_name"`
	Email             *string         `json:"email"`
	WednesdayActivity *string         `json:"wednesday_activity"`
	GuestDinnerTicket *bool           `json:"guest_dinner_ticket"`
	GuestBreakfast    *bool           `json:"guest_breakfast"`
	Children          *[]domain.Child `json:"children"`
	PaymentMethod     *string         `json:"payment_method"`
	Paid              *bool           `json:"paid"`
	TotalPrice        *float64        `json:"total_price"`
}

// Validate implements Validator.
func (u UpdateRegistrationRequest) Validate() []string {
	var errs []string
	if u.FirstName != nil && strings.TrimSpace(*u.FirstName) == "" {
		errs = append(errs, "first_name must not be empty")
	}
	if u.LastName != nil && strings.TrimSpace(*u.LastName) == "" {
		errs = append(errs, "last_name must not be empty")
	}
	if u.Email != nil && !emailRegex.MatchString(strings.TrimSpace(*u.Email)) {
		errs = append(errs, "email is invalid")
	}
	if u.Children != nil {
		errs = append(errs, validateChildren(*u.Children)...)
	}
	if u.TotalPrice != nil && *u.TotalPrice < 0 {
		errs = append(errs, "total_price must not be negative")
	}
	return errs
}

// Update godoc
// @Summary Edit a registration
// @Description Administrator price changes record a pending balance; attendees editing an unpaid registration are repriced, and paid registrations only accept non-price edits. paid=true from an attendee confirms the pending balance.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Param body body UpdateRegistrationRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (cancelled or paid)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID} [patch]
func (c *RegistrationController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "registrationID")
	if !ok {
		return
	}
	var req UpdateRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.Update(r.Context(), actor, id, &domain.RegistrationUpdate{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		WednesdayActivity: req.WednesdayActivity,
		GuestDinnerTicket: req.GuestDinnerTicket,
		GuestBreakfast:    req.GuestBreakfast,
		Children:          req.Children,
		PaymentMethod:     req.PaymentMethod,
		Paid:              req.Paid,
		TotalPrice:        req.TotalPrice,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Marks the registration cancelled and releases its activity seat. Cancelling twice returns the cancelled registration.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/cancel [post]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "registrationID")
	if !ok {
		return
	}
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.Cancel(r.Context(), actor, id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// Promote godoc
// @Summary Promote a registration from the activity waitlist
// @Description Re-checks the activity's seat limit and confirms the waitlisted choice. Administrator only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (full, cancelled, not waitlisted)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/{registrationID}/promote [post]
func (c *RegistrationController) Promote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "registrationID")
	if !ok {
		return
	}
	reg, err := c.Service.PromoteFromWaitlist(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// ListRegistrationsResponse is the data payload for GET /admin/events/{eventID}/registrations (200).
type ListRegistrationsResponse struct {
	Items      []*domain.Registration `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListRegistrationsSuccessResponse is the success response envelope for GET /admin/events/{eventID}/registrations (200).
type ListRegistrationsSuccessResponse struct {
	Data  ListRegistrationsResponse `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// ListByEvent godoc
// @Summary List an event's registrations
// @Description Paginated, oldest first. Includes cancelled registrations. Administrator only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListRegistrationsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/registrations [get]
func (c *RegistrationController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	list, total, err := c.Service.ListByEvent(r.Context(), eventID, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if list == nil {
		list = []*domain.Registration{}
	}
	meta := helpers.NewPaginationMeta(params, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListRegistrationsResponse{Items: list, Pagination: meta})
}
