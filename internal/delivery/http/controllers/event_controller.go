package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"conferenceportal/internal/delivery/http/helpers"
	"conferenceportal/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// EventRequest is the request body for POST /admin/events and PUT /admin/events/{eventID}.
// Tier and activity lists are stored in the given order; the first matching tier wins.
type EventRequest struct {
	Name                string             `json:"name"`
	Year                int                `json:"year"`
	DefaultPrice        float64            `json:"default_price"`
	RegistrationTiers   []domain.PriceTier `json:"registration_tiers"`
	GuestTiers          []domain.PriceTier `json:"guest_tiers"`
	ChildTiers          []domain.PriceTier `json:"child_tiers"`
	BreakfastPrice      float64            `json:"breakfast_price"`
	BreakfastCutoffDate string             `json:"breakfast_cutoff_date"`
	Activities          []domain.Activity  `json:"activities"`
}

// Validate implements Validator.
func (e EventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, "name is required")
	}
	if e.Year < 1 {
		errs = append(errs, "year is required")
	}
	if e.DefaultPrice < 0 {
		errs = append(errs, "default_price must not be negative")
	}
	if e.BreakfastPrice < 0 {
		errs = append(errs, "breakfast_price must not be negative")
	}
	return errs
}

func (e EventRequest) toEvent(id string) *domain.Event {
	now := time.Now().UTC()
	event := domain.NewEvent(strings.TrimSpace(e.Name), e.Year, e.DefaultPrice, now, now)
	event.ID = id
	event.BreakfastPrice = e.BreakfastPrice
	event.BreakfastCutoffDate = e.BreakfastCutoffDate
	if e.RegistrationTiers != nil {
		event.RegistrationTiers = e.RegistrationTiers
	}
	if e.GuestTiers != nil {
		event.GuestTiers = e.GuestTiers
	}
	if e.ChildTiers != nil {
		event.ChildTiers = e.ChildTiers
	}
	if e.Activities != nil {
		event.Activities = e.Activities
	}
	return event
}

// EventSuccessResponse is the success response envelope for single-event routes.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates a conference with its price tiers, breakfast pricing, and activities. Administrator only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event and price schedule"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := req.toEvent("")
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Replace an event's details and price schedule
// @Description Existing registrations keep their stored totals. Administrator only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body EventRequest true "Event and price schedule"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), req.toEvent(eventID))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListEventsSuccessResponse is the success response envelope for GET /admin/events (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEvents godoc
// @Summary List events
// @Description Newest year first. Administrator only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event
// @Description Returns the event with its price tiers and activities.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// OccupancySuccessResponse is the success response envelope for GET /admin/events/{eventID}/occupancy (200).
type OccupancySuccessResponse struct {
	Data  []*domain.ActivityOccupancy `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

// ActivityOccupancy godoc
// @Summary Activity seat usage
// @Description Confirmed seats per activity, in the event's activity order. Waitlisted and cancelled registrations are not counted. Administrator only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.OccupancySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/occupancy [get]
func (c *EventController) ActivityOccupancy(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	occ, err := c.Service.ActivityOccupancy(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, occ)
}

// DiscountCodeRequest is the request body for POST /admin/events/{eventID}/discount-codes.
type DiscountCodeRequest struct {
	Code          string     `json:"code"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue float64    `json:"discount_value"`
	ExpiresAt     *time.Time `json:"expires_at"`
	UsageLimit    *int       `json:"usage_limit"`
}

// Validate implements Validator.
func (d DiscountCodeRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(d.Code) == "" {
		errs = append(errs, "code is required")
	}
	if d.DiscountType != domain.DiscountPercentage && d.DiscountType != domain.DiscountFixed {
		errs = append(errs, "discount_type must be percentage or fixed")
	}
	return errs
}

// DiscountCodeSuccessResponse is the success response envelope for POST /admin/events/{eventID}/discount-codes (201).
type DiscountCodeSuccessResponse struct {
	Data  *domain.DiscountCode `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// CreateDiscountCode godoc
// @Summary Create a discount code
// @Description Codes are stored upper case and are unique per event. Administrator only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body DiscountCodeRequest true "Discount code"
// @Success 201 {object} controllers.DiscountCodeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate code)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/discount-codes [post]
func (c *EventController) CreateDiscountCode(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req DiscountCodeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	code := &domain.DiscountCode{
		EventID:       eventID,
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		ExpiresAt:     req.ExpiresAt,
		UsageLimit:    req.UsageLimit,
	}
	if err := c.Service.CreateDiscountCode(r.Context(), code); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, code)
}

// ListDiscountCodesSuccessResponse is the success response envelope for GET /admin/events/{eventID}/discount-codes (200).
type ListDiscountCodesSuccessResponse struct {
	Data  []*domain.DiscountCode `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListDiscountCodes godoc
// @Summary List an event's discount codes
// @Description Includes usage counts. Administrator only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListDiscountCodesSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/discount-codes [get]
func (c *EventController) ListDiscountCodes(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	codes, err := c.Service.ListDiscountCodes(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if codes == nil {
		codes = []*domain.DiscountCode{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, codes)
}
