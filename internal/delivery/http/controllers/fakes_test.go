package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferenceportal/internal/delivery/http/helpers"
	"conferenceportal/internal/delivery/http/middleware"
	"conferenceportal/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	eventUUID = "6f1c1d52-8f3a-4c1e-9a55-0d2b3c4e5f60"
	regUUID   = "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed"
)

var (
	attendeeClaims = &domain.AuthClaims{UserID: "user-123", Email: "ada@example.com"}
	adminClaims    = &domain.AuthClaims{UserID: "admin-1", Roles: []string{domain.RoleAdmin}}
)

// newRequest builds a request with path values set and, when claims is not nil,
// the identity RequireAuth would attach.
func newRequest(method, target, body string, claims *domain.AuthClaims, pathValues map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if claims != nil {
		req = req.WithContext(middleware.SetClaims(req.Context(), claims))
	}
	return req
}

// decodeEnvelope decodes the response envelope and, when dest is not nil, its data.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	err          error
	quote        *domain.PriceQuote
	registration *domain.Registration
	list         []*domain.Registration
	total        int

	lastActor  domain.Actor
	lastID     string
	lastEvent  string
	lastSel    domain.Selection
	lastInput  *domain.RegistrationInput
	lastUpdate *domain.RegistrationUpdate
	lastParams domain.PaginationParams
}

func (f *fakeRegistrationService) Quote(ctx context.Context, eventID string, sel domain.Selection) (*domain.PriceQuote, error) {
	f.lastEvent, f.lastSel = eventID, sel
	return f.quote, f.err
}

func (f *fakeRegistrationService) Create(ctx context.Context, actor domain.Actor, in *domain.RegistrationInput) (*domain.Registration, error) {
	f.lastActor, f.lastInput = actor, in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Registration{ID: regUUID, EventID: in.EventID, UserID: actor.UserID, FirstName: in.FirstName, TotalPrice: 675}, nil
}

func (f *fakeRegistrationService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Registration, error) {
	f.lastActor, f.lastID = actor, id
	return f.registration, f.err
}

func (f *fakeRegistrationService) Update(ctx context.Context, actor domain.Actor, id string, upd *domain.RegistrationUpdate) (*domain.Registration, error) {
	f.lastActor, f.lastID, f.lastUpdate = actor, id, upd
	return f.registration, f.err
}

func (f *fakeRegistrationService) Cancel(ctx context.Context, actor domain.Actor, id string) (*domain.Registration, error) {
	f.lastActor, f.lastID = actor, id
	return f.registration, f.err
}

func (f *fakeRegistrationService) PromoteFromWaitlist(ctx context.Context, id string) (*domain.Registration, error) {
	f.lastID = id
	return f.registration, f.err
}

func (f *fakeRegistrationService) ListByEvent(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	f.lastEvent, f.lastParams = eventID, params
	return f.list, f.total, f.err
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err       error
	event     *domain.Event
	events    []*domain.Event
	codes     []*domain.DiscountCode
	occupancy []*domain.ActivityOccupancy

	lastEvent   *domain.Event
	lastEventID string
	lastCode    *domain.DiscountCode
}

func (f *fakeEventService) CreateEvent(ctx context.Context, e *domain.Event) error {
	f.lastEvent = e
	if f.err != nil {
		return f.err
	}
	e.ID = eventUUID
	return nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	f.lastEventID = id
	return f.event, f.err
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	f.lastEvent = e
	if f.err != nil {
		return nil, f.err
	}
	return e, nil
}

func (f *fakeEventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return f.events, f.err
}

func (f *fakeEventService) CreateDiscountCode(ctx context.Context, c *domain.DiscountCode) error {
	f.lastCode = c
	if f.err != nil {
		return f.err
	}
	c.ID = "dc-1"
	c.Code = domain.NormalizeCode(c.Code)
	return nil
}

func (f *fakeEventService) ListDiscountCodes(ctx context.Context, eventID string) ([]*domain.DiscountCode, error) {
	f.lastEventID = eventID
	return f.codes, f.err
}

func (f *fakeEventService) ActivityOccupancy(ctx context.Context, eventID string) ([]*domain.ActivityOccupancy, error) {
	f.lastEventID = eventID
	return f.occupancy, f.err
}
