package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/stretchr/testify/mock"

	"conferenceportal/internal/domain"
	"conferenceportal/internal/pricing"
)

var fixedNow = time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testResolver() pricing.Resolver {
	return pricing.NewIterativeResolver(pricing.USEasternRules, func() time.Time { return fixedNow })
}

func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string  { return &v }

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, every call returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out, nil
}

// fakeRegistrationRepo stores copies so tests observe only persisted state.
type fakeRegistrationRepo struct {
	byID     map[string]domain.Registration
	order    []string
	nextID   int
	countErr error
	writeErr error
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{byID: make(map[string]domain.Registration), nextID: 1}
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	f.nextID++
	f.byID[reg.ID] = *reg
	f.order = append(f.order, reg.ID)
	return nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	reg, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &reg, nil
}

func (f *fakeRegistrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if _, ok := f.byID[reg.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[reg.ID] = *reg
	return nil
}

func (f *fakeRegistrationRepo) ListByEvent(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	var all []*domain.Registration
	for _, id := range f.order {
		reg := f.byID[id]
		if reg.EventID == eventID {
			all = append(all, &reg)
		}
	}
	total := len(all)
	start := min(params.Offset(), total)
	end := total
	if limit := params.Limit(); limit > 0 {
		end = min(start+limit, total)
	}
	return all[start:end], total, nil
}

func (f *fakeRegistrationRepo) CountConfirmedForActivity(ctx context.Context, eventID, activity, excludeID string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for id, reg := range f.byID {
		if reg.EventID == eventID && reg.WednesdayActivity == activity && reg.HoldsSeat() && id != excludeID {
			n++
		}
	}
	return n, nil
}

// fakeDiscountRepo is an in-memory DiscountCodeRepository.
type fakeDiscountRepo struct {
	codes        []*domain.DiscountCode
	lookupErr    error
	incrementErr error
	increments   []string
}

func (f *fakeDiscountRepo) Create(ctx context.Context, c *domain.DiscountCode) error {
	for _, existing := range f.codes {
		if existing.EventID == c.EventID && existing.Code == c.Code {
			return domain.ErrDuplicate
		}
	}
	c.ID = fmt.Sprintf("dc-%d", len(f.codes)+1)
	f.codes = append(f.codes, c)
	return nil
}

func (f *fakeDiscountRepo) GetByEventAndCode(ctx context.Context, eventID, code string) (*domain.DiscountCode, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, c := range f.codes {
		if c.EventID == eventID && c.Code == domain.NormalizeCode(code) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDiscountRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.DiscountCode, error) {
	var out []*domain.DiscountCode
	for _, c := range f.codes {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeDiscountRepo) IncrementUsage(ctx context.Context, id string) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	for _, c := range f.codes {
		if c.ID == id {
			c.UsedCount++
			f.increments = append(f.increments, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

type mockQueue struct {
	mock.Mock
}

func (m *mockQueue) Enqueue(ctx context.Context, job domain.NotificationJob) error {
	return m.Called(ctx, job).Error(0)
}

func jobKind(kind string) interface{} {
	return mock.MatchedBy(func(job domain.NotificationJob) bool { return job.Kind == kind })
}

func conferenceEvent() *domain.Event {
	return &domain.Event{
		ID:           "ev-1",
		Name:         "Annual Conference",
		Year:         2025,
		DefaultPrice: 700,
		RegistrationTiers: []domain.PriceTier{
			{Label: "Early bird", Price: 575, EndDate: "2025-03-31"},
			{Label: "Standard", Price: 675, StartDate: "2025-04-01", EndDate: "2025-06-30"},
			{Label: "Late", Price: 775, StartDate: "2025-07-01"},
		},
		GuestTiers:          []domain.PriceTier{{Label: "Guest", Price: 200}},
		ChildTiers:          []domain.PriceTier{{Label: "Child", Price: 75}},
		BreakfastPrice:      35,
		BreakfastCutoffDate: "2025-06-15",
		Activities: []domain.Activity{
			{Name: "Golf", SeatLimit: intPtr(2)},
			{Name: "City tour"},
		},
	}
}
