package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"conferenceportal/internal/domain"
)

type regFixture struct {
	svc    *registrationService
	events *fakeEventRepo
	regs   *fakeRegistrationRepo
	codes  *fakeDiscountRepo
	queue  *mockQueue
}

func newRegFixture(t *testing.T) *regFixture {
	t.Helper()
	events := newFakeEventRepo()
	events.byID["ev-1"] = conferenceEvent()
	regs := newFakeRegistrationRepo()
	codes := &fakeDiscountRepo{}
	q := &mockQueue{}
	svc := NewRegistrationService(regs, events, codes, testResolver(), q, testLogger(), time.Second).(*registrationService)
	svc.now = func() time.Time { return fixedNow }
	t.Cleanup(func() { q.AssertExpectations(t) })
	return &regFixture{svc: svc, events: events, regs: regs, codes: codes, queue: q}
}

func (f *regFixture) acceptNotices() {
	f.queue.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (f *regFixture) seed(reg domain.Registration) *domain.Registration {
	if reg.EventID == "" {
		reg.EventID = "ev-1"
	}
	if reg.UserID == "" {
		reg.UserID = "user-1"
	}
	if reg.Email == "" {
		reg.Email = "ada@example.com"
	}
	_ = f.regs.Create(context.Background(), &reg)
	return &reg
}

func attendee(id string) domain.Actor { return domain.Actor{UserID: id} }

var admin = domain.Actor{UserID: "admin-1", IsAdmin: true}

func registrationInput() *domain.RegistrationInput {
	return &domain.RegistrationInput{
		EventID:   "ev-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	}
}

func TestRegistrationService_CreateAppliesDiscount(t *testing.T) {
	f := newRegFixture(t)
	f.codes.codes = []*domain.DiscountCode{{ID: "dc-1", EventID: "ev-1", Code: "SAVE10", DiscountType: domain.DiscountPercentage, DiscountValue: 10}}
	f.queue.On("Enqueue", mock.Anything, jobKind(domain.NotificationConfirmation)).Return(nil).Once()

	in := registrationInput()
	in.DiscountCode = " save10 "
	reg, err := f.svc.Create(context.Background(), attendee("user-1"), in)
	require.NoError(t, err)

	assert.InDelta(t, 607.5, reg.TotalPrice, 0.0001)
	assert.InDelta(t, 67.5, reg.DiscountAmount, 0.0001)
	assert.Equal(t, "SAVE10", reg.DiscountCode)
	assert.Equal(t, "user-1", reg.UserID)
	assert.Equal(t, []string{"dc-1"}, f.codes.increments)
	assert.Equal(t, 1, f.codes.codes[0].UsedCount)
}

func TestRegistrationService_CreateInvalidDiscountKeepsFullPrice(t *testing.T) {
	f := newRegFixture(t)
	f.acceptNotices()
	expired := fixedNow.Add(-time.Hour)
	f.codes.codes = []*domain.DiscountCode{{ID: "dc-1", EventID: "ev-1", Code: "OLD", DiscountType: domain.DiscountFixed, DiscountValue: 50, ExpiresAt: &expired}}

	in := registrationInput()
	in.DiscountCode = "old"
	reg, err := f.svc.Create(context.Background(), attendee("user-1"), in)
	require.NoError(t, err)
	assert.InDelta(t, 675, reg.TotalPrice, 0.0001)
	assert.Zero(t, reg.DiscountAmount)
	assert.Empty(t, reg.DiscountCode)
	assert.Empty(t, f.codes.increments)

	f.codes.lookupErr = errors.New("db down")
	reg, err = f.svc.Create(context.Background(), attendee("user-1"), in)
	require.NoError(t, err, "discount lookup failures never block registration")
	assert.InDelta(t, 675, reg.TotalPrice, 0.0001)
}

func TestRegistrationService_CreateWaitlistsFullActivity(t *testing.T) {
	f := newRegFixture(t)
	f.acceptNotices()
	f.seed(domain.Registration{UserID: "user-2", WednesdayActivity: "Golf"})
	f.seed(domain.Registration{UserID: "user-3", WednesdayActivity: "Golf"})
	f.seed(domain.Registration{UserID: "user-4", WednesdayActivity: "Golf", Status: domain.RegistrationStatusCancelled})

	in := registrationInput()
	in.WednesdayActivity = "Golf"
	third, err := f.svc.Create(context.Background(), attendee("user-1"), in)
	require.NoError(t, err)
	assert.True(t, third.WednesdayActivityWaitlisted)
	require.NotNil(t, third.WednesdayActivityWaitlistedAt)
	assert.Equal(t, fixedNow, *third.WednesdayActivityWaitlistedAt)

	in.WednesdayActivity = "City tour"
	fourth, err := f.svc.Create(context.Background(), attendee("user-5"), in)
	require.NoError(t, err)
	assert.False(t, fourth.WednesdayActivityWaitlisted)
	assert.Nil(t, fourth.WednesdayActivityWaitlistedAt)
}

func TestRegistrationService_CreateAdminOverride(t *testing.T) {
	f := newRegFixture(t)
	f.acceptNotices()

	in := registrationInput()
	in.GuestDinnerTicket = true
	in.TotalPrice = floatPtr(500)
	in.UserID = "user-9"

	reg, err := f.svc.Create(context.Background(), admin, in)
	require.NoError(t, err)
	assert.InDelta(t, 500, reg.TotalPrice, 0.0001)
	assert.Equal(t, "user-9", reg.UserID)

	reg, err = f.svc.Create(context.Background(), attendee("user-1"), in)
	require.NoError(t, err)
	assert.InDelta(t, 875, reg.TotalPrice, 0.0001, "attendees cannot override the total")
	assert.Equal(t, "user-1", reg.UserID)
}

func TestRegistrationService_CreateDegraded(t *testing.T) {
	t.Run("occupancy unavailable confirms the activity", func(t *testing.T) {
		f := newRegFixture(t)
		f.acceptNotices()
		f.regs.countErr = errors.New("db down")

		in := registrationInput()
		in.WednesdayActivity = "Golf"
		reg, err := f.svc.Create(context.Background(), attendee("user-1"), in)
		require.NoError(t, err)
		assert.False(t, reg.WednesdayActivityWaitlisted)
		assert.InDelta(t, 675, reg.TotalPrice, 0.0001)
	})

	t.Run("event unreadable keeps supplied total", func(t *testing.T) {
		f := newRegFixture(t)
		f.acceptNotices()
		f.events.err = errors.New("db down")

		in := registrationInput()
		in.TotalPrice = floatPtr(650)
		reg, err := f.svc.Create(context.Background(), admin, in)
		require.NoError(t, err)
		assert.InDelta(t, 650, reg.TotalPrice, 0.0001)
	})

	t.Run("unknown event is rejected", func(t *testing.T) {
		f := newRegFixture(t)
		in := registrationInput()
		in.EventID = "ev-missing"
		_, err := f.svc.Create(context.Background(), attendee("user-1"), in)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("queue failure does not fail the registration", func(t *testing.T) {
		f := newRegFixture(t)
		f.queue.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()
		_, err := f.svc.Create(context.Background(), attendee("user-1"), registrationInput())
		require.NoError(t, err)
	})
}

func TestRegistrationService_CreateValidation(t *testing.T) {
	f := newRegFixture(t)
	tests := []struct {
		name   string
		mutate func(in *domain.RegistrationInput)
	}{
		{"missing event", func(in *domain.RegistrationInput) { in.EventID = "" }},
		{"missing name", func(in *domain.RegistrationInput) { in.LastName = " " }},
		{"bad email", func(in *domain.RegistrationInput) { in.Email = "nobody" }},
		{"negative override", func(in *domain.RegistrationInput) { in.TotalPrice = floatPtr(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := registrationInput()
			tt.mutate(in)
			_, err := f.svc.Create(context.Background(), admin, in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRegistrationService_QuoteHasNoSideEffects(t *testing.T) {
	f := newRegFixture(t)
	f.codes.codes = []*domain.DiscountCode{{ID: "dc-1", EventID: "ev-1", Code: "SAVE10", DiscountType: domain.DiscountPercentage, DiscountValue: 10, UsageLimit: intPtr(1)}}

	sel := domain.Selection{DiscountCode: "SAVE10"}
	first, err := f.svc.Quote(context.Background(), "ev-1", sel)
	require.NoError(t, err)
	second, err := f.svc.Quote(context.Background(), "ev-1", sel)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.InDelta(t, 607.5, first.Total, 0.0001)
	assert.Equal(t, "Standard", first.BaseTier)
	assert.Empty(t, f.codes.increments)

	_, err = f.svc.Quote(context.Background(), "ev-missing", sel)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistrationService_AdminPriceIncrease(t *testing.T) {
	f := newRegFixture(t)
	f.queue.On("Enqueue", mock.Anything, jobKind(domain.NotificationPendingPayment)).Return(nil).Once()
	reg := f.seed(domain.Registration{TotalPrice: 675, Paid: true, PaidAmount: 675, PaymentMethod: "card"})

	got, err := f.svc.Update(context.Background(), admin, reg.ID, &domain.RegistrationUpdate{TotalPrice: floatPtr(875)})
	require.NoError(t, err)
	assert.InDelta(t, 875, got.TotalPrice, 0.0001)
	assert.InDelta(t, 200, got.PendingPaymentAmount, 0.0001)
	assert.Contains(t, got.PendingPaymentReason, "$675.00")
	assert.Contains(t, got.PendingPaymentReason, "$875.00")
	require.NotNil(t, got.OriginalTotalPrice)
	assert.InDelta(t, 675, *got.OriginalTotalPrice, 0.0001)

	stored, err := f.regs.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.InDelta(t, 200, stored.PendingPaymentAmount, 0.0001)
}

func TestRegistrationService_AdminPriceIncreaseByCheck(t *testing.T) {
	f := newRegFixture(t)
	f.queue.On("Enqueue", mock.Anything, jobKind(domain.NotificationUpdate)).Return(nil).Once()
	reg := f.seed(domain.Registration{TotalPrice: 675, PaymentMethod: "Check"})

	got, err := f.svc.Update(context.Background(), admin, reg.ID, &domain.RegistrationUpdate{TotalPrice: floatPtr(875)})
	require.NoError(t, err)
	assert.InDelta(t, 200, got.PendingPaymentAmount, 0.0001)
}

func TestRegistrationService_AdminAddsGuestAndMarksPaid(t *testing.T) {
	f := newRegFixture(t)
	f.acceptNotices()
	reg := f.seed(domain.Registration{TotalPrice: 675, Paid: true, PaidAmount: 675})

	got, err := f.svc.Update(context.Background(), admin, reg.ID, &domain.RegistrationUpdate{GuestDinnerTicket: boolPtr(true)})
	require.NoError(t, err)
	assert.InDelta(t, 875, got.TotalPrice, 0.0001)
	assert.InDelta(t, 200, got.PendingPaymentAmount, 0.0001)
	assert.Contains(t, got.PendingPaymentReason, "Guest dinner ticket added ($200.00)")

	got, err = f.svc.Update(context.Background(), admin, reg.ID, &domain.RegistrationUpdate{Paid: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, got.Paid)
	assert.Zero(t, got.PendingPaymentAmount)
	assert.Empty(t, got.PendingPaymentReason)
	assert.InDelta(t, 875, got.PaidAmount, 0.0001)
}

func TestRegistrationService_AttendeePaysPendingBalance(t *testing.T) {
	f := newRegFixture(t)
	f.queue.On("Enqueue", mock.Anything, jobKind(domain.NotificationUpdate)).Return(nil).Once()
	created := fixedNow.Add(-24 * time.Hour)
	reg := f.seed(domain.Registration{
		TotalPrice:              875,
		PaidAmount:              0,
		PendingPaymentAmount:    200,
		PendingPaymentReason:    "Price increased by admin from $675.00 to $875.00",
		PendingPaymentCreatedAt: &created,
	})

	got, err := f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{
		Paid:       boolPtr(true),
		TotalPrice: floatPtr(1),
	})
	require.NoError(t, err)
	assert.InDelta(t, 200, got.PaidAmount, 0.0001)
	assert.False(t, got.Paid)
	assert.Zero(t, got.PendingPaymentAmount)
	assert.Nil(t, got.PendingPaymentCreatedAt)
	assert.InDelta(t, 875, got.TotalPrice, 0.0001, "attendee total edits are ignored")
}

func TestRegistrationService_AttendeeEditAfterAdminIncrease(t *testing.T) {
	f := newRegFixture(t)
	f.acceptNotices()
	reg := f.seed(domain.Registration{TotalPrice: 675, PaymentMethod: "card"})

	got, err := f.svc.Update(context.Background(), admin, reg.ID, &domain.RegistrationUpdate{TotalPrice: floatPtr(875)})
	require.NoError(t, err)
	require.InDelta(t, 200, got.PendingPaymentAmount, 0.0001)

	got, err = f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{GuestBreakfast: boolPtr(true)})
	require.NoError(t, err)
	assert.InDelta(t, 910, got.TotalPrice, 0.0001, "admin total is kept and breakfast added on top")
	assert.InDelta(t, 200, got.PendingPaymentAmount, 0.0001)
	require.NotNil(t, got.OriginalTotalPrice)
	assert.InDelta(t, 675, *got.OriginalTotalPrice, 0.0001)

	got, err = f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{Paid: boolPtr(true)})
	require.NoError(t, err)
	assert.InDelta(t, 200, got.PaidAmount, 0.0001)
	assert.False(t, got.Paid)
	assert.Zero(t, got.PendingPaymentAmount)
	assert.InDelta(t, 910, got.TotalPrice, 0.0001)

	got, err = f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{Paid: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, got.Paid)
	assert.InDelta(t, 910, got.PaidAmount, 0.0001)
}

func TestRegistrationService_AttendeeEditKeepsCreateOverride(t *testing.T) {
	f := newRegFixture(t)
	f.acceptNotices()

	in := registrationInput()
	in.UserID = "user-1"
	in.TotalPrice = floatPtr(500)
	reg, err := f.svc.Create(context.Background(), admin, in)
	require.NoError(t, err)
	require.NotNil(t, reg.OriginalTotalPrice)
	assert.InDelta(t, 500, *reg.OriginalTotalPrice, 0.0001)

	got, err := f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{GuestDinnerTicket: boolPtr(true)})
	require.NoError(t, err)
	assert.InDelta(t, 700, got.TotalPrice, 0.0001)
	assert.Zero(t, got.PendingPaymentAmount)

	got, err = f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{GuestDinnerTicket: boolPtr(false)})
	require.NoError(t, err)
	assert.InDelta(t, 500, got.TotalPrice, 0.0001)
}

func TestRegistrationService_AttendeeEdits(t *testing.T) {
	t.Run("unpaid selection change is repriced without pending", func(t *testing.T) {
		f := newRegFixture(t)
		f.acceptNotices()
		reg := f.seed(domain.Registration{TotalPrice: 675})

		kids := []domain.Child{{Name: "Sam", Age: 8}}
		got, err := f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{
			GuestDinnerTicket: boolPtr(true),
			Children:          &kids,
		})
		require.NoError(t, err)
		assert.InDelta(t, 950, got.TotalPrice, 0.0001)
		assert.Zero(t, got.PendingPaymentAmount)
	})

	t.Run("paid registration price edits are locked", func(t *testing.T) {
		f := newRegFixture(t)
		reg := f.seed(domain.Registration{TotalPrice: 675, Paid: true, PaidAmount: 675})
		_, err := f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{GuestBreakfast: boolPtr(true)})
		require.ErrorIs(t, err, domain.ErrPaidRegistrationLocked)
	})

	t.Run("paid registration personal edits are allowed", func(t *testing.T) {
		f := newRegFixture(t)
		f.acceptNotices()
		reg := f.seed(domain.Registration{TotalPrice: 675, Paid: true, PaidAmount: 675})
		got, err := f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{FirstName: stringPtr(" Augusta ")})
		require.NoError(t, err)
		assert.Equal(t, "Augusta", got.FirstName)
		assert.InDelta(t, 675, got.TotalPrice, 0.0001)
	})

	t.Run("other attendee is forbidden", func(t *testing.T) {
		f := newRegFixture(t)
		reg := f.seed(domain.Registration{TotalPrice: 675})
		_, err := f.svc.Update(context.Background(), attendee("user-2"), reg.ID, &domain.RegistrationUpdate{})
		require.ErrorIs(t, err, domain.ErrForbidden)
		_, err = f.svc.Get(context.Background(), attendee("user-2"), reg.ID)
		require.ErrorIs(t, err, domain.ErrForbidden)
		_, err = f.svc.Cancel(context.Background(), attendee("user-2"), reg.ID)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("cancelled registration cannot be edited", func(t *testing.T) {
		f := newRegFixture(t)
		reg := f.seed(domain.Registration{Status: domain.RegistrationStatusCancelled})
		_, err := f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{})
		require.ErrorIs(t, err, domain.ErrRegistrationCancelled)
	})
}

func TestRegistrationService_UpdateActivity(t *testing.T) {
	t.Run("changing to a full activity waitlists", func(t *testing.T) {
		f := newRegFixture(t)
		f.acceptNotices()
		f.seed(domain.Registration{UserID: "user-2", WednesdayActivity: "Golf"})
		f.seed(domain.Registration{UserID: "user-3", WednesdayActivity: "Golf"})
		reg := f.seed(domain.Registration{WednesdayActivity: "City tour", TotalPrice: 675})

		got, err := f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{WednesdayActivity: stringPtr("Golf")})
		require.NoError(t, err)
		assert.True(t, got.WednesdayActivityWaitlisted)
		assert.Equal(t, fixedNow, *got.WednesdayActivityWaitlistedAt)
	})

	t.Run("unchanged activity is not re-allocated", func(t *testing.T) {
		f := newRegFixture(t)
		f.acceptNotices()
		waitedSince := fixedNow.Add(-time.Hour)
		reg := f.seed(domain.Registration{WednesdayActivity: "Golf", WednesdayActivityWaitlisted: true, WednesdayActivityWaitlistedAt: &waitedSince})

		got, err := f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{WednesdayActivity: stringPtr("Golf")})
		require.NoError(t, err)
		assert.True(t, got.WednesdayActivityWaitlisted)
		assert.Equal(t, waitedSince, *got.WednesdayActivityWaitlistedAt)
	})

	t.Run("leaving a waitlisted activity clears the flag", func(t *testing.T) {
		f := newRegFixture(t)
		f.acceptNotices()
		reg := f.seed(domain.Registration{WednesdayActivity: "Golf", WednesdayActivityWaitlisted: true})

		got, err := f.svc.Update(context.Background(), attendee("user-1"), reg.ID, &domain.RegistrationUpdate{WednesdayActivity: stringPtr("City tour")})
		require.NoError(t, err)
		assert.False(t, got.WednesdayActivityWaitlisted)
		assert.Nil(t, got.WednesdayActivityWaitlistedAt)
	})
}

func TestRegistrationService_CancelFreesSeat(t *testing.T) {
	f := newRegFixture(t)
	f.acceptNotices()
	reg := f.seed(domain.Registration{WednesdayActivity: "Golf"})

	got, err := f.svc.Cancel(context.Background(), attendee("user-1"), reg.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCancelled())
	assert.Equal(t, "Golf", got.WednesdayActivity)
	require.NotNil(t, got.CancellationAt)
	assert.Equal(t, fixedNow, *got.CancellationAt)

	n, err := f.regs.CountConfirmedForActivity(context.Background(), "ev-1", "Golf", "")
	require.NoError(t, err)
	assert.Zero(t, n)

	again, err := f.svc.Cancel(context.Background(), attendee("user-1"), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, *again.CancellationAt)
}

func TestRegistrationService_PromoteFromWaitlist(t *testing.T) {
	t.Run("preconditions", func(t *testing.T) {
		f := newRegFixture(t)
		cancelled := f.seed(domain.Registration{WednesdayActivity: "Golf", WednesdayActivityWaitlisted: true, Status: domain.RegistrationStatusCancelled})
		noActivity := f.seed(domain.Registration{})
		confirmed := f.seed(domain.Registration{WednesdayActivity: "Golf"})

		tests := []struct {
			name    string
			id      string
			wantErr error
		}{
			{"not found", "reg-missing", domain.ErrNotFound},
			{"cancelled", cancelled.ID, domain.ErrRegistrationCancelled},
			{"no activity", noActivity.ID, domain.ErrNoActivitySelected},
			{"not waitlisted", confirmed.ID, domain.ErrNotWaitlisted},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.svc.PromoteFromWaitlist(context.Background(), tt.id)
				require.ErrorIs(t, err, tt.wantErr)
			})
		}
	})

	t.Run("rechecks capacity", func(t *testing.T) {
		f := newRegFixture(t)
		f.acceptNotices()
		first := f.seed(domain.Registration{UserID: "user-2", WednesdayActivity: "Golf"})
		f.seed(domain.Registration{UserID: "user-3", WednesdayActivity: "Golf"})
		waitedSince := fixedNow.Add(-time.Hour)
		waiting := f.seed(domain.Registration{WednesdayActivity: "Golf", WednesdayActivityWaitlisted: true, WednesdayActivityWaitlistedAt: &waitedSince})

		_, err := f.svc.PromoteFromWaitlist(context.Background(), waiting.ID)
		require.ErrorIs(t, err, domain.ErrActivityFull)
		var capErr *domain.CapacityError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, "Golf", capErr.Activity)
		assert.Equal(t, 2, capErr.SeatLimit)

		_, err = f.svc.Cancel(context.Background(), admin, first.ID)
		require.NoError(t, err)

		got, err := f.svc.PromoteFromWaitlist(context.Background(), waiting.ID)
		require.NoError(t, err)
		assert.False(t, got.WednesdayActivityWaitlisted)
		assert.Nil(t, got.WednesdayActivityWaitlistedAt)

		stored, err := f.regs.GetByID(context.Background(), waiting.ID)
		require.NoError(t, err)
		assert.True(t, stored.HoldsSeat())
	})

	t.Run("occupancy failure rejects promotion", func(t *testing.T) {
		f := newRegFixture(t)
		waiting := f.seed(domain.Registration{WednesdayActivity: "Golf", WednesdayActivityWaitlisted: true})
		f.regs.countErr = errors.New("db down")
		_, err := f.svc.PromoteFromWaitlist(context.Background(), waiting.ID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrActivityFull)
	})
}

func TestRegistrationService_ListByEvent(t *testing.T) {
	f := newRegFixture(t)
	for i := 0; i < 3; i++ {
		f.seed(domain.Registration{})
	}
	f.seed(domain.Registration{EventID: "ev-2"})

	regs, total, err := f.svc.ListByEvent(context.Background(), "ev-1", domain.PaginationParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, regs, 1)
	assert.Equal(t, "reg-3", regs[0].ID)

	_, _, err = f.svc.ListByEvent(context.Background(), "ev-missing", domain.PaginationParams{Page: 1, PageSize: 20})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
