package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/TRP-ReservationService/internal/infra/storage/booking"
	"github.com/m04kA/TRP-ReservationService/internal/integrations/notifyservice"
	"github.com/m04kA/TRP-ReservationService/internal/service/bookings/models"
	"github.com/m04kA/TRP-ReservationService/pkg/ptr"
)

type fakeBookingRepo struct {
	booking       *domain.Booking
	getErr        error
	updatedStatus *domain.BookingStatus
	events        []*domain.BookingStatusEvent
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copy := *f.booking
	return &copy, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus) error {
	f.updatedStatus = &status
	return nil
}

func (f *fakeBookingRepo) AppendStatusEvent(_ context.Context, event *domain.BookingStatusEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeNotifier struct {
	events []*notifyservice.BookingEvent
}

func (f *fakeNotifier) DispatchAsync(event *notifyservice.BookingEvent) {
	f.events = append(f.events, event)
}

type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:               101,
		TenantID:         42,
		HoldID:           ptr.Ptr("hold-1"),
		GuestName:        "Анна Петрова",
		GuestContact:     "+7 900 000-00-00",
		PartySize:        4,
		BookingTime:      time.Date(2026, 9, 2, 19, 0, 0, 0, time.UTC),
		Status:           domain.StatusPending,
		ConfirmationCode: "PEND-AAAA1111",
		Source:           domain.SourceFallback,
	}
}

func newTestService(repo *fakeBookingRepo, notifier *fakeNotifier) *Service {
	return NewService(repo, notifier, &fakeTxManager{}, nopLogger{})
}

func TestGetByID(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	svc := newTestService(repo, &fakeNotifier{})

	resp, err := svc.GetByID(context.Background(), 101)
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.True(t, resp.RequiresStaffReview)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	svc := newTestService(repo, &fakeNotifier{})

	_, err := svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestTransition_AllowedStep(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	resp, err := svc.Transition(context.Background(), 101, &models.TransitionRequest{
		Status: "confirmed",
		Actor:  "staff:7",
	})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	require.NotNil(t, repo.updatedStatus)
	assert.Equal(t, domain.StatusConfirmed, *repo.updatedStatus)

	// Переход записан в журнал аудита
	require.Len(t, repo.events, 1)
	assert.Equal(t, domain.StatusPending, repo.events[0].FromStatus)
	assert.Equal(t, domain.StatusConfirmed, repo.events[0].ToStatus)
	assert.Equal(t, "staff:7", repo.events[0].Actor)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, notifyservice.EventBookingTransitioned, notifier.events[0].Type)
}

func TestTransition_InvalidStep(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.StatusConfirmed
	repo := &fakeBookingRepo{booking: b}
	svc := newTestService(repo, &fakeNotifier{})

	// confirmed -> completed минует seated и запрещён
	_, err := svc.Transition(context.Background(), 101, &models.TransitionRequest{Status: "completed", Actor: "staff:7"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, repo.updatedStatus)
	assert.Empty(t, repo.events)
}

func TestTransition_FromTerminalStatus(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.StatusCancelled
	repo := &fakeBookingRepo{booking: b}
	svc := newTestService(repo, &fakeNotifier{})

	_, err := svc.Transition(context.Background(), 101, &models.TransitionRequest{Status: "confirmed", Actor: "staff:7"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_SameStatusRejected(t *testing.T) {
	tests := []struct {
		name   string
		status domain.BookingStatus
	}{
		{name: "seated to seated", status: domain.StatusSeated},
		{name: "completed to completed", status: domain.StatusCompleted},
		{name: "cancelled to cancelled", status: domain.StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := pendingBooking()
			b.Status = tt.status
			repo := &fakeBookingRepo{booking: b}
			notifier := &fakeNotifier{}
			svc := newTestService(repo, notifier)

			_, err := svc.Transition(context.Background(), 101, &models.TransitionRequest{Status: string(tt.status), Actor: "staff:7"})
			require.ErrorIs(t, err, ErrInvalidTransition)

			assert.Nil(t, repo.updatedStatus)
			assert.Empty(t, repo.events)
			assert.Empty(t, notifier.events)
		})
	}
}

func TestTransition_UnknownStatus(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	svc := newTestService(repo, &fakeNotifier{})

	_, err := svc.Transition(context.Background(), 101, &models.TransitionRequest{Status: "reserved", Actor: "staff:7"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransition_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	svc := newTestService(repo, &fakeNotifier{})

	_, err := svc.Transition(context.Background(), 999, &models.TransitionRequest{Status: "confirmed", Actor: "staff:7"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
