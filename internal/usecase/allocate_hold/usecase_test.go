package allocate_hold

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
	holdRepo "github.com/m04kA/TRP-ReservationService/internal/infra/storage/hold"
	"github.com/m04kA/TRP-ReservationService/internal/integrations/tenantservice"
)

// Фейки для изоляции use case от инфраструктуры

type fakeHoldRepo struct {
	created      *domain.Hold
	createErr    error
	expiredCount int64
	expireCalled bool
}

func (f *fakeHoldRepo) Create(_ context.Context, h *domain.Hold) (*domain.Hold, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = h
	return h, nil
}

func (f *fakeHoldRepo) ExpireLapsed(_ context.Context, _ domain.SlotKey, _ time.Time) (int64, error) {
	f.expireCalled = true
	return f.expiredCount, nil
}

type fakeTenantClient struct {
	tenant *tenantservice.Tenant
	err    error
}

func (f *fakeTenantClient) GetTenant(_ context.Context, _ int64) (*tenantservice.Tenant, error) {
	return f.tenant, f.err
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeMetrics struct {
	conflicts int
	expired   int64
}

func (f *fakeMetrics) IncHoldConflict()        { f.conflicts++ }
func (f *fakeMetrics) AddHoldsExpired(n int64) { f.expired += n }

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestUseCase(repo *fakeHoldRepo, tenants *fakeTenantClient, m *fakeMetrics) *UseCase {
	uc := NewUseCase(repo, tenants, &fakeTxManager{}, 2*time.Minute, nopLogger{}, m)
	uc.timeProvider = &fakeTimeProvider{now: testNow}
	return uc
}

func validTenant() *tenantservice.Tenant {
	return &tenantservice.Tenant{
		ID:                     42,
		Slug:                   "la-piazza",
		Timezone:               "Europe/Moscow",
		SeatingDurationMinutes: 90,
		MaxPartySize:           12,
		Active:                 true,
	}
}

func validRequest() *Request {
	return &Request{
		TenantID:    42,
		BookingTime: testNow.Add(24 * time.Hour).Add(7 * time.Minute),
		PartySize:   4,
		SessionID:   "sess-1",
	}
}

func TestExecute_Success(t *testing.T) {
	repo := &fakeHoldRepo{}
	uc := newTestUseCase(repo, &fakeTenantClient{tenant: validTenant()}, &fakeMetrics{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.HoldID)
	assert.Equal(t, int64(42), resp.TenantID)
	assert.Equal(t, testNow.Add(2*time.Minute), resp.ExpiresAt)

	// Ключ слота усечён до гранулярности посадки арендатора
	require.NotNil(t, repo.created)
	wantBucket := validRequest().BookingTime.UTC().Truncate(90 * time.Minute)
	assert.True(t, wantBucket.Equal(repo.created.SlotKey.TimeBucket))
	assert.Equal(t, domain.HoldStatusActive, repo.created.Status)
	assert.True(t, repo.expireCalled)
}

func TestExecute_SlotConflict(t *testing.T) {
	repo := &fakeHoldRepo{createErr: holdRepo.ErrSlotTaken}
	m := &fakeMetrics{}
	uc := newTestUseCase(repo, &fakeTenantClient{tenant: validTenant()}, m)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Equal(t, 1, m.conflicts)
}

func TestExecute_FlipsLapsedHoldMetric(t *testing.T) {
	repo := &fakeHoldRepo{expiredCount: 1}
	m := &fakeMetrics{}
	uc := newTestUseCase(repo, &fakeTenantClient{tenant: validTenant()}, m)

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.expired)
}

func TestExecute_TenantNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeHoldRepo{}, &fakeTenantClient{err: tenantservice.ErrTenantNotFound}, &fakeMetrics{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"zero tenant", func(r *Request) { r.TenantID = 0 }},
		{"zero booking time", func(r *Request) { r.BookingTime = time.Time{} }},
		{"empty session", func(r *Request) { r.SessionID = "" }},
		{"party size below minimum", func(r *Request) { r.PartySize = 0 }},
		{"party size above hard cap", func(r *Request) { r.PartySize = domain.MaxPartySize + 1 }},
		{"booking time in the past", func(r *Request) { r.BookingTime = testNow.Add(-time.Hour) }},
		{"party size above tenant limit", func(r *Request) { r.PartySize = 13 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeHoldRepo{}
			uc := newTestUseCase(repo, &fakeTenantClient{tenant: validTenant()}, &fakeMetrics{})

			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidSlotRequest)
			assert.Nil(t, repo.created)
		})
	}
}

func TestNewUseCase_ClampsLeaseDuration(t *testing.T) {
	uc := NewUseCase(&fakeHoldRepo{}, &fakeTenantClient{}, &fakeTxManager{}, time.Second, nopLogger{}, nil)
	assert.Equal(t, domain.DefaultLeaseDuration, uc.leaseDuration)

	uc = NewUseCase(&fakeHoldRepo{}, &fakeTenantClient{}, &fakeTxManager{}, time.Hour, nopLogger{}, nil)
	assert.Equal(t, domain.DefaultLeaseDuration, uc.leaseDuration)

	uc = NewUseCase(&fakeHoldRepo{}, &fakeTenantClient{}, &fakeTxManager{}, 5*time.Minute, nopLogger{}, nil)
	assert.Equal(t, 5*time.Minute, uc.leaseDuration)
}
