package holds

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
	holdRepo "github.com/m04kA/TRP-ReservationService/internal/infra/storage/hold"
)

type fakeHoldRepo struct {
	hold            *domain.Hold
	getErr          error
	releaseAffected int64
	releaseCalled   bool
	expireCalled    bool
	sweptCount      int64
	sweepCalls      int
	liveCount       int64
}

func (f *fakeHoldRepo) GetByID(_ context.Context, _ string) (*domain.Hold, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copy := *f.hold
	return &copy, nil
}

func (f *fakeHoldRepo) ExpireByID(_ context.Context, _ string, _ time.Time) error {
	f.expireCalled = true
	return nil
}

func (f *fakeHoldRepo) Release(_ context.Context, _ string) (int64, error) {
	f.releaseCalled = true
	return f.releaseAffected, nil
}

func (f *fakeHoldRepo) SweepExpired(_ context.Context, _ time.Time) (int64, error) {
	f.sweepCalls++
	return f.sweptCount, nil
}

func (f *fakeHoldRepo) CountLive(_ context.Context, _ time.Time) (int64, error) {
	return f.liveCount, nil
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
	expired int64
	active  int64
}

func (f *fakeMetrics) AddHoldsExpired(n int64) { f.expired += n }
func (f *fakeMetrics) SetHoldsActive(n int64)  { f.active = n }

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeHoldRepo, m *fakeMetrics) *Service {
	svc := NewService(repo, nopLogger{}, m)
	svc.timeProvider = &fakeTimeProvider{now: testNow}
	return svc
}

func activeHold() *domain.Hold {
	return &domain.Hold{
		ID:        "hold-1",
		TenantID:  42,
		Status:    domain.HoldStatusActive,
		ExpiresAt: testNow.Add(time.Minute),
	}
}

func TestRelease_Success(t *testing.T) {
	repo := &fakeHoldRepo{hold: activeHold(), releaseAffected: 1}
	svc := newTestService(repo, &fakeMetrics{})

	resp, err := svc.Release(context.Background(), "hold-1")
	require.NoError(t, err)

	assert.True(t, resp.Released)
	assert.Equal(t, string(domain.HoldStatusReleased), resp.Status)
	assert.True(t, repo.releaseCalled)
}

func TestRelease_IdempotentOnTerminalHold(t *testing.T) {
	for _, status := range []domain.HoldStatus{domain.HoldStatusReleased, domain.HoldStatusConfirmed, domain.HoldStatusExpired} {
		hold := activeHold()
		hold.Status = status
		repo := &fakeHoldRepo{hold: hold}
		svc := newTestService(repo, &fakeMetrics{})

		resp, err := svc.Release(context.Background(), "hold-1")
		require.NoError(t, err, "status=%s", status)

		assert.False(t, resp.Released)
		assert.Equal(t, string(status), resp.Status)
		assert.False(t, repo.releaseCalled)
	}
}

func TestRelease_LapsedHoldRecordedAsExpired(t *testing.T) {
	hold := activeHold()
	hold.ExpiresAt = testNow.Add(-time.Second)
	repo := &fakeHoldRepo{hold: hold}
	m := &fakeMetrics{}
	svc := newTestService(repo, m)

	resp, err := svc.Release(context.Background(), "hold-1")
	require.NoError(t, err)

	assert.False(t, resp.Released)
	assert.Equal(t, string(domain.HoldStatusExpired), resp.Status)
	assert.True(t, repo.expireCalled)
	assert.False(t, repo.releaseCalled)
	assert.Equal(t, int64(1), m.expired)
}

func TestRelease_ConcurrentFinalizationIsNoop(t *testing.T) {
	// Между GetByID и Release холд успел подтвердиться в другой горутине
	repo := &fakeHoldRepo{hold: activeHold(), releaseAffected: 0}
	svc := newTestService(repo, &fakeMetrics{})

	resp, err := svc.Release(context.Background(), "hold-1")
	require.NoError(t, err)
	assert.False(t, resp.Released)
}

func TestRelease_NotFound(t *testing.T) {
	repo := &fakeHoldRepo{getErr: holdRepo.ErrHoldNotFound}
	svc := newTestService(repo, &fakeMetrics{})

	_, err := svc.Release(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrHoldNotFound)
}

func TestSweeper_SweepOnce(t *testing.T) {
	repo := &fakeHoldRepo{sweptCount: 3, liveCount: 5}
	m := &fakeMetrics{}

	sw := NewSweeper(repo, time.Second, nopLogger{}, m)
	sw.timeProvider = &fakeTimeProvider{now: testNow}

	sw.sweepOnce(context.Background())

	assert.Equal(t, 1, repo.sweepCalls)
	assert.Equal(t, int64(3), m.expired)
	assert.Equal(t, int64(5), m.active)
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	repo := &fakeHoldRepo{}
	sw := NewSweeper(repo, 5*time.Millisecond, nopLogger{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}

	assert.GreaterOrEqual(t, repo.sweepCalls, 1)
}
