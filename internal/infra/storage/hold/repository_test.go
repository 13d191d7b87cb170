package hold

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func testHold() *domain.Hold {
	return &domain.Hold{
		ID:        "5f0c4f2e-9f3a-4a57-b0cf-2b3a1de2a111",
		TenantID:  42,
		SlotKey:   domain.ResolveSlotKey(42, testNow.Add(24*time.Hour), 90*time.Minute),
		PartySize: 4,
		SessionID: "sess-1",
		Status:    domain.HoldStatusActive,
		ExpiresAt: testNow.Add(2 * time.Minute),
	}
}

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db), mock, func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	h := testHold()

	mock.ExpectQuery("INSERT INTO holds").
		WithArgs(h.ID, h.TenantID, h.SlotKey.String(), h.PartySize, h.SessionID, string(h.Status), h.ExpiresAt).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(testNow))

	created, err := repo.Create(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, testNow, created.CreatedAt)
}

func TestCreate_SlotTaken(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	// Частичный уникальный индекс по (tenant_id, slot_key) WHERE status='active'
	mock.ExpectQuery("INSERT INTO holds").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "holds_active_slot_key_uniq"})

	_, err := repo.Create(context.Background(), testHold())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery("SELECT .+ FROM holds").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrHoldNotFound)
}

func TestGetByID_ParsesSlotKey(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	h := testHold()
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "slot_key", "party_size", "session_id", "status", "created_at", "expires_at",
	}).AddRow(h.ID, h.TenantID, h.SlotKey.String(), h.PartySize, h.SessionID, string(h.Status), testNow, h.ExpiresAt)

	mock.ExpectQuery("SELECT .+ FROM holds").
		WithArgs(h.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), h.ID)
	require.NoError(t, err)
	assert.Equal(t, h.SlotKey.TenantID, got.SlotKey.TenantID)
	assert.True(t, h.SlotKey.TimeBucket.Equal(got.SlotKey.TimeBucket))
}

func TestConfirm_LapsedHoldNotActive(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	// Условие expires_at > now не выполнено - 0 затронутых строк
	mock.ExpectExec("UPDATE holds SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Confirm(context.Background(), "hold-1", testNow)
	assert.ErrorIs(t, err, ErrHoldNotActive)
}

func TestConfirm_Success(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("UPDATE holds SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Confirm(context.Background(), "hold-1", testNow))
}

func TestRelease_ReturnsAffectedRows(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("UPDATE holds SET status").
		WithArgs(string(domain.HoldStatusReleased), "hold-1", string(domain.HoldStatusActive)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Release(context.Background(), "hold-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestExpireLapsed_Idempotent(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("UPDATE holds SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.ExpireLapsed(context.Background(), testHold().SlotKey, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestSweepExpired(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("UPDATE holds SET status").
		WillReturnResult(sqlmock.NewResult(0, 3))

	swept, err := repo.SweepExpired(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(3), swept)
}

func TestCountLive(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM holds`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountLive(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}
