package booking

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
	"github.com/m04kA/TRP-ReservationService/pkg/ptr"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func testBooking() *domain.Booking {
	return &domain.Booking{
		TenantID:         42,
		HoldID:           ptr.Ptr("5f0c4f2e-9f3a-4a57-b0cf-2b3a1de2a111"),
		GuestName:        "Анна Петрова",
		GuestContact:     "+7 900 000-00-00",
		PartySize:        4,
		BookingTime:      testNow.Add(24 * time.Hour),
		Status:           domain.StatusConfirmed,
		ConfirmationCode: "RSV-AAAA1111",
		Source:           domain.SourcePrimary,
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

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(101), testNow, testNow))

	created, err := repo.Create(context.Background(), testBooking())
	require.NoError(t, err)
	assert.Equal(t, int64(101), created.ID)
	assert.Equal(t, testNow, created.CreatedAt)
}

func TestCreate_DuplicateHold(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	// Уникальный индекс на hold_id: вторая бронь по одному холду невозможна
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_hold_id_uniq"})

	_, err := repo.Create(context.Background(), testBooking())
	assert.ErrorIs(t, err, ErrDuplicateHold)
}

func TestGetByHoldID_NotFound(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery("SELECT .+ FROM bookings").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByHoldID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 999, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestAppendStatusEvent(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO booking_status_events").
		WithArgs(int64(101), string(domain.StatusPending), string(domain.StatusConfirmed), "staff:7").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.AppendStatusEvent(context.Background(), &domain.BookingStatusEvent{
		BookingID:  101,
		FromStatus: domain.StatusPending,
		ToStatus:   domain.StatusConfirmed,
		Actor:      "staff:7",
	})
	assert.NoError(t, err)
}
