package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusSeated    BookingStatus = "seated"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// BookingSource показывает, каким путём было создано бронирование
type BookingSource string

const (
	// SourcePrimary бронирование подтверждено внешним сервисом резервирования
	SourcePrimary BookingSource = "primary"
	// SourceFallback внешний сервис был недоступен, бронирование создано локально
	// и требует ручного подтверждения персоналом
	SourceFallback BookingSource = "fallback"
)

// Booking represents a durable reservation record
type Booking struct {
	ID               int64
	TenantID         int64
	HoldID           *string // NULL только для бронирований, созданных персоналом мимо виджета
	GuestName        string
	GuestContact     string
	PartySize        int
	BookingTime      time.Time
	Status           BookingStatus
	ConfirmationCode string
	Source           BookingSource

	// Идентификатор брони во внешнем сервисе (только для source=primary)
	ProviderReservationID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// allowedTransitions таблица допустимых переходов статусов
// Бронирование никогда не удаляется - отмена это статус, а не удаление строки
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusSeated, StatusCancelled, StatusNoShow},
	StatusSeated:    {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// CanTransitionTo returns true if the transition from the current status is allowed
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, s := range allowedTransitions[b.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the booking reached a terminal status
func (b *Booking) IsTerminal() bool {
	return len(allowedTransitions[b.Status]) == 0
}

// IsActive returns true if the booking is in an active state
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled &&
		b.Status != StatusNoShow &&
		b.Status != StatusCompleted
}

// RequiresStaffReview returns true for fallback bookings awaiting manual confirmation
func (b *Booking) RequiresStaffReview() bool {
	return b.Source == SourceFallback && b.Status == StatusPending
}

// ValidBookingStatus проверяет, что строка является допустимым статусом
func ValidBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusSeated, StatusCompleted, StatusCancelled, StatusNoShow:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// BookingStatusEvent запись аудита перехода статуса
// Таблица append-only: переходы только добавляются, никогда не изменяются
type BookingStatusEvent struct {
	ID         int64
	BookingID  int64
	FromStatus BookingStatus
	ToStatus   BookingStatus
	Actor      string
	CreatedAt  time.Time
}
