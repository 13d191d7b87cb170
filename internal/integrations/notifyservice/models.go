package notifyservice

import "time"

// Типы событий уведомлений
const (
	EventBookingCreated      = "booking.created"
	EventBookingTransitioned = "booking.transitioned"
)

// BookingEvent событие о создании или переходе статуса бронирования
type BookingEvent struct {
	Type             string    `json:"type"`
	TenantID         int64     `json:"tenant_id"`
	BookingID        int64     `json:"booking_id"`
	Status           string    `json:"status"`
	Source           string    `json:"source,omitempty"`
	ConfirmationCode string    `json:"confirmation_code,omitempty"`
	GuestContact     string    `json:"guest_contact,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
