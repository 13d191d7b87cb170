package domain

import "time"

// Default configuration values
const (
	DefaultLeaseDuration       = 2 * time.Minute
	DefaultSeatingDuration     = 90 * time.Minute
	DefaultProviderTimeout     = 5 * time.Second
	DefaultSweepInterval       = 30 * time.Second
)

// Business validation constants
const (
	MinPartySize = 1
	MaxPartySize = 50

	MinLeaseDuration = 30 * time.Second
	MaxLeaseDuration = 15 * time.Minute

	MaxGuestNameLength    = 200
	MaxGuestContactLength = 200
)

// Префиксы кодов подтверждения
// Fallback-бронирования получают отличимый префикс, чтобы персонал сразу
// видел, что бронь ожидает ручного подтверждения
const (
	ConfirmationCodePrefixPrimary  = "RSV"
	ConfirmationCodePrefixFallback = "PEND"
)

// TerminalHoldStatuses список терминальных статусов холдов
// Используется при фильтрации: уникальность слота действует только для active
var TerminalHoldStatuses = []HoldStatus{
	HoldStatusConfirmed,
	HoldStatusExpired,
	HoldStatusReleased,
}

// TerminalBookingStatuses список терминальных статусов бронирований
var TerminalBookingStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
