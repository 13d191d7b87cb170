package domain

import "time"

// HoldStatus represents the status of a slot hold
type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "active"
	HoldStatusConfirmed HoldStatus = "confirmed"
	HoldStatusExpired   HoldStatus = "expired"
	HoldStatusReleased  HoldStatus = "released"
)

// Hold represents a time-boxed exclusive claim on a reservation slot
// Холд резервирует слот на время заполнения гостем формы в виджете.
// Пока холд активен, никто другой не может занять тот же слот
type Hold struct {
	ID        string // UUID, генерируется сервером
	TenantID  int64
	SlotKey   SlotKey
	PartySize int
	SessionID string // Сессия виджета, создавшая холд
	Status    HoldStatus
	CreatedAt time.Time
	ExpiresAt time.Time // Всегда CreatedAt + lease duration
}

// IsTerminal returns true if the hold reached a terminal status
// Терминальные статусы неизменяемы: второй писатель всегда видит не-active и no-op-ится
func (h *Hold) IsTerminal() bool {
	return h.Status == HoldStatusConfirmed ||
		h.Status == HoldStatusExpired ||
		h.Status == HoldStatusReleased
}

// IsLive returns true if the hold is active and its lease has not lapsed at now
// Активный холд с истёкшим expires_at считается несуществующим для всех читателей
// ещё до того, как его подметёт фоновая чистка (lazy expiry)
func (h *Hold) IsLive(now time.Time) bool {
	return h.Status == HoldStatusActive && now.Before(h.ExpiresAt)
}

// IsLapsed returns true if the hold is still marked active but its lease has elapsed
func (h *Hold) IsLapsed(now time.Time) bool {
	return h.Status == HoldStatusActive && !now.Before(h.ExpiresAt)
}
