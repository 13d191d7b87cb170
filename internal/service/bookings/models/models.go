package models

import (
	"errors"
	"time"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// TransitionRequest запрос на перевод бронирования в новый статус
type TransitionRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID               int64     `json:"id"`
	TenantID         int64     `json:"tenantId"`
	HoldID           *string   `json:"holdId,omitempty"`
	GuestName        string    `json:"guestName"`
	GuestContact     string    `json:"guestContact"`
	PartySize        int       `json:"partySize"`
	BookingTime      time.Time `json:"bookingTime"`
	Status           string    `json:"status"`
	ConfirmationCode string    `json:"confirmationCode"`
	Source           string    `json:"source"`

	// Признак fallback-брони, ожидающей ручного подтверждения персоналом
	RequiresStaffReview bool `json:"requiresStaffReview"`

	ProviderReservationID *string `json:"providerReservationId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                    b.ID,
		TenantID:              b.TenantID,
		HoldID:                b.HoldID,
		GuestName:             b.GuestName,
		GuestContact:          b.GuestContact,
		PartySize:             b.PartySize,
		BookingTime:           b.BookingTime,
		Status:                string(b.Status),
		ConfirmationCode:      b.ConfirmationCode,
		Source:                string(b.Source),
		RequiresStaffReview:   b.RequiresStaffReview(),
		ProviderReservationID: b.ProviderReservationID,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s, ok := domain.ValidBookingStatus(status)
	if !ok {
		return "", ErrInvalidStatus
	}
	return s, nil
}
