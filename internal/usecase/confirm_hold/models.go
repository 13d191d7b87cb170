package confirm_hold

import (
	"time"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
)

// Request модель запроса на подтверждение холда
type Request struct {
	HoldID           string // UUID холда
	IdempotencyToken string // Токен идемпотентности от клиента
	GuestName        string // Имя гостя
	GuestContact     string // Телефон или email гостя
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID        int64     // ID бронирования
	TenantID         int64     // ID арендатора
	HoldID           string    // UUID холда
	Status           string    // Статус бронирования
	Source           string    // primary | fallback
	ConfirmationCode string    // Код подтверждения для гостя
	GuestName        string    // Имя гостя
	PartySize        int       // Размер группы
	BookingTime      time.Time // Время бронирования
	CreatedAt        time.Time // Время создания
}

// fromBooking конвертирует доменную модель в ответ usecase
func fromBooking(b *domain.Booking) *Response {
	holdID := ""
	if b.HoldID != nil {
		holdID = *b.HoldID
	}

	return &Response{
		BookingID:        b.ID,
		TenantID:         b.TenantID,
		HoldID:           holdID,
		Status:           string(b.Status),
		Source:           string(b.Source),
		ConfirmationCode: b.ConfirmationCode,
		GuestName:        b.GuestName,
		PartySize:        b.PartySize,
		BookingTime:      b.BookingTime,
		CreatedAt:        b.CreatedAt,
	}
}
