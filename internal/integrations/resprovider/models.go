package resprovider

import "time"

// CreateReservationRequest запрос на создание брони во внешнем сервисе
type CreateReservationRequest struct {
	TenantID     int64     `json:"tenant_id"`
	Slot         time.Time `json:"slot"`
	PartySize    int       `json:"party_size"`
	GuestName    string    `json:"guest_name"`
	GuestContact string    `json:"guest_contact"`
}

// Reservation ответ внешнего сервиса резервирования
// Ответ не является доверенным: недостающие обязательные поля трактуются
// как отказ и запускают fallback-путь
type Reservation struct {
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
}

// ErrorResponse модель ошибки от внешнего сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
