package confirm_hold

import (
	"time"

	confirmHold "github.com/m04kA/TRP-ReservationService/internal/usecase/confirm_hold"
)

// ConfirmHoldRequest HTTP request model
type ConfirmHoldRequest struct {
	IdempotencyToken string `json:"idempotencyToken"`
	GuestName        string `json:"guestName"`
	GuestContact     string `json:"guestContact"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	BookingID        int64  `json:"bookingId"`
	TenantID         int64  `json:"tenantId"`
	HoldID           string `json:"holdId"`
	Status           string `json:"status"`
	Source           string `json:"source"`
	ConfirmationCode string `json:"confirmationCode"`
	GuestName        string `json:"guestName"`
	PartySize        int    `json:"partySize"`
	BookingTime      string `json:"bookingTime"`
	CreatedAt        string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ConfirmHoldRequest) ToUseCaseRequest(holdID string) *confirmHold.Request {
	return &confirmHold.Request{
		HoldID:           holdID,
		IdempotencyToken: r.IdempotencyToken,
		GuestName:        r.GuestName,
		GuestContact:     r.GuestContact,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *confirmHold.Response) *BookingResponse {
	return &BookingResponse{
		BookingID:        resp.BookingID,
		TenantID:         resp.TenantID,
		HoldID:           resp.HoldID,
		Status:           resp.Status,
		Source:           resp.Source,
		ConfirmationCode: resp.ConfirmationCode,
		GuestName:        resp.GuestName,
		PartySize:        resp.PartySize,
		BookingTime:      resp.BookingTime.Format(time.RFC3339),
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
	}
}
