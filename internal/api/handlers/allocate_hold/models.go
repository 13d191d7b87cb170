package allocate_hold

import (
	"time"

	allocateHold "github.com/m04kA/TRP-ReservationService/internal/usecase/allocate_hold"
)

// AllocateHoldRequest HTTP request model
type AllocateHoldRequest struct {
	TenantID    int64  `json:"tenantId"`
	BookingTime string `json:"bookingTime"` // RFC 3339, например "2026-09-01T19:00:00+03:00"
	PartySize   int    `json:"partySize"`
	SessionID   string `json:"sessionId"`
}

// HoldResponse HTTP response model
type HoldResponse struct {
	HoldID    string `json:"holdId"`
	TenantID  int64  `json:"tenantId"`
	SlotKey   string `json:"slotKey"` // Канонический ключ слота после нормализации
	PartySize int    `json:"partySize"`
	SessionID string `json:"sessionId"`
	CreatedAt string `json:"createdAt"`
	ExpiresAt string `json:"expiresAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *AllocateHoldRequest) ToUseCaseRequest() (*allocateHold.Request, error) {
	bookingTime, err := time.Parse(time.RFC3339, r.BookingTime)
	if err != nil {
		return nil, err
	}

	return &allocateHold.Request{
		TenantID:    r.TenantID,
		BookingTime: bookingTime,
		PartySize:   r.PartySize,
		SessionID:   r.SessionID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *allocateHold.Response) *HoldResponse {
	return &HoldResponse{
		HoldID:    resp.HoldID,
		TenantID:  resp.TenantID,
		SlotKey:   resp.SlotKey,
		PartySize: resp.PartySize,
		SessionID: resp.SessionID,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		ExpiresAt: resp.ExpiresAt.Format(time.RFC3339),
	}
}
