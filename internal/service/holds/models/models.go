package models

import "github.com/m04kA/TRP-ReservationService/internal/domain"

// ReleaseResponse результат освобождения холда
type ReleaseResponse struct {
	HoldID   string `json:"holdId"`
	Status   string `json:"status"`
	Released bool   `json:"released"`
}

// FromDomainHold собирает ответ по итоговому состоянию холда
func FromDomainHold(h *domain.Hold, released bool) *ReleaseResponse {
	return &ReleaseResponse{
		HoldID:   h.ID,
		Status:   string(h.Status),
		Released: released,
	}
}
