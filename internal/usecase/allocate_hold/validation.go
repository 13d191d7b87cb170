package allocate_hold

import (
	"fmt"
	"time"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
	"github.com/m04kA/TRP-ReservationService/internal/integrations/tenantservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidSlotRequest)
	}

	if req.BookingTime.IsZero() {
		return fmt.Errorf("%w: bookingTime is required", ErrInvalidSlotRequest)
	}

	if req.SessionID == "" {
		return fmt.Errorf("%w: sessionID is required", ErrInvalidSlotRequest)
	}

	if req.PartySize < domain.MinPartySize || req.PartySize > domain.MaxPartySize {
		return fmt.Errorf("%w: partySize must be between %d and %d",
			ErrInvalidSlotRequest, domain.MinPartySize, domain.MaxPartySize)
	}

	return nil
}

// validateAgainstTenant проверяет запрос против конфигурации арендатора
func validateAgainstTenant(req *Request, tenant *tenantservice.Tenant, now time.Time) error {
	if tenant.MaxPartySize > 0 && req.PartySize > tenant.MaxPartySize {
		return fmt.Errorf("%w: partySize %d exceeds tenant limit %d",
			ErrInvalidSlotRequest, req.PartySize, tenant.MaxPartySize)
	}

	if req.BookingTime.Before(now) {
		return fmt.Errorf("%w: bookingTime is in the past", ErrInvalidSlotRequest)
	}

	return nil
}

// seatingDuration возвращает гранулярность посадки арендатора
// Если у арендатора не настроена, используется значение по умолчанию
func seatingDuration(tenant *tenantservice.Tenant) time.Duration {
	if tenant.SeatingDurationMinutes <= 0 {
		return domain.DefaultSeatingDuration
	}
	return time.Duration(tenant.SeatingDurationMinutes) * time.Minute
}
