package confirm_hold

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.HoldID == "" {
		return fmt.Errorf("%w: holdID is required", ErrInvalidInput)
	}

	if req.IdempotencyToken == "" {
		return fmt.Errorf("%w: idempotencyToken is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.GuestName) == "" {
		return fmt.Errorf("%w: guestName is required", ErrInvalidInput)
	}

	if len(req.GuestName) > domain.MaxGuestNameLength {
		return fmt.Errorf("%w: guestName exceeds %d characters", ErrInvalidInput, domain.MaxGuestNameLength)
	}

	if strings.TrimSpace(req.GuestContact) == "" {
		return fmt.Errorf("%w: guestContact is required", ErrInvalidInput)
	}

	if len(req.GuestContact) > domain.MaxGuestContactLength {
		return fmt.Errorf("%w: guestContact exceeds %d characters", ErrInvalidInput, domain.MaxGuestContactLength)
	}

	return nil
}

// newConfirmationCode генерирует код подтверждения с заданным префиксом
// Fallback-коды получают отличимый префикс PEND, чтобы персонал сразу видел
// брони, ожидающие ручного подтверждения
func newConfirmationCode(prefix string) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + raw[:8]
}
