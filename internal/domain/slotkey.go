package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotKey канонический ключ конкуренции за слот: (tenant_id, time_bucket)
// Два запроса на "один и тот же эффективный слот" детерминированно получают
// одинаковый ключ, даже если их исходные timestamps отличаются на секунды.
// Ключ не хранится отдельной сущностью - он живёт внутри холда и служит
// предметом уникального ограничения в хранилище
type SlotKey struct {
	TenantID   int64
	TimeBucket time.Time // Начало окна посадки в UTC
}

// String возвращает строковое представление ключа для хранения и логов
func (k SlotKey) String() string {
	return fmt.Sprintf("%d:%s", k.TenantID, k.TimeBucket.UTC().Format(time.RFC3339))
}

// ParseSlotKey восстанавливает ключ из строкового представления в хранилище
func ParseSlotKey(s string) (SlotKey, error) {
	idx := strings.Index(s, ":")
	if idx <= 0 {
		return SlotKey{}, fmt.Errorf("invalid slot key format: %q", s)
	}

	tenantID, err := strconv.ParseInt(s[:idx], 10, 64)
	if err != nil {
		return SlotKey{}, fmt.Errorf("invalid tenant id in slot key %q: %v", s, err)
	}

	bucket, err := time.Parse(time.RFC3339, s[idx+1:])
	if err != nil {
		return SlotKey{}, fmt.Errorf("invalid time bucket in slot key %q: %v", s, err)
	}

	return SlotKey{TenantID: tenantID, TimeBucket: bucket.UTC()}, nil
}

// ResolveSlotKey derives the contention key from a requested booking time.
// Чистая функция без I/O: время бронирования приводится к UTC и усекается
// до гранулярности посадки арендатора (seating duration)
func ResolveSlotKey(tenantID int64, bookingTime time.Time, seatingDuration time.Duration) SlotKey {
	return SlotKey{
		TenantID:   tenantID,
		TimeBucket: bookingTime.UTC().Truncate(seatingDuration),
	}
}
