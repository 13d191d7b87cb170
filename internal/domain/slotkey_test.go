package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSlotKey_NearbyTimesCollide(t *testing.T) {
	// Запросы внутри одного окна посадки должны дать одинаковый ключ
	base := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	seating := 90 * time.Minute

	k1 := ResolveSlotKey(42, base.Add(5*time.Second), seating)
	k2 := ResolveSlotKey(42, base.Add(17*time.Minute), seating)

	assert.Equal(t, k1, k2)
	assert.Equal(t, base.Truncate(seating), k1.TimeBucket)
}

func TestResolveSlotKey_DifferentBucketsDiffer(t *testing.T) {
	base := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	seating := 90 * time.Minute

	k1 := ResolveSlotKey(42, base, seating)
	k2 := ResolveSlotKey(42, base.Add(seating), seating)

	assert.NotEqual(t, k1.TimeBucket, k2.TimeBucket)
}

func TestResolveSlotKey_TenantsDoNotCollide(t *testing.T) {
	at := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)

	k1 := ResolveSlotKey(1, at, 90*time.Minute)
	k2 := ResolveSlotKey(2, at, 90*time.Minute)

	assert.Equal(t, k1.TimeBucket, k2.TimeBucket)
	assert.NotEqual(t, k1, k2)
}

func TestResolveSlotKey_NormalizesTimezone(t *testing.T) {
	// 19:00 MSK и 16:00 UTC это один и тот же момент - ключ обязан совпасть
	msk := time.FixedZone("MSK", 3*60*60)
	inMSK := time.Date(2026, 9, 1, 19, 0, 0, 0, msk)
	inUTC := time.Date(2026, 9, 1, 16, 0, 0, 0, time.UTC)

	k1 := ResolveSlotKey(7, inMSK, 30*time.Minute)
	k2 := ResolveSlotKey(7, inUTC, 30*time.Minute)

	assert.Equal(t, k1, k2)
	assert.Equal(t, time.UTC, k1.TimeBucket.Location())
}

func TestSlotKey_StringRoundTrip(t *testing.T) {
	key := ResolveSlotKey(42, time.Date(2026, 9, 1, 19, 12, 33, 0, time.UTC), 90*time.Minute)

	parsed, err := ParseSlotKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key.TenantID, parsed.TenantID)
	assert.True(t, key.TimeBucket.Equal(parsed.TimeBucket))
}

func TestParseSlotKey_Invalid(t *testing.T) {
	for _, raw := range []string{"", "noseparator", ":2026-09-01T19:00:00Z", "abc:2026-09-01T19:00:00Z", "42:not-a-time"} {
		_, err := ParseSlotKey(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}
