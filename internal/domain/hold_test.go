package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHold_Liveness(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)

	active := &Hold{Status: HoldStatusActive, ExpiresAt: now.Add(time.Minute)}
	assert.True(t, active.IsLive(now))
	assert.False(t, active.IsLapsed(now))

	// Граница: expires_at == now означает, что lease уже истёк
	onBoundary := &Hold{Status: HoldStatusActive, ExpiresAt: now}
	assert.False(t, onBoundary.IsLive(now))
	assert.True(t, onBoundary.IsLapsed(now))

	lapsed := &Hold{Status: HoldStatusActive, ExpiresAt: now.Add(-time.Second)}
	assert.False(t, lapsed.IsLive(now))
	assert.True(t, lapsed.IsLapsed(now))

	// Терминальный холд не бывает ни live, ни lapsed
	released := &Hold{Status: HoldStatusReleased, ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, released.IsLive(now))
	assert.False(t, released.IsLapsed(now))
}

func TestHold_IsTerminal(t *testing.T) {
	assert.False(t, (&Hold{Status: HoldStatusActive}).IsTerminal())
	for _, s := range []HoldStatus{HoldStatusConfirmed, HoldStatusExpired, HoldStatusReleased} {
		assert.True(t, (&Hold{Status: s}).IsTerminal(), "status=%s", s)
	}
}
