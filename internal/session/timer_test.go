package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerExpiresExactlyOnce(t *testing.T) {
	timer := NewTimer(time.Millisecond)

	var ticks, expiries atomic.Int64
	timer.Start(3, 1,
		func(gen uint64, remaining int) { ticks.Add(1) },
		func(gen uint64) { expiries.Add(1) },
	)

	assert.Eventually(t, func() bool {
		return expiries.Load() == 1
	}, time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), expiries.Load())
	assert.Equal(t, int64(2), ticks.Load(), "one tick per remaining second before zero")
}

func TestTimerCancelStopsCountdown(t *testing.T) {
	timer := NewTimer(time.Millisecond)

	var expiries atomic.Int64
	timer.Start(5, 1,
		func(uint64, int) {},
		func(uint64) { expiries.Add(1) },
	)
	timer.Cancel()

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, expiries.Load())
}

func TestTimerRestartReplacesCountdown(t *testing.T) {
	timer := NewTimer(time.Millisecond)

	var firstExpired, secondExpired atomic.Bool
	timer.Start(1000, 1,
		func(uint64, int) {},
		func(uint64) { firstExpired.Store(true) },
	)
	timer.Start(2, 2,
		func(uint64, int) {},
		func(gen uint64) {
			if gen == 2 {
				secondExpired.Store(true)
			}
		},
	)

	assert.Eventually(t, func() bool {
		return secondExpired.Load()
	}, time.Second, time.Millisecond)
	assert.False(t, firstExpired.Load())
}

func TestTimerZeroIntervalDefaultsToSecond(t *testing.T) {
	timer := NewTimer(0)
	assert.Equal(t, time.Second, timer.interval)
}
