// Package slotutil provides a ticker that fires at the start of every slot
// along with helpers for computing slot-relative durations.
package slotutil

import (
	"context"
	"time"

	"github.com/ethvigil/vigil/shared/params"
	"github.com/ethvigil/vigil/shared/roughtime"
)

// SlotTicker emits the current slot number at the start of every slot.
type SlotTicker struct {
	c    chan uint64
	done chan struct{}
}

// C returns the channel on which slot numbers are delivered.
func (s *SlotTicker) C() <-chan uint64 {
	return s.c
}

// Done frees resources associated with the ticker; subsequent values will
// not be sent.
func (s *SlotTicker) Done() {
	go func() {
		s.done <- struct{}{}
	}()
}

// GetSlotTicker is the production constructor, using roughtime.Since/Until
// and time.After for the underlying clock.
func GetSlotTicker(genesisTime time.Time, secondsPerSlot uint64) *SlotTicker {
	ticker := &SlotTicker{
		c:    make(chan uint64),
		done: make(chan struct{}),
	}
	ticker.start(genesisTime, secondsPerSlot, roughtime.Since, roughtime.Until, time.After)
	return ticker
}

func (s *SlotTicker) start(
	genesisTime time.Time,
	secondsPerSlot uint64,
	since, until func(time.Time) time.Duration,
	after func(time.Duration) <-chan time.Time,
) {
	d := time.Duration(secondsPerSlot) * time.Second
	go func() {
		sinceGenesis := since(genesisTime)
		var nextTick time.Duration
		var slot uint64
		if sinceGenesis < 0 {
			// Not yet genesis, the first tick fires at genesis and is slot 0.
			nextTick = until(genesisTime)
			slot = 0
		} else {
			nextTickTime := genesisTime.Add((sinceGenesis/d + 1) * d)
			nextTick = until(nextTickTime)
			slot = uint64(sinceGenesis/d) + 1
		}
		for {
			select {
			case <-after(nextTick):
				select {
				case s.c <- slot:
				case <-s.done:
					return
				}
				slot++
				nextTick = d
			case <-s.done:
				return
			}
		}
	}()
}

// DivideSlotBy returns a fraction of a single slot's duration, used for
// the one-third and two-thirds phase deadlines.
func DivideSlotBy(divisor int64) time.Duration {
	return time.Duration(int64(params.BeaconConfig().SecondsPerSlot)*int64(time.Second)) / time.Duration(divisor)
}

// StartTime computes the wall-clock start time of a slot given genesis time.
func StartTime(genesisTime uint64, slot uint64) time.Time {
	duration := time.Duration(slot*params.BeaconConfig().SecondsPerSlot) * time.Second
	return time.Unix(int64(genesisTime), 0).Add(duration)
}

// SleepUntil blocks until t, or until ctx is canceled, whichever comes
// first. If t is already in the past it returns immediately — this is a
// tested property of the scheduling core (a deadline sleep whose target
// is already elapsed must not wait for the next tick).
func SleepUntil(ctx context.Context, t time.Time) {
	wait := roughtime.Until(t)
	if wait <= 0 {
		return
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
