package session

import (
	"math"
	"math/rand"
	"time"
)

// Delay is the pause before reopening the line after the given number of
// consecutive failures. The first retry waits InitialDelay and each later one
// grows by Multiplier until MaxDelay. With Jitter and a random source the
// result is drawn from [delay/2, delay].
func (b BackoffConfig) Delay(failures int, rng *rand.Rand) time.Duration {
	if b.InitialDelay <= 0 {
		return 0
	}
	ceiling := b.MaxDelay
	if ceiling <= 0 {
		ceiling = math.MaxInt64
	}
	growth := math.Max(b.Multiplier, 1)

	delay := min(b.InitialDelay, ceiling)
	for i := 1; i < failures && growth > 1 && delay < ceiling; i++ {
		next := float64(delay) * growth
		if next >= float64(ceiling) {
			delay = ceiling
			break
		}
		delay = time.Duration(next)
	}

	if b.Jitter && rng != nil && delay > 1 {
		half := delay / 2
		delay = half + time.Duration(rng.Int63n(int64(delay-half)+1))
	}
	return delay
}

func (s *Supervisor) retryDelay(failures int) time.Duration {
	return s.cfg.Backoff.Delay(failures, s.rng)
}
