package retry

import (
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 3
	defaultDelay    = time.Second
	defaultMaxDelay = 10 * time.Second
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"3"`
	Delay    time.Duration `env:"DELAY" envDefault:"1s"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"10s"`
}

// ToRetryOptions returns options for an exponential backoff: the first retry
// waits Delay and every further retry doubles it, capped at MaxDelay.
func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.DelayType(Backoff(rc.Delay, rc.MaxDelay)),
		retry.LastErrorOnly(true),
	}
}

// ToFixedOptions returns options that poll with a constant Delay between
// attempts.
func (rc *RetryConfig) ToFixedOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.Delay(rc.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	}
}

// Backoff returns a delay function that waits base before the first retry
// and doubles the wait for every following one, capped at max. The returned
// function counts its own calls, so build a fresh one per retried operation.
func Backoff(base, max time.Duration) retry.DelayTypeFunc {
	next := base
	return func(_ uint, _ error, _ *retry.Config) time.Duration {
		if base <= 0 {
			return 0
		}
		d := next
		if max > 0 && d > max {
			d = max
		}
		next = d * 2
		return d
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}
