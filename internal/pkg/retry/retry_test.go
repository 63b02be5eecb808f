package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTimer struct {
	delays []time.Duration
}

func (t *recordingTimer) After(d time.Duration) <-chan time.Time {
	t.delays = append(t.delays, d)
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func TestBackoff(t *testing.T) {
	delay := Backoff(100*time.Millisecond, time.Second)

	assert.Equal(t, 100*time.Millisecond, delay(0, nil, nil))
	assert.Equal(t, 200*time.Millisecond, delay(1, nil, nil))
	assert.Equal(t, 400*time.Millisecond, delay(2, nil, nil))
	assert.Equal(t, 800*time.Millisecond, delay(3, nil, nil))
	assert.Equal(t, time.Second, delay(4, nil, nil))
	assert.Equal(t, time.Second, delay(5, nil, nil))

	assert.Equal(t, time.Duration(0), Backoff(0, time.Second)(0, nil, nil))
}

func TestToRetryOptions_ExponentialDelays(t *testing.T) {
	cfg := &RetryConfig{Attempts: 3, Delay: 50 * time.Millisecond, MaxDelay: time.Second}
	timer := &recordingTimer{}
	boom := errors.New("boom")

	calls := 0
	err := retry.Do(func() error {
		calls++
		return boom
	}, append(cfg.ToRetryOptions(), retry.WithTimer(timer))...)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 100 * time.Millisecond}, timer.delays)
}

func TestToFixedOptions(t *testing.T) {
	cfg := &RetryConfig{Attempts: 4, Delay: 20 * time.Millisecond}
	timer := &recordingTimer{}

	calls := 0
	err := retry.Do(func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, append(cfg.ToFixedOptions(), retry.WithTimer(timer))...)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{20 * time.Millisecond, 20 * time.Millisecond}, timer.delays)
}
