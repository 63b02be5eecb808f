package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/scrapbox-rag/internal/entity"
	pkgRetry "github.com/futig/scrapbox-rag/internal/pkg/retry"
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

func newTestGate(attempts uint, timer *recordingTimer) *Gate {
	return NewGate(&pkgRetry.RetryConfig{Attempts: attempts, Delay: 2 * time.Second}, WithTimer(timer))
}

func TestGate_WaitReady_EventuallyReady(t *testing.T) {
	calls := 0
	probe := Probe{Name: "embedding", Check: func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}}

	timer := &recordingTimer{}
	require.NoError(t, newTestGate(5, timer).WaitReady(context.Background(), probe))

	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, timer.delays)
}

func TestGate_WaitReady_NeverReady(t *testing.T) {
	calls := 0
	never := Probe{Name: "embedding", Check: func(context.Context) error {
		calls++
		return errors.New("connection refused")
	}}
	laterCalled := false
	later := Probe{Name: "storage", Check: func(context.Context) error {
		laterCalled = true
		return nil
	}}

	err := newTestGate(4, &recordingTimer{}).WaitReady(context.Background(), never, later)

	require.ErrorIs(t, err, entity.ErrServiceNotReady)
	assert.Contains(t, err.Error(), "embedding")
	assert.Equal(t, 4, calls)
	assert.False(t, laterCalled)
}

func TestGate_WaitReady_ChecksInOrder(t *testing.T) {
	var order []string
	probe := func(name string) Probe {
		return Probe{Name: name, Check: func(context.Context) error {
			order = append(order, name)
			return nil
		}}
	}

	require.NoError(t, newTestGate(1, &recordingTimer{}).WaitReady(context.Background(), probe("embedding"), probe("storage")))
	assert.Equal(t, []string{"embedding", "storage"}, order)
}

func TestGate_WaitReady_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	probe := Probe{Name: "storage", Check: func(context.Context) error {
		return errors.New("down")
	}}

	err := NewGate(&pkgRetry.RetryConfig{Attempts: 3, Delay: time.Hour}).WaitReady(ctx, probe)
	require.ErrorIs(t, err, entity.ErrServiceNotReady)
}
