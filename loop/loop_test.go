package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jspark311/esp32-connectivity-core/state"
)

type countingPollable struct {
	calls   atomic.Int64
	actions int64
}

func (c *countingPollable) Poll() state.PollVerdict {
	n := c.calls.Add(1)
	if n <= c.actions {
		return state.Action
	}
	return state.NoAction
}

func testRunPollsEveryPollableEachRound(t *testing.T) {
	a := &countingPollable{actions: 3}
	b := &countingPollable{actions: 3}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_ = Run(ctx, a, b)

	if a.calls.Load() == 0 || b.calls.Load() == 0 {
		t.Fatal("expected both pollables to be ticked at least once")
	}
}

func testRunStopsOnContextCancel(t *testing.T) {
	a := &countingPollable{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, a)
	if err == nil {
		t.Fatal("expected Run to report context cancellation")
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T)
	}{
		{"PollsEveryPollableEachRound", testRunPollsEveryPollableEachRound},
		{"StopsOnContextCancel", testRunStopsOnContextCancel},
	}
	for _, tc := range tests {
		t.Run(tc.name, tc.fn)
	}
}
