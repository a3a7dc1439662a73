// Package loop implements the cooperative super-loop that drives every
// registered Pollable (radio.Radio, mqttclient.MqttClient, and anything
// else satisfying state.Pollable) once per iteration, the Go analog of
// the source firmware's c3p_task: poll everything, and only sleep if
// nothing in the round took action.
package loop

import (
	"context"
	"time"

	"github.com/jspark311/esp32-connectivity-core/state"
)

// IdleSleep is how long Run waits before the next round when every
// Pollable reported NoAction. It is a cooperative-scheduling courtesy,
// not a polling-interval guarantee: a round that takes an action is
// immediately followed by another round with no sleep at all.
const IdleSleep = 10 * time.Millisecond

// Run ticks every pollable once per round until ctx is cancelled. It
// never returns except via ctx.Err().
func Run(ctx context.Context, pollables ...state.Pollable) error {
	ticker := time.NewTicker(IdleSleep)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		shouldSleep := true
		for _, p := range pollables {
			if p.Poll() == state.Action {
				shouldSleep = false
			}
		}

		if !shouldSleep {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
