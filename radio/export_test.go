package radio

import "github.com/jspark311/esp32-connectivity-core/state"

// TestBackoff exposes the Radio's internal backoff schedule so that
// black-box tests (package radio_test) can collapse it to avoid
// depending on wall-clock timing. Only compiled for tests.
func (r *Radio) TestBackoff() *state.Backoff { return r.backoff }
