package radio

import "errors"

// Error taxonomy from §7. ErrBusy and ErrBadParameter are state.ErrBusy's
// domain-specific siblings; operations that hit the generic queue error
// are translated to these before returning to the caller.
var (
	ErrNotReady          = errors.New("radio: not ready")
	ErrBadParameter      = errors.New("radio: bad parameter")
	ErrHardwareOrLibrary = errors.New("radio: underlying wifi library error")
	ErrAuthRefused       = errors.New("radio: association refused, credentials required")
)
