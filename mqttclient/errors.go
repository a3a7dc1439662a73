package mqttclient

import "errors"

// Error taxonomy from §7.
var (
	ErrNotReady          = errors.New("mqttclient: not ready")
	ErrNotConnected      = errors.New("mqttclient: not connected")
	ErrBadParameter      = errors.New("mqttclient: bad parameter")
	ErrHardwareOrLibrary = errors.New("mqttclient: underlying mqtt library error")
	ErrLinkDown          = errors.New("mqttclient: radio link is not up")
)
