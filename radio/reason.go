package radio

// DisconnectReason mirrors a subset of the reason codes the underlying
// Wi-Fi library reports on WIFI_EVENT_STA_DISCONNECTED. Only the subset
// relevant to the AUTH_REFUSED mapping (§9 Open Question 4 / SPEC_FULL §3)
// is named; unrecognized codes are simply not authentication failures.
type DisconnectReason uint16

const (
	ReasonUnspecified             DisconnectReason = 1
	ReasonAuthExpire              DisconnectReason = 2
	ReasonAssocExpire             DisconnectReason = 4
	ReasonNotAuthed               DisconnectReason = 6
	ReasonMicFailure              DisconnectReason = 14
	ReasonFourWayHandshakeTimeout DisconnectReason = 15
	ReasonHandshakeTimeout        DisconnectReason = 16
	ReasonBeaconTimeout           DisconnectReason = 200
	ReasonNoAPFound               DisconnectReason = 201
	ReasonAuthFail                DisconnectReason = 202
	ReasonAssocFail               DisconnectReason = 203
	ReasonConnectionFail          DisconnectReason = 204
)

// isAuthFailure reports whether reason should set the sticky AUTH_REFUSED
// flag. Handshake-timeout, 4-way-handshake-timeout, MIC failure, and
// explicit auth-related codes all count. Association-expired is a
// transient radio-layer drop, not a credential failure, and reconnects
// normally like beacon timeout, no AP found, and generic connection
// failure.
func isAuthFailure(reason DisconnectReason) bool {
	switch reason {
	case ReasonAuthExpire, ReasonNotAuthed, ReasonMicFailure,
		ReasonFourWayHandshakeTimeout, ReasonHandshakeTimeout, ReasonAuthFail:
		return true
	default:
		return false
	}
}
