package radio

import (
	"fmt"
	"strconv"
	"strings"
)

// HandleCommand dispatches a console/diagnostics command against this
// Radio, mirroring console_handler_esp_radio from the source firmware's
// serial console. args[0] is the subcommand; the remainder are its
// arguments. The return value is the text to print back to the console.
func (r *Radio) HandleCommand(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrBadParameter
	}
	switch args[0] {
	case "associate":
		if len(args) < 2 {
			return "", fmt.Errorf("%w: usage: associate <ssid> [psk]", ErrBadParameter)
		}
		psk := ""
		if len(args) >= 3 {
			psk = args[2]
		}
		if err := r.Associate(args[1], psk); err != nil {
			return "", err
		}
		return fmt.Sprintf("associated config for %q", args[1]), nil

	case "con":
		if err := r.AppendConnectRoute(); err != nil {
			return "", err
		}
		return "connect route queued", nil

	case "discon":
		if err := r.AppendDisconnectRoute(); err != nil {
			return "", err
		}
		return "disconnect route queued", nil

	case "deauth":
		if len(args) < 2 {
			return "", fmt.Errorf("%w: usage: deauth <aid>", ErrBadParameter)
		}
		aid, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			return "", fmt.Errorf("%w: bad aid: %s", ErrBadParameter, err)
		}
		if err := r.Deauth(uint16(aid)); err != nil {
			return "", err
		}
		return "deauth sent", nil

	case "scan":
		if err := r.WifiScan(); err != nil {
			return "", err
		}
		return "scan route queued", nil

	case "autoconnect":
		if len(args) < 2 {
			return "", fmt.Errorf("%w: usage: autoconnect <on|off>", ErrBadParameter)
		}
		r.SetAutoconnect(args[1] == "on")
		return fmt.Sprintf("autoconnect=%v", r.Autoconnect()), nil

	case "clear-auth-refused":
		r.ClearAuthRefused()
		return "auth_refused cleared", nil

	case "fsm":
		return r.debugString(), nil

	default:
		return "", fmt.Errorf("%w: unknown radio command %q", ErrBadParameter, args[0])
	}
}

// debugString renders a one-line FSM snapshot, the console's "fsm"
// subcommand and the Go analog of the source firmware's printDebug.
func (r *Radio) debugString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "state=%s link_up=%v has_ip=%v auth_refused=%v autoconnect=%v",
		r.machine.String(), r.LinkUp(), r.HasIP(), r.AuthRefused(), r.Autoconnect())
	if r.hasCurrentAP {
		fmt.Fprintf(&b, " ap=%q", r.currentAP.SSID)
	}
	return b.String()
}
