package svf

import (
	"fmt"
	"strings"
)

// Response selects which of the simultaneously computed filter outputs an
// update returns.
type Response int

const (
	// ResponseLowpass selects the low-pass output.
	ResponseLowpass Response = iota
	// ResponseHighpass selects the high-pass output.
	ResponseHighpass
	// ResponseBandpass selects the band-pass output.
	ResponseBandpass
	// ResponseBandstop selects the band-stop output.
	ResponseBandstop
)

// ResponseNotch is an alias for ResponseBandstop; the notch output is the sum
// of the lowpass and highpass outputs.
const ResponseNotch = ResponseBandstop

func (r Response) String() string {
	switch r {
	case ResponseLowpass:
		return "lowpass"
	case ResponseHighpass:
		return "highpass"
	case ResponseBandpass:
		return "bandpass"
	case ResponseBandstop:
		return "bandstop"
	default:
		return "unknown"
	}
}

// ParseResponse converts a textual response label into a Response.
// Recognized labels are "lowpass", "highpass", "bandpass", "bandstop" and
// "notch" (case-insensitive).
func ParseResponse(label string) (Response, error) {
	switch strings.ToLower(label) {
	case "lowpass":
		return ResponseLowpass, nil
	case "highpass":
		return ResponseHighpass, nil
	case "bandpass":
		return ResponseBandpass, nil
	case "bandstop", "notch":
		return ResponseBandstop, nil
	default:
		return 0, fmt.Errorf("svf: unknown response %q", label)
	}
}

func validResponse(r Response) bool {
	return r >= ResponseLowpass && r <= ResponseBandstop
}
