package classifier

import "strings"

// controlMarkers is the fixed denylist of substrings identifying internal
// control traffic: handshake confirmations, keepalive frames, and debug/test
// markers. Matching is case-insensitive and position-independent. The list is
// intentionally naive substring matching; changing it to structured message
// typing changes which messages are stored and broadcast.
var controlMarkers = []string{
	"initial sync",
	"connected to",
	"connection successful",
	"request_initial_data",
	"ping",
	"pong",
	"heartbeat",
	"system_",
	"debug_",
	"test_connection",
}

// IsRealNotification reports whether text is a real notification rather than
// a system/control message. Text is real iff none of the control markers
// appear as a substring anywhere in it, case-insensitively. The empty string
// is real. The function is pure and never fails.
func IsRealNotification(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range controlMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
