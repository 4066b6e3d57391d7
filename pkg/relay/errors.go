package relay

import "strings"

// ValidationError reports missing required submission fields. It is a
// client error, surfaced as HTTP 400 and never logged as a fault.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
