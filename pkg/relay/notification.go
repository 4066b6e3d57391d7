package relay

import "strings"

// Notification is a structured submission received on the producer API.
// The relay treats the encoded form as an opaque string value; the semantic
// fields are never parsed back out of it.
type Notification struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	ExtraData string `json:"extraData,omitempty"`
}

// Validate checks that the required fields are present and non-empty.
// ExtraData is optional and defaults to empty.
func (n Notification) Validate() error {
	var missing []string
	if n.Type == "" {
		missing = append(missing, "type")
	}
	if n.Title == "" {
		missing = append(missing, "title")
	}
	if n.Message == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Encode returns the pipe-delimited wire form "type|title|message|extraData".
// The trailing field is always present, so a notification without extra data
// ends with a pipe.
func (n Notification) Encode() string {
	return strings.Join([]string{n.Type, n.Title, n.Message, n.ExtraData}, "|")
}
