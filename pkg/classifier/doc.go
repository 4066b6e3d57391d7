// Package classifier decides whether a message is a real notification or
// internal control traffic. Only real notifications are eligible for storage
// in the history buffer and for broadcast to subscribers.
package classifier
