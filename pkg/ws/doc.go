// Package ws is the WebSocket transport for the relay: it upgrades HTTP
// requests to persistent bidirectional connections carrying opaque text
// frames and adapts them to the connection registry.
package ws
