// Package api is the thin HTTP route layer over the relay hub: producer
// submissions, status and health probes, and the WebSocket mount point.
package api
