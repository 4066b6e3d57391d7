// Package relay contains the hub that orchestrates the notification relay:
// connection lifecycle with history backfill, classification and fan-out of
// inbound frames, producer API submissions, and the periodic liveness sweep
// and keepalive probe.
package relay
